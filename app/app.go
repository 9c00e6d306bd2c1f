// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"go-ledger-api/config"
	"go-ledger-api/db"
	"go-ledger-api/handler"
	"go-ledger-api/logger"
	"go-ledger-api/repository"
	"go-ledger-api/router"
	"go-ledger-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
)

// App holds the wired application. Redis is nil when idempotency is disabled.
type App struct {
	DB     *sql.DB
	Redis  *redis.Client
	Router http.Handler
}

// New wires repositories, services and handlers on top of open connections.
func New(cfg *config.Config, database *sql.DB, rdb *redis.Client) *App {
	// Layers for User
	userRepo := repository.NewUserRepository(database)
	authService := service.NewAuthService(userRepo, cfg.JWT.SecretKey, cfg.JWT.ExpiresIn, cfg.Auth.BcryptCost)
	userService := service.NewUserService(userRepo, authService)

	// Layers for Statement
	statementRepo := repository.NewStatementRepository(database)
	statementService := service.NewStatementService(database, userRepo, statementRepo, cfg.Statements.EnforceOwnership)

	handlers := router.Handlers{
		Health:    handler.NewHealthHandler(database),
		User:      handler.NewUserHandler(userService),
		Session:   handler.NewSessionHandler(authService),
		Statement: handler.NewStatementHandler(statementService),
		Tokens:    authService,
	}
	// Left as a nil interface when redis is off so the middleware passes through.
	if rdb != nil {
		handlers.Idempotency = service.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
	}

	return &App{
		DB:     database,
		Redis:  rdb,
		Router: router.NewRouter(handlers),
	}
}

func Run() {
	logger.Init()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Error loading configuration: %v", err)
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		logger.Log.Fatalf("Error configuring logger: %v", err)
	}
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect(cfg.Database)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(database); err != nil {
			logger.Log.Fatalf("Error running migrations: %v", err)
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = db.ConnectRedis(cfg.Redis)
		if err != nil {
			logger.Log.Fatalf("Error connecting to redis: %v", err)
		}
		defer rdb.Close()
	} else {
		logger.Log.Warn("Redis is not configured, idempotency keys are ignored")
	}

	a := New(cfg, database, rdb)

	// --- Start the Server with Graceful Shutdown ---
	port := cfg.Server.Port
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      a.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Server forced to shutdown: %v", err)
		return
	}

	logger.Log.Info("Server exited properly")
}
