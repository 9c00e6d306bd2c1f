package repository

import (
	"context"
	"database/sql"
	"go-ledger-api/logger"
	"go-ledger-api/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IStatementRepository defines the contract for statement database operations.
type IStatementRepository interface {
	CreateStatement(ctx context.Context, tx *sql.Tx, statement *model.Statement) error
	GetStatementsByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Statement, error)
	GetStatementsByUserIDTx(ctx context.Context, tx *sql.Tx, userID uuid.UUID) ([]*model.Statement, error)
	GetStatementByID(ctx context.Context, id uuid.UUID) (*model.Statement, error)
}

// StatementRepository implements IStatementRepository.
type StatementRepository struct {
	DB *sql.DB
}

func NewStatementRepository(db *sql.DB) *StatementRepository {
	return &StatementRepository{DB: db}
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

const selectStatements = `SELECT id, user_id, type, amount, description, created_at, updated_at FROM statements`

func (r *StatementRepository) CreateStatement(ctx context.Context, tx *sql.Tx, statement *model.Statement) error {
	if statement.ID == uuid.Nil {
		statement.ID = uuid.New()
	}

	log := logger.Log.WithFields(logrus.Fields{
		"statement_id": statement.ID,
		"user_id":      statement.UserID,
		"type":         statement.Type,
		"amount":       statement.Amount.String(),
	})
	log.Info("Executing query to create a new statement")

	query := `INSERT INTO statements (id, user_id, type, amount, description) VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`
	err := tx.QueryRowContext(ctx, query, statement.ID, statement.UserID, string(statement.Type), statement.Amount, statement.Description).
		Scan(&statement.CreatedAt, &statement.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create statement query")
		return err
	}
	return nil
}

// GetStatementsByUserID lists a user's statements oldest first.
func (r *StatementRepository) GetStatementsByUserID(ctx context.Context, userID uuid.UUID) ([]*model.Statement, error) {
	return listStatementsByUser(ctx, r.DB, userID)
}

// GetStatementsByUserIDTx is GetStatementsByUserID inside an open transaction.
func (r *StatementRepository) GetStatementsByUserIDTx(ctx context.Context, tx *sql.Tx, userID uuid.UUID) ([]*model.Statement, error) {
	return listStatementsByUser(ctx, tx, userID)
}

// GetStatementByID returns sql.ErrNoRows when the statement does not exist.
func (r *StatementRepository) GetStatementByID(ctx context.Context, id uuid.UUID) (*model.Statement, error) {
	var s model.Statement
	var opType string
	err := r.DB.QueryRowContext(ctx, selectStatements+` WHERE id = $1`, id).
		Scan(&s.ID, &s.UserID, &opType, &s.Amount, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("statement_id", id).Error("Failed to execute get statement by id query")
		}
		return nil, err
	}
	s.Type = model.OperationType(opType)
	return &s, nil
}

func listStatementsByUser(ctx context.Context, q queryer, userID uuid.UUID) ([]*model.Statement, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Debug("Executing query to get statements by user ID")

	rows, err := q.QueryContext(ctx, selectStatements+` WHERE user_id = $1 ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for statements by user ID")
		return nil, err
	}
	defer rows.Close()

	statements := make([]*model.Statement, 0)
	for rows.Next() {
		var s model.Statement
		var opType string
		if err := rows.Scan(&s.ID, &s.UserID, &opType, &s.Amount, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			log.WithError(err).Error("Failed to scan statement row")
			return nil, err
		}
		s.Type = model.OperationType(opType)
		statements = append(statements, &s)
	}
	if err := rows.Err(); err != nil {
		log.WithError(err).Error("Failed to iterate statement rows")
		return nil, err
	}
	return statements, nil
}
