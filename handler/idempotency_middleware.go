package handler

import (
	"bytes"
	"context"
	"errors"
	"go-ledger-api/common"
	"go-ledger-api/logger"
	"go-ledger-api/service"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
	maxIdempotencyKeyLength  = 255
)

// IdempotencyStorer is implemented by service.IdempotencyStore.
type IdempotencyStorer interface {
	Key(userID uuid.UUID, route, key string) string
	Begin(ctx context.Context, key string) (*service.CachedResponse, error)
	Complete(ctx context.Context, key string, resp service.CachedResponse) error
	Abort(ctx context.Context, key string) error
}

// IdempotencyMiddleware replays the first response of a POST carrying an
// Idempotency-Key header. It must run after AuthMiddleware. A nil store
// turns it into a pass-through.
func IdempotencyMiddleware(store IdempotencyStorer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idemKey := r.Header.Get(IdempotencyKeyHeader)
			if idemKey == "" || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			if len(idemKey) > maxIdempotencyKeyLength {
				common.NewAppError(http.StatusBadRequest, "Idempotency-Key is too long", nil).Send(w)
				return
			}

			userID, ok := userIDFromContext(r.Context())
			if !ok {
				common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil).Send(w)
				return
			}

			key := store.Key(userID, r.URL.Path, idemKey)
			log := logger.Log.WithFields(logrus.Fields{
				"user_id":         userID,
				"idempotency_key": idemKey,
			})

			cached, err := store.Begin(r.Context(), key)
			if err != nil {
				if errors.Is(err, service.ErrRequestInProgress) {
					mapServiceError(err, "").Send(w)
					return
				}
				common.NewAppError(http.StatusInternalServerError, "Could not process idempotency key", err).Send(w)
				return
			}
			if cached != nil {
				log.Info("Replaying stored response")
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(IdempotentReplayedHeader, "true")
				w.WriteHeader(cached.StatusCode)
				w.Write([]byte(cached.Body))
				return
			}

			// The client may be gone; the key must still be settled.
			ctx := context.WithoutCancel(r.Context())
			release := func() {
				if err := store.Abort(ctx, key); err != nil {
					log.WithError(err).Error("Could not release idempotency key")
				}
			}

			// A panic becomes a 500 further up the chain, so the key is released
			// like for any other server error.
			defer func() {
				if rec := recover(); rec != nil {
					release()
					panic(rec)
				}
			}()

			var body bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			if status >= http.StatusInternalServerError {
				release()
				return
			}
			if err := store.Complete(ctx, key, service.CachedResponse{StatusCode: status, Body: body.String()}); err != nil {
				log.WithError(err).Error("Could not store idempotent response")
			}
		})
	}
}
