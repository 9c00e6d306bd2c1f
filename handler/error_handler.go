package handler

import (
	"encoding/json"
	"errors"
	"go-ledger-api/common"
	"go-ledger-api/service"
	"net/http"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

type errorMapping struct {
	target  error
	code    int
	message string
}

var serviceErrors = []errorMapping{
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrStatementNotFound, http.StatusNotFound, "Statement not found"},
	{service.ErrEmailAlreadyExists, http.StatusBadRequest, "User already exists"},
	{service.ErrInsufficientFunds, http.StatusBadRequest, "Insufficient funds"},
	{service.ErrPasswordTooLong, http.StatusBadRequest, "Password must be at most 72 bytes"},
	{service.ErrInvalidAmount, http.StatusBadRequest, "Amount must be greater than zero, at most 9999999999999.99 and have at most two decimal places"},
	{service.ErrInvalidOperationType, http.StatusBadRequest, "Operation type must be deposit or withdraw"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect email or password"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "JWT invalid token!"},
	{service.ErrRequestInProgress, http.StatusConflict, "A request with this idempotency key is still in progress"},
}

// mapServiceError turns a service error into the response sent to the client.
// Unknown errors become a 500 carrying fallback; the cause is only logged.
func mapServiceError(err error, fallback string) *common.AppError {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			return common.NewAppError(m.code, m.message, err)
		}
	}
	return common.NewAppError(http.StatusInternalServerError, fallback, err)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
