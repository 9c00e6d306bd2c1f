package handler

import (
	"context"
	"go-ledger-api/common"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type StatementServicer interface {
	CreateStatement(ctx context.Context, in service.CreateStatementInput) (*model.Statement, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (*model.Balance, error)
	GetStatement(ctx context.Context, userID, statementID uuid.UUID) (*model.Statement, error)
}

// StatementHandler holds dependencies for statement-related handlers.
type StatementHandler struct {
	service StatementServicer
}

func NewStatementHandler(s StatementServicer) *StatementHandler {
	return &StatementHandler{service: s}
}

// Deposit godoc
// @Summary      Deposit money
// @Description  Appends a deposit statement to the authenticated user's ledger.
// @Tags         statements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param        statement body model.StatementRequest true "Amount and description"
// @Success      201  {object}  model.Statement
// @Failure      400  {object}  common.AppError "Invalid amount or body"
// @Failure      401  {object}  common.AppError "Missing or invalid token"
// @Failure      404  {object}  common.AppError "User not found"
// @Failure      409  {object}  common.AppError "Idempotency key still in progress"
// @Router       /api/v1/statements/deposit [post]
func (h *StatementHandler) Deposit(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.createStatement(w, r, model.OperationDeposit)
}

// Withdraw godoc
// @Summary      Withdraw money
// @Description  Appends a withdrawal statement when the current balance covers the amount.
// @Tags         statements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key header string false "Replays the first response for a repeated key"
// @Param        statement body model.StatementRequest true "Amount and description"
// @Success      201  {object}  model.Statement
// @Failure      400  {object}  common.AppError "Insufficient funds, invalid amount or body"
// @Failure      401  {object}  common.AppError "Missing or invalid token"
// @Failure      404  {object}  common.AppError "User not found"
// @Failure      409  {object}  common.AppError "Idempotency key still in progress"
// @Router       /api/v1/statements/withdraw [post]
func (h *StatementHandler) Withdraw(w http.ResponseWriter, r *http.Request) *common.AppError {
	return h.createStatement(w, r, model.OperationWithdraw)
}

func (h *StatementHandler) createStatement(w http.ResponseWriter, r *http.Request, opType model.OperationType) *common.AppError {
	userID, appErr := authenticatedUser(r)
	if appErr != nil {
		return appErr
	}

	var req model.StatementRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"type":    opType,
	}).Info("Statement request received")

	statement, err := h.service.CreateStatement(r.Context(), service.CreateStatementInput{
		UserID:      userID,
		Type:        opType,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		return mapServiceError(err, "Could not create statement")
	}

	writeJSON(w, http.StatusCreated, statement)
	return nil
}

// Balance godoc
// @Summary      Show balance
// @Description  Returns every statement of the authenticated user in creation order and the balance they add up to.
// @Tags         statements
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.Balance
// @Failure      401  {object}  common.AppError "Missing or invalid token"
// @Failure      404  {object}  common.AppError "User not found"
// @Router       /api/v1/statements/balance [get]
func (h *StatementHandler) Balance(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := authenticatedUser(r)
	if appErr != nil {
		return appErr
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		return mapServiceError(err, "Could not retrieve balance")
	}

	writeJSON(w, http.StatusOK, balance)
	return nil
}

// GetStatement godoc
// @Summary      Show a statement
// @Tags         statements
// @Produce      json
// @Security     BearerAuth
// @Param        statement_id path string true "Statement ID (uuid)"
// @Success      200  {object}  model.Statement
// @Failure      400  {object}  common.AppError "Invalid statement ID in URL path"
// @Failure      401  {object}  common.AppError "Missing or invalid token"
// @Failure      404  {object}  common.AppError "User or statement not found"
// @Router       /api/v1/statements/{statement_id} [get]
func (h *StatementHandler) GetStatement(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, appErr := authenticatedUser(r)
	if appErr != nil {
		return appErr
	}

	statementID, err := uuid.Parse(chi.URLParam(r, "statement_id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid statement ID in URL path", err)
	}

	statement, err := h.service.GetStatement(r.Context(), userID, statementID)
	if err != nil {
		return mapServiceError(err, "Could not retrieve statement")
	}

	writeJSON(w, http.StatusOK, statement)
	return nil
}
