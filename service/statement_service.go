package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"go-ledger-api/logger"
	"go-ledger-api/model"
	"go-ledger-api/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// StatementService owns the ledger rules: statement creation with the
// sufficient-funds check, balance queries and single statement lookups.
type StatementService struct {
	db               *sql.DB
	userRepo         repository.IUserRepository
	statementRepo    repository.IStatementRepository
	enforceOwnership bool
}

func NewStatementService(db *sql.DB, userRepo repository.IUserRepository, statementRepo repository.IStatementRepository, enforceOwnership bool) *StatementService {
	return &StatementService{
		db:               db,
		userRepo:         userRepo,
		statementRepo:    statementRepo,
		enforceOwnership: enforceOwnership,
	}
}

// CreateStatementInput carries a validated deposit or withdrawal.
type CreateStatementInput struct {
	UserID      uuid.UUID
	Type        model.OperationType
	Amount      decimal.Decimal
	Description string
}

// CreateStatement appends a statement to the user's ledger. The user row is
// locked for the duration of the transaction, so the balance read for the
// funds check cannot change before the insert commits.
func (s *StatementService) CreateStatement(ctx context.Context, in CreateStatementInput) (*model.Statement, error) {
	if !in.Type.Valid() {
		return nil, ErrInvalidOperationType
	}
	// Checked before anything formats the amount.
	if !model.ValidAmount(in.Amount) {
		return nil, ErrInvalidAmount
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": in.UserID,
		"type":    in.Type,
		"amount":  in.Amount.String(),
	})

	log.Info("Starting statement creation")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.userRepo.GetUserForUpdate(ctx, tx, in.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not lock user: %w", err)
	}

	if in.Type == model.OperationWithdraw {
		statements, err := s.statementRepo.GetStatementsByUserIDTx(ctx, tx, in.UserID)
		if err != nil {
			return nil, fmt.Errorf("could not load statements: %w", err)
		}

		balance := model.CalculateBalance(statements)
		if in.Amount.GreaterThan(balance) {
			log.WithField("balance", balance.String()).Warn("Withdrawal rejected: insufficient funds")
			return nil, ErrInsufficientFunds
		}
	}

	statement := &model.Statement{
		UserID:      in.UserID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
	}
	if err := s.statementRepo.CreateStatement(ctx, tx, statement); err != nil {
		return nil, fmt.Errorf("could not create statement record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	log.WithField("statement_id", statement.ID).Info("Statement created successfully")
	return statement, nil
}

// GetBalance returns every statement of the user, oldest first, and their net sum.
func (s *StatementService) GetBalance(ctx context.Context, userID uuid.UUID) (*model.Balance, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	statements, err := s.statementRepo.GetStatementsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load statements: %w", err)
	}
	if statements == nil {
		statements = []*model.Statement{}
	}

	return &model.Balance{
		Statement: statements,
		Balance:   model.CalculateBalance(statements),
	}, nil
}

// GetStatement looks a statement up by id. Unless ownership enforcement is
// enabled, any existing statement is returned to any existing user.
func (s *StatementService) GetStatement(ctx context.Context, userID, statementID uuid.UUID) (*model.Statement, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	statement, err := s.statementRepo.GetStatementByID(ctx, statementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatementNotFound
		}
		return nil, fmt.Errorf("could not load statement: %w", err)
	}

	if s.enforceOwnership && statement.UserID != userID {
		logger.Log.WithFields(logrus.Fields{
			"requesting_user_id": userID,
			"statement_id":       statementID,
		}).Warn("Statement lookup denied: not owned by requesting user")
		return nil, ErrStatementNotFound
	}

	return statement, nil
}

func (s *StatementService) ensureUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("could not load user: %w", err)
	}
	return nil
}
