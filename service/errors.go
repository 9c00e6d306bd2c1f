package service

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrStatementNotFound    = errors.New("statement not found")
	ErrEmailAlreadyExists   = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("incorrect email or password")
	ErrPasswordTooLong      = errors.New("password must be at most 72 bytes")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidAmount        = errors.New("amount must be greater than zero, at most 9999999999999.99 and have at most two decimal places")
	ErrInvalidOperationType = errors.New("operation type must be deposit or withdraw")
	ErrInvalidToken         = errors.New("invalid token")
)
