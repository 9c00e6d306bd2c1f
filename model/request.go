// file: model/request.go

package model

import "github.com/shopspring/decimal"

// CreateUserRequest defines the payload for registering a new user.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

// AuthenticateRequest defines the payload for opening a session.
type AuthenticateRequest struct {
	// No email format check: a malformed address is just an unknown one.
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required"`
}

// StatementRequest defines the payload for deposits and withdrawals.
// The operation type comes from the route, not the body.
type StatementRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0,lte=9999999999999.99" swaggertype:"number"`
	Description string          `json:"description" validate:"max=255"`
}

// AuthResponse is returned by a successful session creation.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
