package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type OperationType string

const (
	OperationDeposit  OperationType = "deposit"
	OperationWithdraw OperationType = "withdraw"
)

func (t OperationType) Valid() bool {
	return t == OperationDeposit || t == OperationWithdraw
}

// MaxAmount is the largest value the NUMERIC(15,2) amount column holds.
var MaxAmount = decimal.RequireFromString("9999999999999.99")

const (
	maxAmountExponent    = 18
	maxAmountCoefficient = 128 // bits
)

// AmountInRange reports whether d is small enough in exponent and coefficient
// for comparisons, rounding and Float64 to run in constant time. Values such
// as 1e20000000 decode fine but expand to a huge big.Int on first use.
func AmountInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < -maxAmountExponent || exp > maxAmountExponent {
		return false
	}
	return d.Coefficient().BitLen() <= maxAmountCoefficient
}

// ValidAmount reports whether d is a storable statement amount: positive, at
// most two decimal places and no larger than MaxAmount.
func ValidAmount(d decimal.Decimal) bool {
	if !AmountInRange(d) {
		return false
	}
	return d.IsPositive() && d.LessThanOrEqual(MaxAmount) && d.Equal(d.Round(2))
}

// Statement is a single append-only ledger entry.
type Statement struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Type        OperationType   `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Signed returns the amount with the sign it contributes to the balance.
func (s *Statement) Signed() decimal.Decimal {
	if s.Type == OperationWithdraw {
		return s.Amount.Neg()
	}
	return s.Amount
}

// Balance is the result of a balance query.
type Balance struct {
	Statement []*Statement    `json:"statement"`
	Balance   decimal.Decimal `json:"balance"`
}

// CalculateBalance folds statements into the net balance: deposits add, withdrawals subtract.
func CalculateBalance(statements []*Statement) decimal.Decimal {
	balance := decimal.Zero
	for _, s := range statements {
		balance = balance.Add(s.Signed())
	}
	return balance
}
