package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer.CollectedAmount always equals the sum of the customer's receipt
// amounts. Only receipt creation and deletion move it.
type Customer struct {
	ID              string
	Name            string
	ExpectedAmount  decimal.Decimal
	CollectedAmount decimal.Decimal
	MaturityDate    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
