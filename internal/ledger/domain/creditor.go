package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Creditor struct {
	ID              string
	Name            string
	AccountNumber   string
	ShebaNumber     string
	TotalAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
