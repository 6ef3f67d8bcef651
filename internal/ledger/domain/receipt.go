package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReceiptRecord struct {
	ID                string
	CustomerID        string
	Amount            decimal.Decimal
	Date              string
	RefNumber         string
	Sender            string
	Receiver          string
	Description       string
	ImageURL          string
	MatchedCreditorID string
	DynamicFields     map[string]string
	CreatedAt         time.Time
}
