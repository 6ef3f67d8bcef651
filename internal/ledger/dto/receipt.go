package dto

import (
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

type CreateReceiptInput struct {
	CustomerID        string            `json:"customerId" validate:"required"`
	Amount            *decimal.Decimal  `json:"amount" validate:"required"`
	Date              string            `json:"date" validate:"required"`
	RefNumber         string            `json:"refNumber"`
	Sender            string            `json:"sender"`
	Receiver          string            `json:"receiver"`
	Description       string            `json:"description"`
	ImageURL          string            `json:"imageUrl" validate:"required"`
	MatchedCreditorID string            `json:"matchedCreditorId"`
	DynamicFields     map[string]string `json:"dynamicFields"`
}

type ReceiptOutput struct {
	ID                string            `json:"id"`
	CustomerID        string            `json:"customerId"`
	Amount            decimal.Decimal   `json:"amount"`
	Date              string            `json:"date"`
	RefNumber         string            `json:"refNumber"`
	Sender            string            `json:"sender"`
	Receiver          string            `json:"receiver"`
	Description       string            `json:"description"`
	ImageURL          string            `json:"imageUrl"`
	MatchedCreditorID string            `json:"matchedCreditorId,omitempty"`
	DynamicFields     map[string]string `json:"dynamicFields"`
	CreatedAt         int64             `json:"createdAt"`
}

func NewReceiptOutput(r *domain.ReceiptRecord) ReceiptOutput {
	fields := r.DynamicFields
	if fields == nil {
		fields = map[string]string{}
	}
	return ReceiptOutput{
		ID:                r.ID,
		CustomerID:        r.CustomerID,
		Amount:            r.Amount,
		Date:              r.Date,
		RefNumber:         r.RefNumber,
		Sender:            r.Sender,
		Receiver:          r.Receiver,
		Description:       r.Description,
		ImageURL:          r.ImageURL,
		MatchedCreditorID: r.MatchedCreditorID,
		DynamicFields:     fields,
		CreatedAt:         r.CreatedAt.UnixMilli(),
	}
}

func NewReceiptOutputs(receipts []*domain.ReceiptRecord) []ReceiptOutput {
	out := make([]ReceiptOutput, 0, len(receipts))
	for _, r := range receipts {
		out = append(out, NewReceiptOutput(r))
	}
	return out
}
