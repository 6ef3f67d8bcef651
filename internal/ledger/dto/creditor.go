package dto

import (
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

type CreateCreditorInput struct {
	Name            string           `json:"name" validate:"required"`
	AccountNumber   string           `json:"accountNumber" validate:"required"`
	ShebaNumber     string           `json:"shebaNumber"`
	TotalAmount     *decimal.Decimal `json:"totalAmount" validate:"required"`
	RemainingAmount *decimal.Decimal `json:"remainingAmount"`
}

// UpdateCreditorInput carries only the fields the client sent.
type UpdateCreditorInput struct {
	Name            *string          `json:"name"`
	AccountNumber   *string          `json:"accountNumber"`
	ShebaNumber     *string          `json:"shebaNumber"`
	TotalAmount     *decimal.Decimal `json:"totalAmount"`
	RemainingAmount *decimal.Decimal `json:"remainingAmount"`
}

type CreditorOutput struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	AccountNumber   string          `json:"accountNumber"`
	ShebaNumber     string          `json:"shebaNumber"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	CreatedAt       int64           `json:"createdAt"`
}

func NewCreditorOutput(c *domain.Creditor) CreditorOutput {
	return CreditorOutput{
		ID:              c.ID,
		Name:            c.Name,
		AccountNumber:   c.AccountNumber,
		ShebaNumber:     c.ShebaNumber,
		TotalAmount:     c.TotalAmount,
		RemainingAmount: c.RemainingAmount,
		CreatedAt:       c.CreatedAt.UnixMilli(),
	}
}

func NewCreditorOutputs(creditors []*domain.Creditor) []CreditorOutput {
	out := make([]CreditorOutput, 0, len(creditors))
	for _, c := range creditors {
		out = append(out, NewCreditorOutput(c))
	}
	return out
}
