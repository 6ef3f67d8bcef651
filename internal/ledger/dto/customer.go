package dto

import (
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

// CreateCustomerInput has no collected amount: it starts at zero and only
// receipts move it.
type CreateCustomerInput struct {
	Name           string           `json:"name" validate:"required"`
	ExpectedAmount *decimal.Decimal `json:"expectedAmount" validate:"required"`
	MaturityDate   string           `json:"maturityDate" validate:"required"`
}

type UpdateCustomerInput struct {
	Name           *string          `json:"name"`
	ExpectedAmount *decimal.Decimal `json:"expectedAmount"`
	MaturityDate   *string          `json:"maturityDate"`
}

type CustomerOutput struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	ExpectedAmount  decimal.Decimal `json:"expectedAmount"`
	CollectedAmount decimal.Decimal `json:"collectedAmount"`
	MaturityDate    string          `json:"maturityDate"`
	CreatedAt       int64           `json:"createdAt"`
}

func NewCustomerOutput(c *domain.Customer) CustomerOutput {
	return CustomerOutput{
		ID:              c.ID,
		Name:            c.Name,
		ExpectedAmount:  c.ExpectedAmount,
		CollectedAmount: c.CollectedAmount,
		MaturityDate:    c.MaturityDate,
		CreatedAt:       c.CreatedAt.UnixMilli(),
	}
}

func NewCustomerOutputs(customers []*domain.Customer) []CustomerOutput {
	out := make([]CustomerOutput, 0, len(customers))
	for _, c := range customers {
		out = append(out, NewCustomerOutput(c))
	}
	return out
}
