package domain

//go:generate mockgen -destination=../../mocks/mock_ledger_repository.go -package=mocks github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/domain CreditorRepository,CustomerRepository,ReceiptRepository

import (
	"context"

	"github.com/shopspring/decimal"
)

// Get* lookups return (nil, nil) when nothing matches. List* results are
// ordered newest first and are never nil.

type CreditorRepository interface {
	List(ctx context.Context) ([]*Creditor, error)
	GetByID(ctx context.Context, id string) (*Creditor, error)
	Create(ctx context.Context, c *Creditor) error
	// Update rewrites every column of the row. It reports false when no row has the id.
	Update(ctx context.Context, c *Creditor) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type CustomerRepository interface {
	List(ctx context.Context) ([]*Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	// AdjustCollected adds delta to the collected amount in a single statement.
	AdjustCollected(ctx context.Context, id string, delta decimal.Decimal) error
}

type ReceiptRepository interface {
	List(ctx context.Context) ([]*ReceiptRecord, error)
	GetByID(ctx context.Context, id string) (*ReceiptRecord, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*ReceiptRecord, error)
	GetByRefNumber(ctx context.Context, refNumber string) (*ReceiptRecord, error)
	// Create stores the receipt and credits its customer in one transaction.
	Create(ctx context.Context, r *ReceiptRecord) error
	// Delete removes the receipt and debits its customer in one transaction.
	// It reports false when no receipt has the id.
	Delete(ctx context.Context, id string) (bool, error)
}
