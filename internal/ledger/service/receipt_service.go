package service

import (
	"context"
	"time"

	apperrors "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/errors"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/domain"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/dto"
	"github.com/google/uuid"
)

type ReceiptService struct {
	receipts  domain.ReceiptRepository
	customers domain.CustomerRepository
	creditors domain.CreditorRepository
	now       func() time.Time
}

func NewReceiptService(receipts domain.ReceiptRepository, customers domain.CustomerRepository, creditors domain.CreditorRepository) *ReceiptService {
	return &ReceiptService{receipts: receipts, customers: customers, creditors: creditors, now: time.Now}
}

func (s *ReceiptService) List(ctx context.Context) ([]*domain.ReceiptRecord, error) {
	return s.receipts.List(ctx)
}

func (s *ReceiptService) ListByCustomer(ctx context.Context, customerID string) ([]*domain.ReceiptRecord, error) {
	return s.receipts.ListByCustomer(ctx, customerID)
}

func (s *ReceiptService) Get(ctx context.Context, id string) (*domain.ReceiptRecord, error) {
	r, err := s.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, apperrors.ErrReceiptNotFound
	}
	return r, nil
}

// Create stores the receipt and credits its customer. A non-empty reference
// number may be used once; empty ones are never compared.
func (s *ReceiptService) Create(ctx context.Context, input dto.CreateReceiptInput) (*domain.ReceiptRecord, error) {
	if err := nonNegative(input.Amount); err != nil {
		return nil, err
	}

	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperrors.ErrCustomerNotFound
	}

	if input.RefNumber != "" {
		existing, err := s.receipts.GetByRefNumber(ctx, input.RefNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperrors.ErrDuplicateReceipt
		}
	}

	if input.MatchedCreditorID != "" {
		creditor, err := s.creditors.GetByID(ctx, input.MatchedCreditorID)
		if err != nil {
			return nil, err
		}
		if creditor == nil {
			return nil, apperrors.ErrCreditorNotFound
		}
	}

	fields := input.DynamicFields
	if fields == nil {
		fields = map[string]string{}
	}

	r := &domain.ReceiptRecord{
		ID:                uuid.NewString(),
		CustomerID:        input.CustomerID,
		Amount:            *input.Amount,
		Date:              input.Date,
		RefNumber:         input.RefNumber,
		Sender:            input.Sender,
		Receiver:          input.Receiver,
		Description:       input.Description,
		ImageURL:          input.ImageURL,
		MatchedCreditorID: input.MatchedCreditorID,
		DynamicFields:     fields,
		CreatedAt:         s.now(),
	}
	// The transaction re-checks the customer and the reference number.
	if err := s.receipts.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReceiptService) Delete(ctx context.Context, id string) error {
	ok, err := s.receipts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrReceiptNotFound
	}
	return nil
}
