package service

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/errors"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/domain"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreditorService struct {
	repo domain.CreditorRepository
	now  func() time.Time
}

func NewCreditorService(repo domain.CreditorRepository) *CreditorService {
	return &CreditorService{repo: repo, now: time.Now}
}

func (s *CreditorService) List(ctx context.Context) ([]*domain.Creditor, error) {
	return s.repo.List(ctx)
}

func (s *CreditorService) Get(ctx context.Context, id string) (*domain.Creditor, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperrors.ErrCreditorNotFound
	}
	return c, nil
}

// Create defaults the remaining amount to the total when it is not given.
func (s *CreditorService) Create(ctx context.Context, input dto.CreateCreditorInput) (*domain.Creditor, error) {
	if err := nonNegative(input.TotalAmount, input.RemainingAmount); err != nil {
		return nil, err
	}

	remaining := *input.TotalAmount
	if input.RemainingAmount != nil {
		remaining = *input.RemainingAmount
	}

	now := s.now()
	c := &domain.Creditor{
		ID:              uuid.NewString(),
		Name:            input.Name,
		AccountNumber:   input.AccountNumber,
		ShebaNumber:     input.ShebaNumber,
		TotalAmount:     *input.TotalAmount,
		RemainingAmount: remaining,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CreditorService) Update(ctx context.Context, id string, input dto.UpdateCreditorInput) (*domain.Creditor, error) {
	if err := nonNegative(input.TotalAmount, input.RemainingAmount); err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		c.Name = *input.Name
	}
	if input.AccountNumber != nil {
		c.AccountNumber = *input.AccountNumber
	}
	if input.ShebaNumber != nil {
		c.ShebaNumber = *input.ShebaNumber
	}
	if input.TotalAmount != nil {
		c.TotalAmount = *input.TotalAmount
	}
	if input.RemainingAmount != nil {
		c.RemainingAmount = *input.RemainingAmount
	}
	c.UpdatedAt = s.now()

	ok, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrCreditorNotFound
	}
	return c, nil
}

func (s *CreditorService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrCreditorNotFound
	}
	return nil
}

func nonNegative(amounts ...*decimal.Decimal) error {
	for _, a := range amounts {
		if a != nil && a.IsNegative() {
			return fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
		}
	}
	return nil
}
