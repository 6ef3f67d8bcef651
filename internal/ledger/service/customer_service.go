package service

import (
	"context"
	"time"

	apperrors "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/errors"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/domain"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CustomerService struct {
	repo domain.CustomerRepository
	now  func() time.Time
}

func NewCustomerService(repo domain.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo, now: time.Now}
}

func (s *CustomerService) List(ctx context.Context) ([]*domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperrors.ErrCustomerNotFound
	}
	return c, nil
}

func (s *CustomerService) Create(ctx context.Context, input dto.CreateCustomerInput) (*domain.Customer, error) {
	if err := nonNegative(input.ExpectedAmount); err != nil {
		return nil, err
	}

	now := s.now()
	c := &domain.Customer{
		ID:              uuid.NewString(),
		Name:            input.Name,
		ExpectedAmount:  *input.ExpectedAmount,
		CollectedAmount: decimal.Zero,
		MaturityDate:    input.MaturityDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update merges the given fields over the stored customer. The collected
// amount is not client-editable.
func (s *CustomerService) Update(ctx context.Context, id string, input dto.UpdateCustomerInput) (*domain.Customer, error) {
	if err := nonNegative(input.ExpectedAmount); err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		c.Name = *input.Name
	}
	if input.ExpectedAmount != nil {
		c.ExpectedAmount = *input.ExpectedAmount
	}
	if input.MaturityDate != nil {
		c.MaturityDate = *input.MaturityDate
	}
	c.UpdatedAt = s.now()

	ok, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrCustomerNotFound
	}
	return c, nil
}

// Delete removes the customer together with its receipts.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrCustomerNotFound
	}
	return nil
}
