package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/db"
	apperrors "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/errors"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

const selectCustomer = `
	SELECT id, name, CAST(expected_amount AS TEXT), CAST(collected_amount AS TEXT),
		maturity_date, created_at, updated_at
	FROM customers`

type CustomerRepository struct {
	db db.Querier
}

func NewCustomerRepository(q db.Querier) *CustomerRepository {
	return &CustomerRepository{db: q}
}

func (r *CustomerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	rows, err := r.db.Query(ctx, selectCustomer+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	customers, err := collect(rows, scanCustomer)
	if err != nil {
		return nil, fmt.Errorf("failed to read customers: %w", err)
	}
	return customers, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := scanCustomer(r.db.QueryRow(ctx, selectCustomer+` WHERE id = $1`, id))
	if errors.Is(err, db.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, name, expected_amount, collected_amount, maturity_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.Name, c.ExpectedAmount.String(), c.CollectedAmount.String(), c.MaturityDate,
		c.CreatedAt.UnixMilli(), c.UpdatedAt.UnixMilli())
	if errors.Is(err, db.ErrUniqueViolation) {
		return apperrors.ErrCustomerAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// Update rewrites the descriptive columns. collected_amount is left to
// AdjustCollected so a concurrent receipt write is never overwritten.
func (r *CustomerRepository) Update(ctx context.Context, c *domain.Customer) (bool, error) {
	n, err := r.db.Exec(ctx, `
		UPDATE customers
		SET name = $2, expected_amount = $3, maturity_date = $4, updated_at = $5
		WHERE id = $1
	`, c.ID, c.Name, c.ExpectedAmount.String(), c.MaturityDate, c.UpdatedAt.UnixMilli())
	if errors.Is(err, db.ErrUniqueViolation) {
		return false, apperrors.ErrCustomerAlreadyExists
	}
	if err != nil {
		return false, fmt.Errorf("failed to update customer: %w", err)
	}
	return n > 0, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete customer: %w", err)
	}
	return n > 0, nil
}

func (r *CustomerRepository) AdjustCollected(ctx context.Context, id string, delta decimal.Decimal) error {
	return adjustCollected(ctx, r.db, id, delta, time.Now())
}

func adjustCollected(ctx context.Context, q db.Querier, id string, delta decimal.Decimal, at time.Time) error {
	n, err := q.Exec(ctx, `
		UPDATE customers
		SET collected_amount = ROUND(collected_amount + $1, 2), updated_at = $2
		WHERE id = $3
	`, delta.String(), at.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("failed to adjust collected amount: %w", err)
	}
	if n == 0 {
		return apperrors.ErrCustomerNotFound
	}
	return nil
}

func scanCustomer(row db.Row) (*domain.Customer, error) {
	var (
		c                    domain.Customer
		expected, collected  string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&c.ID, &c.Name, &expected, &collected, &c.MaturityDate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.ExpectedAmount, err = parseAmount("expected_amount", expected); err != nil {
		return nil, err
	}
	if c.CollectedAmount, err = parseAmount("collected_amount", collected); err != nil {
		return nil, err
	}
	c.CreatedAt = time.UnixMilli(createdAt)
	c.UpdatedAt = time.UnixMilli(updatedAt)
	return &c, nil
}
