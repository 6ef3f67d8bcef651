package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/db"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/domain"
)

const selectCreditor = `
	SELECT id, name, account_number, sheba_number,
		CAST(total_amount AS TEXT), CAST(remaining_amount AS TEXT),
		created_at, updated_at
	FROM creditors`

type CreditorRepository struct {
	db db.Querier
}

func NewCreditorRepository(q db.Querier) *CreditorRepository {
	return &CreditorRepository{db: q}
}

func (r *CreditorRepository) List(ctx context.Context) ([]*domain.Creditor, error) {
	rows, err := r.db.Query(ctx, selectCreditor+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list creditors: %w", err)
	}
	creditors, err := collect(rows, scanCreditor)
	if err != nil {
		return nil, fmt.Errorf("failed to read creditors: %w", err)
	}
	return creditors, nil
}

func (r *CreditorRepository) GetByID(ctx context.Context, id string) (*domain.Creditor, error) {
	c, err := scanCreditor(r.db.QueryRow(ctx, selectCreditor+` WHERE id = $1`, id))
	if errors.Is(err, db.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get creditor: %w", err)
	}
	return c, nil
}

func (r *CreditorRepository) Create(ctx context.Context, c *domain.Creditor) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO creditors (id, name, account_number, sheba_number, total_amount, remaining_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Name, c.AccountNumber, c.ShebaNumber, c.TotalAmount.String(), c.RemainingAmount.String(),
		c.CreatedAt.UnixMilli(), c.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to create creditor: %w", err)
	}
	return nil
}

func (r *CreditorRepository) Update(ctx context.Context, c *domain.Creditor) (bool, error) {
	n, err := r.db.Exec(ctx, `
		UPDATE creditors
		SET name = $2, account_number = $3, sheba_number = $4, total_amount = $5, remaining_amount = $6, updated_at = $7
		WHERE id = $1
	`, c.ID, c.Name, c.AccountNumber, c.ShebaNumber, c.TotalAmount.String(), c.RemainingAmount.String(), c.UpdatedAt.UnixMilli())
	if err != nil {
		return false, fmt.Errorf("failed to update creditor: %w", err)
	}
	return n > 0, nil
}

func (r *CreditorRepository) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.db.Exec(ctx, `DELETE FROM creditors WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete creditor: %w", err)
	}
	return n > 0, nil
}

func scanCreditor(row db.Row) (*domain.Creditor, error) {
	var (
		c                    domain.Creditor
		total, remaining     string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.AccountNumber, &c.ShebaNumber, &total, &remaining, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.TotalAmount, err = parseAmount("total_amount", total); err != nil {
		return nil, err
	}
	if c.RemainingAmount, err = parseAmount("remaining_amount", remaining); err != nil {
		return nil, err
	}
	c.CreatedAt = time.UnixMilli(createdAt)
	c.UpdatedAt = time.UnixMilli(updatedAt)
	return &c, nil
}
