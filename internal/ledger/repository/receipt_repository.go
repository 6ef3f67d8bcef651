package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/db"
	apperrors "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/errors"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/domain"
)

const selectReceipt = `
	SELECT id, customer_id, CAST(amount AS TEXT), date,
		COALESCE(ref_number, ''), COALESCE(sender, ''), COALESCE(receiver, ''),
		COALESCE(description, ''), COALESCE(image_url, ''), COALESCE(matched_creditor_id, ''),
		COALESCE(CAST(dynamic_fields AS TEXT), '{}'), created_at
	FROM receipt_records`

type ReceiptRepository struct {
	db db.DB
}

func NewReceiptRepository(handle db.DB) *ReceiptRepository {
	return &ReceiptRepository{db: handle}
}

func (r *ReceiptRepository) List(ctx context.Context) ([]*domain.ReceiptRecord, error) {
	return r.list(ctx, selectReceipt+` ORDER BY created_at DESC`)
}

func (r *ReceiptRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.ReceiptRecord, error) {
	return r.list(ctx, selectReceipt+` WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
}

func (r *ReceiptRepository) list(ctx context.Context, query string, args ...any) ([]*domain.ReceiptRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	receipts, err := collect(rows, scanReceipt)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipts: %w", err)
	}
	return receipts, nil
}

func (r *ReceiptRepository) GetByID(ctx context.Context, id string) (*domain.ReceiptRecord, error) {
	return getReceipt(ctx, r.db, `WHERE id = $1`, id)
}

func (r *ReceiptRepository) GetByRefNumber(ctx context.Context, refNumber string) (*domain.ReceiptRecord, error) {
	if refNumber == "" {
		return nil, nil
	}
	return getReceipt(ctx, r.db, `WHERE ref_number = $1`, refNumber)
}

func (r *ReceiptRepository) Create(ctx context.Context, rec *domain.ReceiptRecord) error {
	fields, err := encodeFields(rec.DynamicFields)
	if err != nil {
		return err
	}

	return r.db.WithTx(ctx, func(q db.Querier) error {
		// Crediting first fails fast on an unknown customer before the insert
		// can trip the foreign key.
		if err := adjustCollected(ctx, q, rec.CustomerID, rec.Amount, rec.CreatedAt); err != nil {
			return err
		}

		_, err := q.Exec(ctx, `
			INSERT INTO receipt_records (
				id, customer_id, amount, date, ref_number, sender, receiver,
				description, image_url, matched_creditor_id, dynamic_fields, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, rec.ID, rec.CustomerID, rec.Amount.String(), rec.Date, nullIfEmpty(rec.RefNumber),
			nullIfEmpty(rec.Sender), nullIfEmpty(rec.Receiver), nullIfEmpty(rec.Description),
			nullIfEmpty(rec.ImageURL), nullIfEmpty(rec.MatchedCreditorID), fields, rec.CreatedAt.UnixMilli())
		if errors.Is(err, db.ErrUniqueViolation) {
			return apperrors.ErrDuplicateReceipt
		}
		if err != nil {
			return fmt.Errorf("failed to insert receipt: %w", err)
		}
		return nil
	})
}

func (r *ReceiptRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := r.db.WithTx(ctx, func(q db.Querier) error {
		rec, err := getReceipt(ctx, q, `WHERE id = $1`, id)
		if err != nil || rec == nil {
			return err
		}

		n, err := q.Exec(ctx, `DELETE FROM receipt_records WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete receipt: %w", err)
		}
		if n == 0 {
			return nil
		}

		if err := adjustCollected(ctx, q, rec.CustomerID, rec.Amount.Neg(), time.Now()); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func getReceipt(ctx context.Context, q db.Querier, where string, args ...any) (*domain.ReceiptRecord, error) {
	rec, err := scanReceipt(q.QueryRow(ctx, selectReceipt+" "+where, args...))
	if errors.Is(err, db.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return rec, nil
}

func scanReceipt(row db.Row) (*domain.ReceiptRecord, error) {
	var (
		rec       domain.ReceiptRecord
		amount    string
		fields    string
		createdAt int64
	)
	err := row.Scan(&rec.ID, &rec.CustomerID, &amount, &rec.Date, &rec.RefNumber, &rec.Sender, &rec.Receiver,
		&rec.Description, &rec.ImageURL, &rec.MatchedCreditorID, &fields, &createdAt)
	if err != nil {
		return nil, err
	}

	if rec.Amount, err = parseAmount("amount", amount); err != nil {
		return nil, err
	}
	if rec.DynamicFields, err = decodeFields(fields); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.UnixMilli(createdAt)
	return &rec, nil
}
