package repository

import (
	"encoding/json"
	"fmt"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/db"
	"github.com/shopspring/decimal"
)

// parseAmount reads a NUMERIC column selected as text. Both backends return
// it this way so amounts never pass through float64.
func parseAmount(column, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", column, raw, err)
	}
	return d, nil
}

// nullIfEmpty stores optional text as NULL so UNIQUE columns ignore it.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func encodeFields(fields map[string]string) (string, error) {
	if len(fields) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode dynamic fields: %w", err)
	}
	return string(raw), nil
}

func decodeFields(raw string) (map[string]string, error) {
	fields := map[string]string{}
	if raw == "" || raw == "null" {
		return fields, nil
	}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("failed to decode dynamic fields: %w", err)
	}
	return fields, nil
}

// collect scans every row with scan and always returns a non-nil slice.
func collect[T any](rows db.Rows, scan func(db.Row) (*T, error)) ([]*T, error) {
	defer rows.Close()

	items := []*T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
