package dto

import "github.com/shopspring/decimal"

func init() {
	// Amounts go out as JSON numbers, the shape the frontend reads.
	decimal.MarshalJSONWithoutQuotes = true
}
