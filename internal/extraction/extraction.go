package extraction

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrExtractionUnavailable means the provider kept rejecting the call
	// (rate limit, overload) or no API key is configured.
	ErrExtractionUnavailable = errors.New("extraction service temporarily unavailable")
	ErrExtractionAuth        = errors.New("extraction service rejected the API key")
	ErrMalformedResponse     = errors.New("extraction service returned a malformed response")
	ErrInvalidImage          = errors.New("invalid image payload")
)

// NotReceiptError is returned when the model judged the image not to be a
// deposit receipt. Reason is the model's explanation, possibly empty.
type NotReceiptError struct {
	Reason string
}

func (e *NotReceiptError) Error() string {
	if e.Reason == "" {
		return "image is not a receipt"
	}
	return "image is not a receipt: " + e.Reason
}

type Image struct {
	Data     []byte
	MIMEType string
}

type CreditorInfo struct {
	Name    string `json:"name"`
	Account string `json:"account"`
	Sheba   string `json:"sheba"`
}

// KnownCreditor is a creditor the model may match a receipt against.
type KnownCreditor struct {
	ID            string
	Name          string
	AccountNumber string
	ShebaNumber   string
}

type ReceiptData struct {
	IsValidReceipt    bool              `json:"isValidReceipt"`
	Amount            decimal.Decimal   `json:"amount"`
	Date              string            `json:"date"`
	RefNumber         string            `json:"refNumber"`
	Sender            string            `json:"sender"`
	Receiver          string            `json:"receiver"`
	Description       string            `json:"description"`
	MatchedCreditorID string            `json:"matchedCreditorId,omitempty"`
	DynamicFields     map[string]string `json:"dynamicFields"`
}
