package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const retryInfoType = "type.googleapis.com/google.rpc.RetryInfo"

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Config struct {
	APIKey     string
	Model      string
	MaxRetries int
	RetryDelay time.Duration
}

// Extractor reads bank receipts and account screenshots with Gemini.
type Extractor struct {
	gen        generator
	model      string
	maxRetries int
	retryDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	log        *zap.Logger
}

// New connects to the Gemini API. Without an API key the extractor is still
// returned, and every call fails with ErrExtractionUnavailable.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Extractor, error) {
	if cfg.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set, image extraction disabled")
		return newExtractor(nil, cfg, log), nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newExtractor(client.Models, cfg, log), nil
}

func newExtractor(gen generator, cfg Config, log *zap.Logger) *Extractor {
	return &Extractor{
		gen:        gen,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		sleep:      sleepContext,
		log:        log,
	}
}

func (e *Extractor) ExtractCreditorInfo(ctx context.Context, img Image) (*CreditorInfo, error) {
	text, err := e.generate(ctx, img, creditorPrompt, creditorInstruction, creditorSchema)
	if err != nil {
		return nil, err
	}

	var info CreditorInfo
	if err := json.Unmarshal([]byte(text), &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	info.Sheba = normalizeSheba(info.Sheba)
	return &info, nil
}

type rawReceipt struct {
	IsReceipt         *bool           `json:"isReceipt"`
	Amount            decimal.Decimal `json:"amount"`
	Date              string          `json:"date"`
	RefNumber         string          `json:"refNumber"`
	Sender            string          `json:"sender"`
	Receiver          string          `json:"receiver"`
	Description       string          `json:"description"`
	MatchedCreditorID string          `json:"matchedCreditorId"`
	DynamicFields     []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"dynamicFields"`
}

// ExtractReceiptData reads a deposit receipt and matches its recipient
// against creditors. A match outside that list is discarded.
func (e *Extractor) ExtractReceiptData(ctx context.Context, img Image, creditors []KnownCreditor) (*ReceiptData, error) {
	text, err := e.generate(ctx, img, receiptPrompt, receiptInstruction(creditors), receiptSchema)
	if err != nil {
		return nil, err
	}

	var raw rawReceipt
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if raw.IsReceipt == nil {
		return nil, fmt.Errorf("%w: isReceipt missing", ErrMalformedResponse)
	}
	if !*raw.IsReceipt {
		return nil, &NotReceiptError{Reason: strings.TrimSpace(raw.Description)}
	}

	fields := make(map[string]string, len(raw.DynamicFields))
	for _, f := range raw.DynamicFields {
		if f.Key != "" {
			fields[f.Key] = f.Value
		}
	}

	data := &ReceiptData{
		IsValidReceipt: true,
		Amount:         raw.Amount,
		Date:           raw.Date,
		RefNumber:      raw.RefNumber,
		Sender:         raw.Sender,
		Receiver:       raw.Receiver,
		Description:    raw.Description,
		DynamicFields:  fields,
	}
	if id := raw.MatchedCreditorID; id != "" {
		for _, c := range creditors {
			if c.ID == id {
				data.MatchedCreditorID = id
				break
			}
		}
		if data.MatchedCreditorID == "" {
			e.log.Warn("dropping unknown matched creditor", zap.String("creditor_id", id))
		}
	}
	return data, nil
}

func (e *Extractor) generate(ctx context.Context, img Image, prompt, instruction string, schema *genai.Schema) (string, error) {
	if e.gen == nil {
		return "", ErrExtractionUnavailable
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(img.Data, img.MIMEType),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
	}

	for attempt := 0; ; attempt++ {
		resp, err := e.gen.GenerateContent(ctx, e.model, contents, config)
		if err == nil {
			text := strings.TrimSpace(resp.Text())
			if text == "" {
				return "", fmt.Errorf("%w: empty response", ErrMalformedResponse)
			}
			return text, nil
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		apiErr, ok := asAPIError(err)
		switch {
		case ok && isAuthError(apiErr):
			e.log.Error("gemini rejected credentials", zap.Int("code", apiErr.Code), zap.String("status", apiErr.Status))
			return "", ErrExtractionAuth
		case ok && isRetryable(apiErr):
			if attempt >= e.maxRetries {
				e.log.Warn("gemini retries exhausted", zap.Int("attempts", attempt+1), zap.Int("code", apiErr.Code))
				return "", ErrExtractionUnavailable
			}
			delay := retryDelay(apiErr, e.retryDelay)
			e.log.Warn("gemini busy, retrying",
				zap.Int("attempt", attempt+1),
				zap.Int("code", apiErr.Code),
				zap.Duration("delay", delay),
			)
			if err := e.sleep(ctx, delay); err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("gemini generate content: %w", err)
		}
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

func isRetryable(e genai.APIError) bool {
	return e.Code == http.StatusTooManyRequests ||
		e.Code == http.StatusServiceUnavailable ||
		e.Status == "RESOURCE_EXHAUSTED" ||
		e.Status == "UNAVAILABLE"
}

func isAuthError(e genai.APIError) bool {
	if e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden {
		return true
	}
	if e.Status == "UNAUTHENTICATED" || e.Status == "PERMISSION_DENIED" {
		return true
	}
	return e.Code == http.StatusBadRequest && strings.Contains(e.Message, "API key")
}

// retryDelay prefers the RetryInfo detail the provider attaches to rate-limit errors.
func retryDelay(e genai.APIError, fallback time.Duration) time.Duration {
	for _, d := range e.Details {
		if d["@type"] != retryInfoType {
			continue
		}
		s, _ := d["retryDelay"].(string)
		if parsed, err := time.ParseDuration(s); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func normalizeSheba(s string) string {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	return strings.TrimPrefix(s, "IR")
}
