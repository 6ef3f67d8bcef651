package handler

//go:generate mockgen -destination=../../mocks/mock_extractor.go -package=mocks github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/extraction/handler Extractor

import (
	"context"
	"errors"
	"strings"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/extraction"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/httpx"
	ledgerdomain "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/domain"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const imageField = "image"

type Extractor interface {
	ExtractCreditorInfo(ctx context.Context, img extraction.Image) (*extraction.CreditorInfo, error)
	ExtractReceiptData(ctx context.Context, img extraction.Image, creditors []extraction.KnownCreditor) (*extraction.ReceiptData, error)
}

type CreditorLister interface {
	List(ctx context.Context) ([]*ledgerdomain.Creditor, error)
}

type ExtractionHandler struct {
	extractor Extractor
	creditors CreditorLister
	log       *zap.Logger
}

func NewExtractionHandler(extractor Extractor, creditors CreditorLister, log *zap.Logger) *ExtractionHandler {
	return &ExtractionHandler{extractor: extractor, creditors: creditors, log: log}
}

type imageInput struct {
	Image string `json:"image" form:"image"`
}

// ExtractReceipt reads the uploaded receipt and matches it against the
// stored creditors.
func (h *ExtractionHandler) ExtractReceipt(c *fiber.Ctx) error {
	img, err := imageFrom(c)
	if err != nil {
		return imageError(c, err)
	}

	stored, err := h.creditors.List(c.UserContext())
	if err != nil {
		h.log.Error("failed to list creditors for matching", zap.Error(err))
		return httpx.ErrorJSON(c, fiber.StatusInternalServerError, constant.MsgCreditorsFailed)
	}
	known := make([]extraction.KnownCreditor, 0, len(stored))
	for _, cr := range stored {
		known = append(known, extraction.KnownCreditor{
			ID:            cr.ID,
			Name:          cr.Name,
			AccountNumber: cr.AccountNumber,
			ShebaNumber:   cr.ShebaNumber,
		})
	}

	data, err := h.extractor.ExtractReceiptData(c.UserContext(), img, known)
	if err != nil {
		return h.extractionError(c, err, constant.MsgExtractionFailed)
	}
	return c.JSON(data)
}

func (h *ExtractionHandler) ExtractCreditor(c *fiber.Ctx) error {
	img, err := imageFrom(c)
	if err != nil {
		return imageError(c, err)
	}

	info, err := h.extractor.ExtractCreditorInfo(c.UserContext(), img)
	if err != nil {
		return h.extractionError(c, err, constant.MsgCreditorImageFailed)
	}
	return c.JSON(info)
}

func (h *ExtractionHandler) extractionError(c *fiber.Ctx, err error, fallback string) error {
	var notReceipt *extraction.NotReceiptError
	switch {
	case errors.As(err, &notReceipt):
		msg := notReceipt.Reason
		if msg == "" {
			msg = constant.MsgNotAReceipt
		}
		return httpx.ErrorJSON(c, fiber.StatusUnprocessableEntity, msg)
	case errors.Is(err, extraction.ErrExtractionUnavailable):
		return httpx.ErrorJSON(c, fiber.StatusServiceUnavailable, constant.MsgExtractionUnavailable)
	case errors.Is(err, extraction.ErrExtractionAuth):
		return httpx.ErrorJSON(c, fiber.StatusBadGateway, constant.MsgExtractionAuth)
	case errors.Is(err, extraction.ErrMalformedResponse):
		return httpx.ErrorJSON(c, fiber.StatusBadGateway, constant.MsgExtractionMalformed)
	}
	h.log.Error("image extraction failed", zap.String("path", c.Path()), zap.Error(err))
	return httpx.ErrorJSON(c, fiber.StatusInternalServerError, fallback)
}

var errImageMissing = errors.New("image missing")

// imageFrom takes the image from a multipart file or form value named
// "image", or from the "image" field of a JSON body.
func imageFrom(c *fiber.Ctx) (extraction.Image, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if fh, err := c.FormFile(imageField); err == nil {
			return extraction.ReadMultipartImage(fh)
		}
		if v := c.FormValue(imageField); v != "" {
			return extraction.DecodeImage(v)
		}
		return extraction.Image{}, errImageMissing
	}

	var input imageInput
	if err := c.BodyParser(&input); err != nil || input.Image == "" {
		return extraction.Image{}, errImageMissing
	}
	return extraction.DecodeImage(input.Image)
}

func imageError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errImageMissing) {
		return httpx.ErrorJSON(c, fiber.StatusBadRequest, constant.MsgImageMissing)
	}
	return httpx.ErrorJSON(c, fiber.StatusBadRequest, constant.MsgImageInvalid)
}

func RegisterRoutes(app fiber.Router, requireAuth fiber.Handler, h *ExtractionHandler) {
	app.Post("/api/extract-receipt", requireAuth, h.ExtractReceipt)
	app.Post("/api/extract-creditor", requireAuth, h.ExtractCreditor)
}
