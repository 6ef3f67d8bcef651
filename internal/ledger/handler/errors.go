package handler

import (
	"errors"

	apperrors "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/errors"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/httpx"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{apperrors.ErrValidation, fiber.StatusBadRequest, constant.MsgInvalidInput},
	{apperrors.ErrCreditorNotFound, fiber.StatusNotFound, constant.MsgCreditorNotFound},
	{apperrors.ErrCustomerNotFound, fiber.StatusNotFound, constant.MsgCustomerNotFound},
	{apperrors.ErrReceiptNotFound, fiber.StatusNotFound, constant.MsgReceiptNotFound},
	{apperrors.ErrCustomerAlreadyExists, fiber.StatusBadRequest, constant.MsgCustomerAlreadyExists},
	{apperrors.ErrDuplicateReceipt, fiber.StatusBadRequest, constant.MsgReceiptDuplicate},
}

// respondError maps a service error to its status and message. Anything
// unrecognized is logged and answered with 500 and fallback.
func respondError(c *fiber.Ctx, log *zap.Logger, err error, fallback string) error {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return httpx.ErrorJSON(c, e.status, e.message)
		}
	}
	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return httpx.ErrorJSON(c, fiber.StatusInternalServerError, fallback)
}

func bindError(c *fiber.Ctx, err error) error {
	if httpx.IsValidationError(err) {
		return httpx.ErrorJSON(c, fiber.StatusBadRequest, constant.MsgRequiredFields)
	}
	return httpx.ErrorJSON(c, fiber.StatusBadRequest, constant.MsgInvalidInput)
}
