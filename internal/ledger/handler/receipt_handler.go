package handler

import (
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/httpx"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/dto"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/service"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ReceiptHandler struct {
	service *service.ReceiptService
	log     *zap.Logger
}

func NewReceiptHandler(s *service.ReceiptService, log *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{service: s, log: log}
}

func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	receipts, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, constant.MsgReceiptsFailed)
	}
	return c.JSON(dto.NewReceiptOutputs(receipts))
}

func (h *ReceiptHandler) ListByCustomer(c *fiber.Ctx) error {
	receipts, err := h.service.ListByCustomer(c.UserContext(), c.Params("customerId"))
	if err != nil {
		return respondError(c, h.log, err, constant.MsgReceiptsFailed)
	}
	return c.JSON(dto.NewReceiptOutputs(receipts))
}

func (h *ReceiptHandler) Get(c *fiber.Ctx) error {
	receipt, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, constant.MsgReceiptFailed)
	}
	return c.JSON(dto.NewReceiptOutput(receipt))
}

func (h *ReceiptHandler) Create(c *fiber.Ctx) error {
	var input dto.CreateReceiptInput
	if err := httpx.Bind(c, &input); err != nil {
		return bindError(c, err)
	}

	receipt, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, err, constant.MsgReceiptFailed)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewReceiptOutput(receipt))
}

// Delete removes the receipt and takes its amount back off the customer.
func (h *ReceiptHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err, constant.MsgReceiptFailed)
	}
	return c.JSON(httpx.MessageResponse{Success: true, Message: constant.MsgReceiptDeleted})
}
