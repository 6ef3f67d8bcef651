package handler

import (
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/httpx"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/dto"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/service"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CreditorHandler struct {
	service *service.CreditorService
	log     *zap.Logger
}

func NewCreditorHandler(s *service.CreditorService, log *zap.Logger) *CreditorHandler {
	return &CreditorHandler{service: s, log: log}
}

func (h *CreditorHandler) List(c *fiber.Ctx) error {
	creditors, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, constant.MsgCreditorsFailed)
	}
	return c.JSON(dto.NewCreditorOutputs(creditors))
}

func (h *CreditorHandler) Get(c *fiber.Ctx) error {
	creditor, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, constant.MsgCreditorFailed)
	}
	return c.JSON(dto.NewCreditorOutput(creditor))
}

func (h *CreditorHandler) Create(c *fiber.Ctx) error {
	var input dto.CreateCreditorInput
	if err := httpx.Bind(c, &input); err != nil {
		return bindError(c, err)
	}

	creditor, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, err, constant.MsgCreditorFailed)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCreditorOutput(creditor))
}

func (h *CreditorHandler) Update(c *fiber.Ctx) error {
	var input dto.UpdateCreditorInput
	if err := httpx.Bind(c, &input); err != nil {
		return bindError(c, err)
	}

	creditor, err := h.service.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return respondError(c, h.log, err, constant.MsgCreditorFailed)
	}
	return c.JSON(dto.NewCreditorOutput(creditor))
}

func (h *CreditorHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err, constant.MsgCreditorFailed)
	}
	return c.JSON(httpx.MessageResponse{Success: true, Message: constant.MsgCreditorDeleted})
}
