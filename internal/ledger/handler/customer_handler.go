package handler

import (
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/httpx"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/dto"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/service"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CustomerHandler struct {
	service *service.CustomerService
	log     *zap.Logger
}

func NewCustomerHandler(s *service.CustomerService, log *zap.Logger) *CustomerHandler {
	return &CustomerHandler{service: s, log: log}
}

func (h *CustomerHandler) List(c *fiber.Ctx) error {
	customers, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, constant.MsgCustomersFailed)
	}
	return c.JSON(dto.NewCustomerOutputs(customers))
}

func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	customer, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err, constant.MsgCustomerFailed)
	}
	return c.JSON(dto.NewCustomerOutput(customer))
}

func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var input dto.CreateCustomerInput
	if err := httpx.Bind(c, &input); err != nil {
		return bindError(c, err)
	}

	customer, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, err, constant.MsgCustomerFailed)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCustomerOutput(customer))
}

func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var input dto.UpdateCustomerInput
	if err := httpx.Bind(c, &input); err != nil {
		return bindError(c, err)
	}

	customer, err := h.service.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return respondError(c, h.log, err, constant.MsgCustomerFailed)
	}
	return c.JSON(dto.NewCustomerOutput(customer))
}

func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err, constant.MsgCustomerFailed)
	}
	return c.JSON(httpx.MessageResponse{Success: true, Message: constant.MsgCustomerDeleted})
}
