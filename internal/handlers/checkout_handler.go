package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hairvana/hairvana-backend/internal/dto"
	"github.com/hairvana/hairvana-backend/internal/middleware"
	"github.com/hairvana/hairvana-backend/internal/services"
)

type CheckoutHandler struct {
	orders *services.OrderService
}

func NewCheckoutHandler(orders *services.OrderService) *CheckoutHandler {
	return &CheckoutHandler{orders: orders}
}

func (h *CheckoutHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewAPIError(dto.ErrTypeAuth, "Invalid user"))
	}

	var req dto.CreateCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, "Invalid request body"))
	}

	order, checkoutURL, err := h.orders.CreateCheckout(userID, req.PlanID)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPlan) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.NewAPIError(dto.ErrTypeValidation, "Unknown plan"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewAPIError(dto.ErrTypeUnknown, "Failed to create checkout"))
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateCheckoutResponse{
		Success:     true,
		OrderNo:     order.OrderNo,
		CheckoutURL: checkoutURL,
	})
}
