package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/hairvana/hairvana-backend/internal/dto"
	"github.com/hairvana/hairvana-backend/internal/middleware"
	"github.com/hairvana/hairvana-backend/internal/services"
)

type CreditHandler struct {
	credits *services.CreditService
	subs    *services.SubscriptionService
}

func NewCreditHandler(credits *services.CreditService, subs *services.SubscriptionService) *CreditHandler {
	return &CreditHandler{credits: credits, subs: subs}
}

func (h *CreditHandler) Balance(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewAPIError(dto.ErrTypeAuth, "Invalid user"))
	}

	balance, err := h.credits.GetUserCredits(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewAPIError(dto.ErrTypeUnknown, "Failed to load balance"))
	}

	return c.JSON(dto.BalanceResponse{
		Success:        true,
		CurrentCredits: balance,
		IsSubscribed:   h.subs.IsSubscribed(userID),
	})
}

func (h *CreditHandler) History(c *fiber.Ctx) error {
	userID, err := middleware.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewAPIError(dto.ErrTypeAuth, "Invalid user"))
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	entries, err := h.credits.ListTransactions(userID, page, 20)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewAPIError(dto.ErrTypeUnknown, "Failed to load ledger"))
	}

	resp := dto.LedgerHistoryResponse{Success: true, Page: page, Entries: make([]dto.LedgerEntryResponse, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = dto.LedgerEntryResponse{
			TransNo:   e.TransNo,
			TransType: e.TransType,
			Credits:   e.Credits,
			OrderNo:   e.OrderNo,
			ExpiredAt: e.ExpiredAt,
			CreatedAt: e.CreatedAt,
		}
	}
	return c.JSON(resp)
}
