package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hairvana/hairvana-backend/internal/dto"
	"github.com/hairvana/hairvana-backend/internal/models"
	"gorm.io/gorm"
)

type SubscriptionService struct {
	db     *gorm.DB
	orders *OrderService
}

func NewSubscriptionService(db *gorm.DB, orders *OrderService) *SubscriptionService {
	return &SubscriptionService{db: db, orders: orders}
}

// HandleWebhookEvent dispatches a payment-provider callback. Replayed events
// are absorbed: a duplicate checkout.completed resolves to an already-paid
// order and grants nothing.
func (s *SubscriptionService) HandleWebhookEvent(webhook *dto.CreemWebhook) error {
	switch webhook.EventType {
	case "checkout.completed":
		return s.handleCheckoutCompleted(&webhook.Object)
	case "subscription.paid":
		return s.handleRenewal(&webhook.Object)
	case "subscription.canceled":
		return s.updateStatus(&webhook.Object, models.SubStatusCancelled)
	case "subscription.expired":
		return s.updateStatus(&webhook.Object, models.SubStatusExpired)
	default:
		return nil
	}
}

func (s *SubscriptionService) handleCheckoutCompleted(event *dto.CreemEvent) error {
	if event.OrderNo == "" {
		return errors.New("checkout event missing request_id")
	}

	info := PaymentInfo{
		CheckoutID: event.CheckoutID,
		SubID:      event.SubscriptionID,
		PaidEmail:  event.CustomerEmail,
	}
	if event.PeriodStartMs > 0 {
		t := msToTime(event.PeriodStartMs)
		info.PeriodStart = &t
	}
	if event.PeriodEndMs > 0 {
		t := msToTime(event.PeriodEndMs)
		info.PeriodEnd = &t
	}

	err := s.orders.MarkPaid(event.OrderNo, info)
	if errors.Is(err, ErrOrderAlreadyPaid) {
		slog.Info("webhook replay ignored", "order_no", event.OrderNo, "checkout_id", event.CheckoutID)
		return nil
	}
	return err
}

// handleRenewal advances the subscription period. Renewal credits are granted
// by the distribution job, not here, so a replayed renewal event cannot
// double-grant.
func (s *SubscriptionService) handleRenewal(event *dto.CreemEvent) error {
	var sub models.Subscription
	if err := s.db.Where("provider_id = ?", event.SubscriptionID).First(&sub).Error; err != nil {
		return fmt.Errorf("subscription not found for renewal: %w", err)
	}

	updates := map[string]interface{}{
		"status": models.SubStatusActive,
	}
	if event.PeriodEndMs > 0 {
		updates["end_date"] = msToTime(event.PeriodEndMs)
	}
	return s.db.Model(&sub).Updates(updates).Error
}

func (s *SubscriptionService) updateStatus(event *dto.CreemEvent, status string) error {
	return s.db.Model(&models.Subscription{}).
		Where("provider_id = ?", event.SubscriptionID).
		Update("status", status).Error
}

// ActiveSubscription returns the user's current active subscription, if any.
func (s *SubscriptionService) ActiveSubscription(userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.
		Where("user_id = ? AND status = ? AND end_date > ?", userID, models.SubStatusActive, time.Now()).
		Order("end_date DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// IsSubscribed reports whether the user has an active subscription.
func (s *SubscriptionService) IsSubscribed(userID uuid.UUID) bool {
	sub, err := s.ActiveSubscription(userID)
	return err == nil && sub != nil
}

func msToTime(ms int64) time.Time {
	return time.Unix(ms/1000, (ms%1000)*int64(time.Millisecond))
}
