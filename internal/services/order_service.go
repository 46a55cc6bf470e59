package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hairvana/hairvana-backend/internal/config"
	"github.com/hairvana/hairvana-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUnknownPlan      = errors.New("unknown plan")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderAlreadyPaid = errors.New("order already processed")
)

// Plan is a purchasable credit package. For subscription plans Credits is the
// per-period grant.
type Plan struct {
	ID       string
	Name     string
	Interval string
	Amount   int64 // cents
	Credits  int
}

var plans = map[string]Plan{
	"starter_pack": {ID: "starter_pack", Name: "Starter Pack", Interval: models.IntervalOneTime, Amount: 990, Credits: 100},
	"monthly":      {ID: "monthly", Name: "Monthly", Interval: models.IntervalMonthly, Amount: 1690, Credits: 500},
	"yearly":       {ID: "yearly", Name: "Yearly", Interval: models.IntervalYearly, Amount: 11880, Credits: 1000},
}

func LookupPlan(id string) (Plan, bool) {
	p, ok := plans[id]
	return p, ok
}

type OrderService struct {
	db      *gorm.DB
	cfg     *config.Config
	credits *CreditService
}

func NewOrderService(db *gorm.DB, cfg *config.Config, credits *CreditService) *OrderService {
	return &OrderService{db: db, cfg: cfg, credits: credits}
}

// CreateCheckout creates an order in status created and returns the hosted
// checkout URL. The order_no travels through the provider as request_id so the
// webhook can resolve it back.
func (s *OrderService) CreateCheckout(userID uuid.UUID, planID string) (*models.Order, string, error) {
	plan, ok := LookupPlan(planID)
	if !ok {
		return nil, "", ErrUnknownPlan
	}

	order := models.Order{
		ID:       uuid.New(),
		OrderNo:  NewOrderNo(),
		UserID:   userID,
		Amount:   plan.Amount,
		Currency: "usd",
		Credits:  plan.Credits,
		Status:   models.OrderStatusCreated,
		PlanName: plan.ID,
		Interval: plan.Interval,
	}

	if err := s.db.Create(&order).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create order: %w", err)
	}

	checkoutURL := fmt.Sprintf("%s/pay/%s?request_id=%s",
		strings.TrimRight(s.cfg.CreemCheckoutURL, "/"),
		url.PathEscape(plan.ID),
		url.QueryEscape(order.OrderNo))

	return &order, checkoutURL, nil
}

// PaymentInfo carries the provider-confirmed payment details into MarkPaid.
type PaymentInfo struct {
	CheckoutID  string
	SubID       string
	PaidEmail   string
	PeriodStart *time.Time
	PeriodEnd   *time.Time
}

// MarkPaid transitions an order created→paid exactly once and grants its
// credits. The order row is locked for the duration of the transaction and the
// ledger is checked for an existing grant, so replayed or concurrent
// confirmations for the same order_no produce at most one grant.
func (s *OrderService) MarkPaid(orderNo string, info PaymentInfo) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("order_no = ?", orderNo).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		granted, err := s.credits.HasLedgerEntry(tx, order.OrderNo, models.TransTypePurchase)
		if err != nil {
			return err
		}
		if err := paidGuard(order.Status, granted); err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":      models.OrderStatusPaid,
			"paid_at":     now,
			"paid_email":  info.PaidEmail,
			"checkout_id": info.CheckoutID,
			"sub_id":      info.SubID,
		}
		if info.PeriodStart != nil {
			updates["sub_period_start"] = *info.PeriodStart
		}
		if info.PeriodEnd != nil {
			updates["sub_period_end"] = *info.PeriodEnd
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}

		expiry := purchaseExpiry(order.Interval, now)
		if err := s.credits.GrantInTx(tx, order.UserID, models.TransTypePurchase, order.Credits, expiry, order.OrderNo); err != nil {
			return err
		}

		if order.Interval != models.IntervalOneTime {
			if err := s.upsertSubscription(tx, &order, info, now); err != nil {
				return err
			}
		}

		return s.recordAffiliateReward(tx, &order)
	})

	if err != nil && !errors.Is(err, ErrOrderAlreadyPaid) && !errors.Is(err, ErrOrderNotFound) {
		slog.Error("failed to mark order paid", "order_no", orderNo, "error", err)
	}
	return err
}

// GetByCheckoutID resolves the order a webhook event refers to.
func (s *OrderService) GetByCheckoutID(checkoutID string) (*models.Order, error) {
	var order models.Order
	err := s.db.Where("checkout_id = ?", checkoutID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	err := s.db.Where("order_no = ?", orderNo).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) upsertSubscription(tx *gorm.DB, order *models.Order, info PaymentInfo, now time.Time) error {
	start := now
	if info.PeriodStart != nil {
		start = *info.PeriodStart
	}
	end := start.AddDate(0, 1, 0)
	if order.Interval == models.IntervalYearly {
		end = start.AddDate(1, 0, 0)
	}
	if info.PeriodEnd != nil {
		end = *info.PeriodEnd
	}

	planName := models.PlanMonthly
	if order.Interval == models.IntervalYearly {
		planName = models.PlanYearly
	}

	var sub models.Subscription
	err := tx.Where("user_id = ? AND plan_name = ?", order.UserID, planName).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.Subscription{
			ID:         uuid.New(),
			UserID:     order.UserID,
			PlanName:   planName,
			Status:     models.SubStatusActive,
			ProviderID: info.SubID,
			StartDate:  start,
			EndDate:    end,
		}).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&sub).Updates(map[string]interface{}{
		"status":      models.SubStatusActive,
		"provider_id": info.SubID,
		"end_date":    end,
	}).Error
}

// recordAffiliateReward credits the inviter 20% of the order amount, once per
// order (orders.order_no is unique on affiliates).
func (s *OrderService) recordAffiliateReward(tx *gorm.DB, order *models.Order) error {
	var user models.User
	if err := tx.First(&user, "id = ?", order.UserID).Error; err != nil {
		return err
	}
	if user.InvitedBy == "" {
		return nil
	}

	var inviter models.User
	if err := tx.Where("invite_code = ?", user.InvitedBy).First(&inviter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // stale code, nothing to reward
		}
		return err
	}

	reward := models.Affiliate{
		ID:           uuid.New(),
		UserID:       user.ID,
		InviterID:    inviter.ID,
		OrderNo:      order.OrderNo,
		RewardAmount: order.Amount / 5,
		Status:       models.AffiliateStatusPending,
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&reward).Error
}

// paidGuard decides whether a locked order may transition to paid, given
// whether a granting ledger row already references it. A grant can exist for
// an order still in status created when a previous run crashed after granting
// but before flipping the status.
func paidGuard(status string, granted bool) error {
	switch status {
	case models.OrderStatusPaid:
		return ErrOrderAlreadyPaid
	case models.OrderStatusDeleted:
		return ErrOrderNotFound
	}
	if granted {
		return ErrOrderAlreadyPaid
	}
	return nil
}

// purchaseExpiry returns the grant expiry for a purchase: subscription-period
// credits expire same day next month, one-time pack credits never expire.
func purchaseExpiry(interval string, now time.Time) *time.Time {
	if interval == models.IntervalOneTime {
		return nil
	}
	t := now.AddDate(0, 1, 0)
	return &t
}

// NewOrderNo returns a unique order number.
func NewOrderNo() string {
	return time.Now().UTC().Format("20060102") + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:24]
}
