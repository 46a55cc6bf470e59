package services

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hairvana/hairvana-backend/internal/dto"
	"github.com/hairvana/hairvana-backend/internal/models"
	"gorm.io/gorm"
)

const (
	yearlyMonthlyGrant  = 1000
	monthlyRenewalGrant = 500
	yearlyGrantMonths   = 12
)

// DistributionService grants recurring subscription credits. It is invoked by
// a scheduler through a bearer-protected endpoint and must be safe to run any
// number of times: the ledger existence check per (user, calendar month) makes
// repeat runs distribute nothing extra.
type DistributionService struct {
	db      *gorm.DB
	credits *CreditService
}

func NewDistributionService(db *gorm.DB, credits *CreditService) *DistributionService {
	return &DistributionService{db: db, credits: credits}
}

// Run walks all active subscriptions and applies the monthly/yearly grant
// rules. One subscription's failure does not abort the batch.
func (s *DistributionService) Run(now time.Time) (*dto.DistributionResult, error) {
	var subs []models.Subscription
	if err := s.db.
		Where("status = ? AND end_date > ?", models.SubStatusActive, now).
		Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to load active subscriptions: %w", err)
	}

	result := &dto.DistributionResult{Errors: []string{}}
	for i := range subs {
		sub := &subs[i]
		result.Processed++

		distributed, err := s.distributeOne(sub, now)
		if err != nil {
			slog.Error("distribution failed for subscription", "subscription_id", sub.ID, "user_id", sub.UserID, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", sub.ID, err))
			continue
		}
		if distributed {
			result.Distributed++
		} else {
			result.Skipped++
		}
	}

	slog.Info("distribution run completed",
		"processed", result.Processed,
		"distributed", result.Distributed,
		"skipped", result.Skipped,
		"errors", len(result.Errors))
	return result, nil
}

func (s *DistributionService) distributeOne(sub *models.Subscription, now time.Time) (bool, error) {
	switch sub.PlanName {
	case models.PlanYearly:
		return s.distributeYearly(sub, now)
	case models.PlanMonthly:
		return s.distributeMonthly(sub, now)
	default:
		return false, fmt.Errorf("unknown plan %q", sub.PlanName)
	}
}

func (s *DistributionService) distributeYearly(sub *models.Subscription, now time.Time) (bool, error) {
	if !YearlyGrantDue(sub.StartDate, now) {
		return false, nil
	}

	granted := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Serialize overlapping job runs per (user, grant type); the month
		// check below then sees any grant a parallel run committed.
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)",
			distributionLockKey(sub.UserID, models.TransTypeMonthlyDistribution)).Error; err != nil {
			return err
		}
		exists, err := s.hasEntryInMonth(tx, sub, models.TransTypeMonthlyDistribution, now)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		expiry := SameDayNextMonth(now)
		if err := s.credits.GrantInTx(tx, sub.UserID, models.TransTypeMonthlyDistribution, yearlyMonthlyGrant, &expiry, ""); err != nil {
			return err
		}
		granted = true
		return nil
	})
	return granted, err
}

func (s *DistributionService) distributeMonthly(sub *models.Subscription, now time.Time) (bool, error) {
	// The first billing month was credited at purchase time.
	if IsFirstBillingMonth(sub.StartDate, sub.CreatedAt, now) {
		return false, nil
	}

	granted := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)",
			distributionLockKey(sub.UserID, models.TransTypeMonthlyRenewal)).Error; err != nil {
			return err
		}
		exists, err := s.hasEntryInMonth(tx, sub, models.TransTypeMonthlyRenewal, now)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		// Guard against a purchase-time grant of the same amount landing in
		// this month, e.g. a renewal processed right after sign-up.
		dup, err := s.hasRecentPurchaseOfAmount(tx, sub, monthlyRenewalGrant, now)
		if err != nil {
			return err
		}
		if dup {
			return nil
		}

		expiry := SameDayNextMonth(now)
		if err := s.credits.GrantInTx(tx, sub.UserID, models.TransTypeMonthlyRenewal, monthlyRenewalGrant, &expiry, ""); err != nil {
			return err
		}
		granted = true
		return nil
	})
	return granted, err
}

func (s *DistributionService) hasEntryInMonth(tx *gorm.DB, sub *models.Subscription, transType string, now time.Time) (bool, error) {
	var entries []models.CreditTransaction
	err := tx.Where("user_id = ? AND trans_type = ?", sub.UserID, transType).
		Find(&entries).Error
	if err != nil {
		return false, err
	}
	return GrantInMonth(entries, transType, now), nil
}

func (s *DistributionService) hasRecentPurchaseOfAmount(tx *gorm.DB, sub *models.Subscription, credits int, now time.Time) (bool, error) {
	var entries []models.CreditTransaction
	err := tx.Where("user_id = ? AND trans_type = ?", sub.UserID, models.TransTypePurchase).
		Find(&entries).Error
	if err != nil {
		return false, err
	}
	return PurchaseOfAmountInMonth(entries, credits, now), nil
}

// GrantInMonth reports whether any entry of transType was created inside
// now's calendar month. This is the gate that makes a repeat distribution run
// in the same month grant nothing extra.
func GrantInMonth(entries []models.CreditTransaction, transType string, now time.Time) bool {
	start, end := MonthWindow(now)
	for _, e := range entries {
		if e.TransType != transType {
			continue
		}
		if !e.CreatedAt.Before(start) && e.CreatedAt.Before(end) {
			return true
		}
	}
	return false
}

// PurchaseOfAmountInMonth reports whether a purchase grant of exactly credits
// landed inside now's calendar month.
func PurchaseOfAmountInMonth(entries []models.CreditTransaction, credits int, now time.Time) bool {
	start, end := MonthWindow(now)
	for _, e := range entries {
		if e.TransType != models.TransTypePurchase || e.Credits != credits {
			continue
		}
		if !e.CreatedAt.Before(start) && e.CreatedAt.Before(end) {
			return true
		}
	}
	return false
}

// distributionLockKey derives a stable advisory-lock key per (user, grant
// type).
func distributionLockKey(userID uuid.UUID, transType string) int64 {
	h := fnv.New64a()
	h.Write(userID[:])
	h.Write([]byte(transType))
	return int64(h.Sum64())
}

// MonthWindow returns the [start, end) bounds of now's calendar month.
func MonthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

// MonthsSince counts whole calendar months between start and now.
func MonthsSince(start, now time.Time) int {
	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	if months < 0 {
		return 0
	}
	return months
}

// YearlyGrantDue reports whether a yearly subscription is owed its grant this
// month: within the first 12 months of the subscription, and only once the
// day-of-month anchor from the start date has been reached. An anchor that
// overflows a short month (the 31st in February) is clamped to the month's
// last day.
func YearlyGrantDue(start, now time.Time) bool {
	months := MonthsSince(start, now)
	if months >= yearlyGrantMonths {
		return false
	}

	anchor := start.Day()
	if last := lastDayOfMonth(now); anchor > last {
		anchor = last
	}
	return now.Day() >= anchor
}

// IsFirstBillingMonth applies the two first-month heuristics from the monthly
// plan rules: the current calendar month matches the start date's, or the
// subscription row was created within the last 24 hours.
func IsFirstBillingMonth(start, createdAt, now time.Time) bool {
	if start.Year() == now.Year() && start.Month() == now.Month() {
		return true
	}
	return now.Sub(createdAt) < 24*time.Hour
}

// SameDayNextMonth is the grant expiry: the same day-of-month one month out.
func SameDayNextMonth(now time.Time) time.Time {
	return now.AddDate(0, 1, 0)
}

func lastDayOfMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
