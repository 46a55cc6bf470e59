package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hairvana/hairvana-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(date(2026, 3, 15))
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), end)

	// December rolls into the next year.
	start, end = MonthWindow(date(2026, 12, 31))
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestMonthsSince(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		now   time.Time
		want  int
	}{
		{"same month", date(2026, 1, 15), date(2026, 1, 28), 0},
		{"next month", date(2026, 1, 15), date(2026, 2, 1), 1},
		{"eleven months", date(2026, 1, 15), date(2026, 12, 15), 11},
		{"full year", date(2026, 1, 15), date(2027, 1, 15), 12},
		{"across year boundary", date(2026, 11, 15), date(2027, 2, 1), 3},
		{"now before start", date(2026, 5, 1), date(2026, 3, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsSince(tt.start, tt.now))
		})
	}
}

func TestYearlyGrantDue(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		now   time.Time
		want  bool
	}{
		{"first month on anchor day", date(2026, 1, 15), date(2026, 1, 15), true},
		{"before anchor day", date(2026, 1, 15), date(2026, 2, 14), false},
		{"on anchor day next month", date(2026, 1, 15), date(2026, 2, 15), true},
		{"after anchor day", date(2026, 1, 15), date(2026, 2, 20), true},
		{"month 11 still due", date(2026, 1, 15), date(2026, 12, 15), true},
		{"month 12 no longer due", date(2026, 1, 15), date(2027, 1, 15), false},
		{"anchor 31 clamps in february", date(2026, 1, 31), date(2026, 2, 28), true},
		{"anchor 31 clamps in april", date(2026, 1, 31), date(2026, 4, 30), true},
		{"anchor 31 not yet in april", date(2026, 1, 31), date(2026, 4, 29), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, YearlyGrantDue(tt.start, tt.now))
		})
	}
}

func TestIsFirstBillingMonth(t *testing.T) {
	now := date(2026, 3, 15)

	// Start date in the current calendar month.
	assert.True(t, IsFirstBillingMonth(date(2026, 3, 1), date(2026, 3, 1), now))

	// Row created less than 24h ago, even though the start month differs.
	assert.True(t, IsFirstBillingMonth(date(2026, 2, 28), now.Add(-2*time.Hour), now))

	// Older subscription from a previous month.
	assert.False(t, IsFirstBillingMonth(date(2026, 2, 10), date(2026, 2, 10), now))

	// Same month number in a different year is not the first month.
	assert.False(t, IsFirstBillingMonth(date(2025, 3, 15), date(2025, 3, 15), now))
}

func TestSameDayNextMonth(t *testing.T) {
	got := SameDayNextMonth(date(2026, 3, 15))
	assert.Equal(t, date(2026, 4, 15), got)

	// Go normalizes overflow: Jan 31 + 1 month lands in early March.
	got = SameDayNextMonth(date(2026, 1, 31))
	assert.Equal(t, time.March, got.Month())
}

func TestGrantInMonth(t *testing.T) {
	entries := []models.CreditTransaction{
		{TransType: models.TransTypeMonthlyDistribution, Credits: 1000, CreatedAt: date(2026, 2, 15)},
		{TransType: models.TransTypePurchase, Credits: 1000, CreatedAt: date(2026, 3, 10)},
	}

	assert.True(t, GrantInMonth(entries, models.TransTypeMonthlyDistribution, date(2026, 2, 28)))
	// A different type in the same month does not count.
	assert.False(t, GrantInMonth(entries, models.TransTypeMonthlyDistribution, date(2026, 3, 20)))
	assert.False(t, GrantInMonth(entries, models.TransTypeMonthlyDistribution, date(2026, 1, 31)))
	assert.False(t, GrantInMonth(nil, models.TransTypeMonthlyDistribution, date(2026, 2, 15)))
}

func TestPurchaseOfAmountInMonth(t *testing.T) {
	entries := []models.CreditTransaction{
		{TransType: models.TransTypePurchase, Credits: 500, CreatedAt: date(2026, 2, 10)},
		{TransType: models.TransTypePurchase, Credits: 100, CreatedAt: date(2026, 3, 10)},
	}

	assert.True(t, PurchaseOfAmountInMonth(entries, 500, date(2026, 2, 20)))
	// Wrong amount or wrong month.
	assert.False(t, PurchaseOfAmountInMonth(entries, 500, date(2026, 3, 20)))
	assert.False(t, PurchaseOfAmountInMonth(entries, 500, date(2026, 1, 20)))
	assert.False(t, PurchaseOfAmountInMonth(entries, 100, date(2026, 2, 20)))
}

// Replays the yearly grant decision chain across repeated runs: at most one
// monthly_distribution entry lands per calendar month, and a rerun later in
// the same month grants nothing.
func TestYearlyDistributionOncePerMonth(t *testing.T) {
	start := date(2026, 1, 15)
	var ledger []models.CreditTransaction

	run := func(now time.Time) bool {
		if !YearlyGrantDue(start, now) {
			return false
		}
		if GrantInMonth(ledger, models.TransTypeMonthlyDistribution, now) {
			return false
		}
		ledger = append(ledger, models.CreditTransaction{
			TransType: models.TransTypeMonthlyDistribution,
			Credits:   yearlyMonthlyGrant,
			CreatedAt: now,
		})
		return true
	}

	assert.True(t, run(date(2026, 2, 15)))
	assert.False(t, run(date(2026, 2, 15)), "same-day rerun must grant nothing")
	assert.False(t, run(date(2026, 2, 28)), "later rerun in the same month must grant nothing")
	assert.True(t, run(date(2026, 3, 15)))
	assert.Len(t, ledger, 2)
}

// Replays the monthly renewal decision chain: the first billing month is
// skipped (the purchase already granted it), later months grant exactly once.
func TestMonthlyRenewalOncePerMonth(t *testing.T) {
	start := date(2026, 1, 10)
	createdAt := start
	ledger := []models.CreditTransaction{
		{TransType: models.TransTypePurchase, Credits: monthlyRenewalGrant, CreatedAt: start},
	}

	run := func(now time.Time) bool {
		if IsFirstBillingMonth(start, createdAt, now) {
			return false
		}
		if GrantInMonth(ledger, models.TransTypeMonthlyRenewal, now) {
			return false
		}
		if PurchaseOfAmountInMonth(ledger, monthlyRenewalGrant, now) {
			return false
		}
		ledger = append(ledger, models.CreditTransaction{
			TransType: models.TransTypeMonthlyRenewal,
			Credits:   monthlyRenewalGrant,
			CreatedAt: now,
		})
		return true
	}

	assert.False(t, run(date(2026, 1, 20)), "first billing month is covered by the purchase grant")
	assert.True(t, run(date(2026, 2, 15)))
	assert.False(t, run(date(2026, 2, 20)), "rerun in the same month must grant nothing")
	assert.True(t, run(date(2026, 3, 15)))
}

func TestDistributionLockKey(t *testing.T) {
	u1 := uuid.New()
	u2 := uuid.New()

	assert.Equal(t,
		distributionLockKey(u1, models.TransTypeMonthlyRenewal),
		distributionLockKey(u1, models.TransTypeMonthlyRenewal))
	assert.NotEqual(t,
		distributionLockKey(u1, models.TransTypeMonthlyRenewal),
		distributionLockKey(u2, models.TransTypeMonthlyRenewal))
	assert.NotEqual(t,
		distributionLockKey(u1, models.TransTypeMonthlyRenewal),
		distributionLockKey(u1, models.TransTypeMonthlyDistribution))
}
