package services

import (
	"testing"
	"time"

	"github.com/hairvana/hairvana-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPlan(t *testing.T) {
	tests := []struct {
		id           string
		wantOK       bool
		wantInterval string
		wantCredits  int
		wantAmount   int64
	}{
		{"starter_pack", true, models.IntervalOneTime, 100, 990},
		{"monthly", true, models.IntervalMonthly, 500, 1690},
		{"yearly", true, models.IntervalYearly, 1000, 11880},
		{"enterprise", false, "", 0, 0},
		{"", false, "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, ok := LookupPlan(tt.id)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantInterval, p.Interval)
			assert.Equal(t, tt.wantCredits, p.Credits)
			assert.Equal(t, tt.wantAmount, p.Amount)
		})
	}
}

func TestPurchaseExpiry(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	assert.Nil(t, purchaseExpiry(models.IntervalOneTime, now), "one-time pack credits never expire")

	monthly := purchaseExpiry(models.IntervalMonthly, now)
	require.NotNil(t, monthly)
	assert.Equal(t, time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC), *monthly)

	yearly := purchaseExpiry(models.IntervalYearly, now)
	require.NotNil(t, yearly)
	assert.Equal(t, time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC), *yearly)
}

func TestNewOrderNo(t *testing.T) {
	a := NewOrderNo()
	b := NewOrderNo()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.Equal(t, time.Now().UTC().Format("20060102"), a[:8])
}

func TestPaidGuard(t *testing.T) {
	assert.NoError(t, paidGuard(models.OrderStatusCreated, false))
	assert.ErrorIs(t, paidGuard(models.OrderStatusPaid, false), ErrOrderAlreadyPaid)
	assert.ErrorIs(t, paidGuard(models.OrderStatusDeleted, false), ErrOrderNotFound)

	// A grant row with the order still in created means a previous run
	// crashed between granting and the status flip.
	assert.ErrorIs(t, paidGuard(models.OrderStatusCreated, true), ErrOrderAlreadyPaid)
}

// Replays the payment confirmation decision so repeated confirmations for one
// order produce exactly one grant.
func TestPaidGuardReplaySingleGrant(t *testing.T) {
	status := models.OrderStatusCreated
	granted := false
	grants := 0

	confirm := func() error {
		if err := paidGuard(status, granted); err != nil {
			return err
		}
		status = models.OrderStatusPaid
		granted = true
		grants++
		return nil
	}

	require.NoError(t, confirm())
	assert.ErrorIs(t, confirm(), ErrOrderAlreadyPaid)
	assert.ErrorIs(t, confirm(), ErrOrderAlreadyPaid)
	assert.Equal(t, 1, grants)
}

func TestMsToTime(t *testing.T) {
	got := msToTime(1756641600000)
	assert.Equal(t, time.Date(2025, 8, 31, 12, 0, 0, 0, time.UTC), got.UTC())

	// Sub-second precision is preserved.
	got = msToTime(1756641600500)
	assert.Equal(t, 500*time.Millisecond, time.Duration(got.Nanosecond()))
}
