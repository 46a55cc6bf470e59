package services

import (
	"testing"
	"time"

	"github.com/hairvana/hairvana-backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func entry(credits int, expiredAt *time.Time) models.CreditTransaction {
	return models.CreditTransaction{Credits: credits, ExpiredAt: expiredAt}
}

func TestAvailableSum(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	tests := []struct {
		name    string
		entries []models.CreditTransaction
		want    int
	}{
		{
			name:    "empty ledger",
			entries: nil,
			want:    0,
		},
		{
			name:    "grants without expiry",
			entries: []models.CreditTransaction{entry(20, nil), entry(100, nil)},
			want:    120,
		},
		{
			name:    "expired grant is excluded",
			entries: []models.CreditTransaction{entry(500, &past), entry(20, nil)},
			want:    20,
		},
		{
			name:    "expiry exactly now counts as expired",
			entries: []models.CreditTransaction{entry(500, &now)},
			want:    0,
		},
		{
			name:    "future expiry still counts",
			entries: []models.CreditTransaction{entry(500, &future)},
			want:    500,
		},
		{
			name: "debits subtract",
			entries: []models.CreditTransaction{
				entry(100, nil),
				entry(-10, nil),
				entry(-10, nil),
			},
			want: 80,
		},
		{
			name: "expiring grant with debits can go negative",
			entries: []models.CreditTransaction{
				entry(500, &past),
				entry(-10, nil),
				entry(-10, nil),
			},
			want: -20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AvailableSum(tt.entries, now))
		})
	}
}

func TestDisplayBalance(t *testing.T) {
	assert.Equal(t, 0, DisplayBalance(-20))
	assert.Equal(t, 0, DisplayBalance(0))
	assert.Equal(t, 80, DisplayBalance(80))
}

func TestNewTransNo(t *testing.T) {
	a := NewTransNo()
	b := NewTransNo()
	assert.Len(t, a, 32)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}
