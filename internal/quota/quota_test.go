package quota

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayKey(t *testing.T) {
	now := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "hairstyle:203.0.113.7:2026-08-31", DayKey("hairstyle", "203.0.113.7", now))

	// Different days produce different keys for the same client.
	tomorrow := now.AddDate(0, 0, 1)
	assert.NotEqual(t, DayKey("hairstyle", "203.0.113.7", now), DayKey("hairstyle", "203.0.113.7", tomorrow))
}

func TestUntilMidnight(t *testing.T) {
	noon := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 12*time.Hour, UntilMidnight(noon))

	lateEvening := time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 30*time.Minute, UntilMidnight(lateEvening))

	// Just before midnight the TTL is floored so the key still expires.
	almostMidnight := time.Date(2026, 8, 31, 23, 59, 45, 0, time.UTC)
	assert.Equal(t, time.Minute, UntilMidnight(almostMidnight))
}
