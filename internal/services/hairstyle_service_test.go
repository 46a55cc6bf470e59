package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hairvana/hairvana-backend/internal/quota"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCounter is an in-memory DailyCounter for tests.
type memCounter struct {
	counts map[string]int64
}

func newMemCounter() *memCounter {
	return &memCounter{counts: make(map[string]int64)}
}

func (m *memCounter) Incr(_ context.Context, key string, _ time.Time) (int64, error) {
	m.counts[key]++
	return m.counts[key], nil
}

func (m *memCounter) Count(_ context.Context, key string, _ time.Time) (int64, error) {
	return m.counts[key], nil
}

var _ quota.DailyCounter = (*memCounter)(nil)

func TestSubmitAnonymousDailyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error_code":0,"task_id":"task-123"}`))
	}))
	defer srv.Close()

	counter := newMemCounter()
	svc := NewHairstyleService(newTestClient(srv.URL), nil, nil, counter)

	in := SubmitInput{
		ClientIP:  "203.0.113.7",
		Image:     []byte("img"),
		Filename:  "photo.jpg",
		HairStyle: "BuzzCut",
	}

	for i := 0; i < AnonymousDailyLimit; i++ {
		taskID, err := svc.Submit(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "task-123", taskID)
	}

	_, err := svc.Submit(context.Background(), in)
	assert.ErrorIs(t, err, ErrDailyLimitReached)

	// A different client IP has its own budget.
	other := in
	other.ClientIP = "198.51.100.9"
	_, err = svc.Submit(context.Background(), other)
	assert.NoError(t, err)
}

func TestRemainingFree(t *testing.T) {
	counter := newMemCounter()
	svc := NewHairstyleService(nil, nil, nil, counter)

	remaining, err := svc.RemainingFree(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, AnonymousDailyLimit, remaining)

	counter.counts["203.0.113.7"] = 2
	remaining, err = svc.RemainingFree(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	// The preview never goes negative, even after over-limit attempts.
	counter.counts["203.0.113.7"] = 5
	remaining, err = svc.RemainingFree(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}
