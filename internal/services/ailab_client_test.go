package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *AILabClient {
	c := NewAILabClient(serverURL, "test-key", 5*time.Second)
	c.retryDelay = func(int) time.Duration { return 0 }
	return c
}

func TestSubmitHairstyle_Success(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("ailabapi-api-key")
		require.NoError(t, r.ParseMultipartForm(10 << 20))
		assert.Equal(t, "async", r.FormValue("task_type"))
		assert.Equal(t, "BuzzCut", r.FormValue("hair_style"))
		assert.Equal(t, "brown", r.FormValue("color"))
		_, _, err := r.FormFile("image")
		require.NoError(t, err)
		w.Write([]byte(`{"error_code":0,"task_id":"task-123"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	taskID, err := c.SubmitHairstyle(context.Background(), []byte("fake-jpeg"), "photo.jpg", "BuzzCut", "brown")
	require.NoError(t, err)
	assert.Equal(t, "task-123", taskID)
	assert.Equal(t, "test-key", gotKey)
}

func TestSubmitHairstyle_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"error_code":0,"task_id":"task-456"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	taskID, err := c.SubmitHairstyle(context.Background(), []byte("img"), "photo.jpg", "Bob", "")
	require.NoError(t, err)
	assert.Equal(t, "task-456", taskID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSubmitHairstyle_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.SubmitHairstyle(context.Background(), []byte("img"), "photo.jpg", "Bob", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVendorUnavailable))
	assert.Equal(t, int32(3), calls.Load())
}

func TestSubmitHairstyle_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error_code":422,"error_msg":"no face detected"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.SubmitHairstyle(context.Background(), []byte("img"), "photo.jpg", "Bob", "")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrVendorUnavailable))
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestSubmitHairstyle_VendorErrorCodeIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"error_code":401,"error_msg":"invalid api key"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.SubmitHairstyle(context.Background(), []byte("img"), "photo.jpg", "Bob", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
	assert.Equal(t, int32(1), calls.Load())
}

func TestQueryTask(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus string
		wantResult string
	}{
		{
			name:       "queued maps to processing",
			body:       `{"error_code":0,"task_status":0}`,
			wantStatus: "processing",
		},
		{
			name:       "processing",
			body:       `{"error_code":0,"task_status":1}`,
			wantStatus: "processing",
		},
		{
			name:       "completed with image",
			body:       `{"error_code":0,"task_status":2,"data":{"images":["https://cdn.example.com/out.jpg"]}}`,
			wantStatus: "completed",
			wantResult: "https://cdn.example.com/out.jpg",
		},
		{
			name:       "failed",
			body:       `{"error_code":0,"task_status":3}`,
			wantStatus: "failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.URL.Path, "/api/common/query-async-task-result/")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(srv.URL)
			res, err := c.QueryTask(context.Background(), "task-1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantResult, res.Result)
		})
	}
}
