package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hairvana/hairvana-backend/internal/dto"
	"github.com/hairvana/hairvana-backend/internal/services"
)

func newSubmitRequest(t *testing.T, withImage bool, contentType, hairStyle string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if withImage {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="image"; filename="photo.jpg"`}
		header["Content-Type"] = []string{contentType}
		fw, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake-image-bytes"))
		require.NoError(t, err)
	}
	if hairStyle != "" {
		require.NoError(t, w.WriteField("hair_style", hairStyle))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/hairstyle/submit", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeAPIError(t *testing.T, resp *http.Response) dto.APIError {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var apiErr dto.APIError
	require.NoError(t, json.Unmarshal(body, &apiErr))
	return apiErr
}

func TestHairstyleSubmitValidation(t *testing.T) {
	h := &HairstyleHandler{}
	app := fiber.New()
	app.Post("/api/hairstyle/submit", h.Submit)

	tests := []struct {
		name        string
		req         *http.Request
		wantMessage string
	}{
		{
			name:        "missing image",
			req:         newSubmitRequest(t, false, "", "BuzzCut"),
			wantMessage: "Image file is required",
		},
		{
			name:        "unsupported content type",
			req:         newSubmitRequest(t, true, "image/gif", "BuzzCut"),
			wantMessage: "Only JPEG and PNG images are supported",
		},
		{
			name:        "missing hair style",
			req:         newSubmitRequest(t, true, "image/jpeg", ""),
			wantMessage: "hair_style is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(tt.req, -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			apiErr := decodeAPIError(t, resp)
			assert.False(t, apiErr.Success)
			assert.Equal(t, dto.ErrTypeValidation, apiErr.ErrorType)
			assert.Equal(t, tt.wantMessage, apiErr.Error)
		})
	}
}

func TestTranslateSubmitError(t *testing.T) {
	h := &HairstyleHandler{}

	tests := []struct {
		name           string
		err            error
		wantStatus     int
		wantType       string
		wantCredits    *int
		wantMessageSub string
	}{
		{
			name:        "insufficient credits returns 402 with balance",
			err:         &services.InsufficientCreditsError{CurrentCredits: 4},
			wantStatus:  fiber.StatusPaymentRequired,
			wantType:    dto.ErrTypeInsufficientCredits,
			wantCredits: intPtr(4),
		},
		{
			name:       "daily limit returns 429",
			err:        services.ErrDailyLimitReached,
			wantStatus: fiber.StatusTooManyRequests,
			wantType:   dto.ErrTypeDailyLimit,
		},
		{
			name:           "vendor failure returns 502 with user message",
			err:            fmt.Errorf("%w: connection reset", services.ErrVendorUnavailable),
			wantStatus:     fiber.StatusBadGateway,
			wantType:       dto.ErrTypeUpstream,
			wantMessageSub: services.VendorFailureMessage,
		},
		{
			name:       "unexpected error returns 500",
			err:        errors.New("boom"),
			wantStatus: fiber.StatusInternalServerError,
			wantType:   dto.ErrTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/submit", func(c *fiber.Ctx) error {
				return h.translateSubmitError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/submit", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			apiErr := decodeAPIError(t, resp)
			assert.False(t, apiErr.Success)
			assert.Equal(t, tt.wantType, apiErr.ErrorType)
			if tt.wantCredits != nil {
				require.NotNil(t, apiErr.CurrentCredits)
				assert.Equal(t, *tt.wantCredits, *apiErr.CurrentCredits)
			}
			if tt.wantMessageSub != "" {
				assert.Equal(t, tt.wantMessageSub, apiErr.Error)
			}
		})
	}
}

func TestHairstyleStatusRequiresTaskID(t *testing.T) {
	h := &HairstyleHandler{}
	app := fiber.New()
	app.Get("/api/hairstyle/submit", h.Status)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/hairstyle/submit", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func intPtr(v int) *int { return &v }
