package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	hairstyleEditorPath = "/api/portrait/effects/hairstyle-editor-pro"
	taskResultPath      = "/api/common/query-async-task-result/"

	maxSubmitAttempts = 3
)

var ErrVendorUnavailable = errors.New("vendor request failed after retries")

// Vendor task_status values.
const (
	vendorTaskQueued     = 0
	vendorTaskProcessing = 1
	vendorTaskCompleted  = 2
	vendorTaskFailed     = 3
)

// AILabClient talks to the hairstyle-editing vendor. Submission is retried on
// network errors and 5xx responses with linear backoff; 4xx responses are
// treated as permanent and surfaced immediately.
type AILabClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retryDelay func(attempt int) time.Duration
}

func NewAILabClient(baseURL, apiKey string, timeout time.Duration) *AILabClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AILabClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		retryDelay: func(attempt int) time.Duration {
			return time.Duration(attempt) * 500 * time.Millisecond
		},
	}
}

type vendorSubmitResponse struct {
	ErrorCode int    `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
	TaskID    string `json:"task_id"`
}

type vendorTaskResponse struct {
	ErrorCode  int `json:"error_code"`
	TaskStatus int `json:"task_status"`
	Data       struct {
		Images []string `json:"images"`
	} `json:"data"`
}

// SubmitHairstyle uploads the photo and requested style, returning the vendor
// task id for polling.
func (c *AILabClient) SubmitHairstyle(ctx context.Context, image []byte, filename, hairstyle, color string) (string, error) {
	body, contentType, err := buildHairstyleForm(image, filename, hairstyle, color)
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= maxSubmitAttempts; attempt++ {
		taskID, retryable, err := c.trySubmit(ctx, body, contentType)
		if err == nil {
			return taskID, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		slog.Warn("vendor submit attempt failed", "attempt", attempt, "error", err)
		if attempt < maxSubmitAttempts {
			select {
			case <-time.After(c.retryDelay(attempt)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("%w: %v", ErrVendorUnavailable, lastErr)
}

func (c *AILabClient) trySubmit(ctx context.Context, body []byte, contentType string) (taskID string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+hairstyleEditorPath, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("ailabapi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, err
	}

	if resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("vendor returned status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return "", false, fmt.Errorf("vendor rejected request: status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed vendorSubmitResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, fmt.Errorf("failed to parse vendor response: %w", err)
	}
	if parsed.ErrorCode != 0 {
		return "", false, fmt.Errorf("vendor error %d: %s", parsed.ErrorCode, parsed.ErrorMsg)
	}
	if parsed.TaskID == "" {
		return "", false, errors.New("vendor response missing task_id")
	}
	return parsed.TaskID, false, nil
}

// TaskResult is the normalized polling result.
type TaskResult struct {
	Status string // processing | completed | failed
	Result string // first output image URL when completed
}

// QueryTask polls the async task result. Polling is not retried; the client
// polls again on its own interval.
func (c *AILabClient) QueryTask(ctx context.Context, taskID string) (*TaskResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+taskResultPath+taskID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("ailabapi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vendor task query returned status %d", resp.StatusCode)
	}

	var parsed vendorTaskResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse vendor task response: %w", err)
	}
	if parsed.ErrorCode != 0 {
		return nil, fmt.Errorf("vendor task error %d", parsed.ErrorCode)
	}

	result := &TaskResult{}
	switch parsed.TaskStatus {
	case vendorTaskCompleted:
		result.Status = "completed"
		if len(parsed.Data.Images) > 0 {
			result.Result = parsed.Data.Images[0]
		}
	case vendorTaskFailed:
		result.Status = "failed"
	default:
		result.Status = "processing"
	}
	return result, nil
}

func buildHairstyleForm(image []byte, filename, hairstyle, color string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("image", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(image); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"task_type":  "async",
		"hair_style": hairstyle,
	}
	if color != "" {
		fields["color"] = color
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
