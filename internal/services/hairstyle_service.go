package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hairvana/hairvana-backend/internal/models"
	"github.com/hairvana/hairvana-backend/internal/quota"
)

const (
	// GenerationCost is the ledger debit per generation for subscribers.
	GenerationCost = 10
	// AnonymousDailyLimit caps free generations per client IP per day.
	AnonymousDailyLimit = 3
)

// VendorFailureMessage is shown to the user after all submit retries fail.
const VendorFailureMessage = "We tried multiple times but still failed. Please try with a different photo."

var ErrDailyLimitReached = errors.New("daily free generation limit reached")

// InsufficientCreditsError carries the balance so the client can display it.
type InsufficientCreditsError struct {
	CurrentCredits int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: %d available, %d required", e.CurrentCredits, GenerationCost)
}

// HairstyleService proxies generation jobs to the AI vendor, enforcing the
// credit debit for subscribers and the daily free quota for everyone else.
type HairstyleService struct {
	vendor  *AILabClient
	credits *CreditService
	subs    *SubscriptionService
	counter quota.DailyCounter
}

func NewHairstyleService(vendor *AILabClient, credits *CreditService, subs *SubscriptionService, counter quota.DailyCounter) *HairstyleService {
	return &HairstyleService{vendor: vendor, credits: credits, subs: subs, counter: counter}
}

// SubmitInput describes one generation request. UserID is nil for anonymous
// callers.
type SubmitInput struct {
	UserID    *uuid.UUID
	ClientIP  string
	Image     []byte
	Filename  string
	HairStyle string
	Color     string
}

// Submit checks entitlement, forwards the job to the vendor, and debits the
// subscriber. The debit is deliberately best-effort: once the vendor accepted
// the task there is nothing to roll back, so a failed debit is logged and the
// task id is still returned.
func (s *HairstyleService) Submit(ctx context.Context, in SubmitInput) (string, error) {
	subscribed := false
	if in.UserID != nil {
		subscribed = s.subs.IsSubscribed(*in.UserID)
	}

	if subscribed {
		balance, err := s.credits.GetUserCredits(*in.UserID)
		if err != nil {
			return "", err
		}
		if balance < GenerationCost {
			return "", &InsufficientCreditsError{CurrentCredits: balance}
		}
	} else {
		count, err := s.counter.Incr(ctx, in.ClientIP, time.Now())
		if err != nil {
			return "", fmt.Errorf("quota check failed: %w", err)
		}
		if count > AnonymousDailyLimit {
			return "", ErrDailyLimitReached
		}
	}

	taskID, err := s.vendor.SubmitHairstyle(ctx, in.Image, in.Filename, in.HairStyle, in.Color)
	if err != nil {
		return "", err
	}

	if subscribed {
		if err := s.credits.DecreaseCredits(*in.UserID, models.TransTypeHairstyle, GenerationCost); err != nil {
			// The vendor task is already running; charging failed but the
			// user keeps their result.
			slog.Error("failed to debit generation credits", "user_id", *in.UserID, "task_id", taskID, "error", err)
		}
	}

	return taskID, nil
}

// RemainingFree reports how many free generations the client IP has left
// today, without consuming one.
func (s *HairstyleService) RemainingFree(ctx context.Context, clientIP string) (int, error) {
	count, err := s.counter.Count(ctx, clientIP, time.Now())
	if err != nil {
		return 0, fmt.Errorf("quota check failed: %w", err)
	}
	remaining := AnonymousDailyLimit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// TaskStatus polls the vendor for the task state.
func (s *HairstyleService) TaskStatus(ctx context.Context, taskID string) (*TaskResult, error) {
	return s.vendor.QueryTask(ctx, taskID)
}
