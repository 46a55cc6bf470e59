package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hairvana/hairvana-backend/internal/models"
	"gorm.io/gorm"
)

// CreditService owns the append-only credit ledger. Entries are never updated
// or deleted. The denormalized profiles.current_credits value is recomputed
// from the ledger inside the same transaction as every insert, so the cache
// can never drift from the ledger across a crash.
type CreditService struct {
	db *gorm.DB
}

func NewCreditService(db *gorm.DB) *CreditService {
	return &CreditService{db: db}
}

// IncreaseCredits appends a positive grant entry.
func (s *CreditService) IncreaseCredits(userID uuid.UUID, transType string, credits int, expiredAt *time.Time, orderNo string) error {
	if credits <= 0 {
		return fmt.Errorf("grant amount must be positive, got %d", credits)
	}

	entry := models.CreditTransaction{
		ID:        uuid.New(),
		TransNo:   NewTransNo(),
		UserID:    userID,
		TransType: transType,
		Credits:   credits,
		OrderNo:   orderNo,
		ExpiredAt: expiredAt,
	}

	if err := s.appendEntry(&entry); err != nil {
		slog.Error("failed to grant credits", "user_id", userID, "trans_type", transType, "error", err)
		return err
	}
	return nil
}

// GrantInTx appends a positive grant entry inside the caller's transaction,
// refreshing the cached balance alongside it. Used where the grant must commit
// atomically with other writes (order payment, distribution job).
func (s *CreditService) GrantInTx(tx *gorm.DB, userID uuid.UUID, transType string, credits int, expiredAt *time.Time, orderNo string) error {
	if credits <= 0 {
		return fmt.Errorf("grant amount must be positive, got %d", credits)
	}
	entry := models.CreditTransaction{
		ID:        uuid.New(),
		TransNo:   NewTransNo(),
		UserID:    userID,
		TransType: transType,
		Credits:   credits,
		OrderNo:   orderNo,
		ExpiredAt: expiredAt,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}
	return s.refreshCachedBalance(tx, userID)
}

// DecreaseCredits appends a negative debit entry. The debit references the
// oldest-expiring non-expired grant's order_no and expiry. Sufficiency is not
// enforced here; callers must pre-check the balance.
func (s *CreditService) DecreaseCredits(userID uuid.UUID, transType string, credits int) error {
	if credits <= 0 {
		return fmt.Errorf("debit amount must be positive, got %d", credits)
	}

	var grant models.CreditTransaction
	err := s.db.
		Where("user_id = ? AND credits > 0 AND (expired_at IS NULL OR expired_at > ?)", userID, time.Now()).
		Order("expired_at ASC NULLS LAST").
		Order("created_at ASC").
		First(&grant).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		slog.Error("failed to look up grant for debit", "user_id", userID, "error", err)
		return err
	}

	entry := models.CreditTransaction{
		ID:        uuid.New(),
		TransNo:   NewTransNo(),
		UserID:    userID,
		TransType: transType,
		Credits:   -credits,
		OrderNo:   grant.OrderNo,
		ExpiredAt: grant.ExpiredAt,
	}

	if err := s.appendEntry(&entry); err != nil {
		slog.Error("failed to debit credits", "user_id", userID, "trans_type", transType, "error", err)
		return err
	}
	return nil
}

// GetUserCredits returns the displayable balance: the sum of non-expired
// entries floored at 0. The raw ledger sum can go negative.
func (s *CreditService) GetUserCredits(userID uuid.UUID) (int, error) {
	entries, err := s.entries(s.db, userID)
	if err != nil {
		return 0, err
	}
	return DisplayBalance(AvailableSum(entries, time.Now())), nil
}

// HasLedgerEntry reports whether a granting ledger row already exists for the
// given order. This is the idempotency gate for purchase and webhook replays.
// It runs on the caller's db handle so a transactional caller checks inside
// its own session.
func (s *CreditService) HasLedgerEntry(tx *gorm.DB, orderNo, transType string) (bool, error) {
	var count int64
	err := tx.Model(&models.CreditTransaction{}).
		Where("order_no = ? AND trans_type = ? AND credits > 0", orderNo, transType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListTransactions returns a page of the user's ledger, newest first.
func (s *CreditService) ListTransactions(userID uuid.UUID, page, pageSize int) ([]models.CreditTransaction, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	var entries []models.CreditTransaction
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&entries).Error
	return entries, err
}

func (s *CreditService) appendEntry(entry *models.CreditTransaction) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return s.refreshCachedBalance(tx, entry.UserID)
	})
}

// refreshCachedBalance recomputes profiles.current_credits from the ledger sum
// within the caller's transaction.
func (s *CreditService) refreshCachedBalance(tx *gorm.DB, userID uuid.UUID) error {
	entries, err := s.entries(tx, userID)
	if err != nil {
		return err
	}
	balance := DisplayBalance(AvailableSum(entries, time.Now()))

	var profile models.Profile
	err = tx.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.Profile{ID: uuid.New(), UserID: userID, CurrentCredits: balance}).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&profile).Update("current_credits", balance).Error
}

func (s *CreditService) entries(tx *gorm.DB, userID uuid.UUID) ([]models.CreditTransaction, error) {
	var entries []models.CreditTransaction
	err := tx.Where("user_id = ?", userID).Find(&entries).Error
	return entries, err
}

// AvailableSum sums entries whose expiry is unset or after now.
func AvailableSum(entries []models.CreditTransaction, now time.Time) int {
	sum := 0
	for _, e := range entries {
		if e.ExpiredAt != nil && !e.ExpiredAt.After(now) {
			continue
		}
		sum += e.Credits
	}
	return sum
}

// DisplayBalance floors the ledger sum at 0 for display.
func DisplayBalance(sum int) int {
	if sum < 0 {
		return 0
	}
	return sum
}

// NewTransNo returns a unique ledger transaction number.
func NewTransNo() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
