package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

// Ledger is the append-only balance authority. Reserve and Settle back
// the wager lifecycle; Deposit and Withdraw cover non-wager movement.
type Ledger interface {
	Reserve(ctx context.Context, playerID, wagerID string, amount int64) (string, error)
	Settle(ctx context.Context, playerID, wagerID string, payout int64) error
	Deposit(ctx context.Context, playerID string, amount int64) (*LedgerEntry, error)
	Withdraw(ctx context.Context, playerID string, amount int64) (*LedgerEntry, error)
	BalanceOf(ctx context.Context, playerID string) (int64, error)
	Entries(ctx context.Context, playerID string) ([]LedgerEntry, error)
}

type LedgerRepositoryImpl struct {
	db *gorm.DB
}

func NewLedgerRepositoryImpl(db *gorm.DB) *LedgerRepositoryImpl {
	return &LedgerRepositoryImpl{db: db}
}

// lockBalance fetches the player's projection row FOR UPDATE, creating
// it on first touch. The row lock is what serializes concurrent wagers
// for the same player.
func lockBalance(dbtx *gorm.DB, playerID string) (*PlayerBalance, error) {
	pb := PlayerBalance{PlayerID: playerID}
	if err := dbtx.Clauses(clause.OnConflict{DoNothing: true}).Create(&pb).Error; err != nil {
		return nil, err
	}
	if err := dbtx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("player_id = ?", playerID).
		First(&pb).Error; err != nil {
		return nil, err
	}
	return &pb, nil
}

func appendEntry(dbtx *gorm.DB, pb *PlayerBalance, wagerID *string, delta int64, kind EntryKind) (*LedgerEntry, error) {
	newBalance := pb.Balance + delta
	entry := &LedgerEntry{
		EntryID:      uuid.New().String(),
		PlayerID:     pb.PlayerID,
		WagerID:      wagerID,
		Delta:        delta,
		BalanceAfter: newBalance,
		Kind:         kind,
		CreatedAt:    time.Now(),
	}
	if err := dbtx.Create(entry).Error; err != nil {
		return nil, err
	}

	result := dbtx.Model(&PlayerBalance{}).
		Where("player_id = ?", pb.PlayerID).
		Updates(map[string]interface{}{
			"balance":    newBalance,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	pb.Balance = newBalance
	return entry, nil
}

// Reserve appends a WAGER_DEBIT for the stake, but only if the locked
// balance covers it. This is the sole gate against overdraft: the check
// and the debit happen under the same row lock, so two concurrent
// reservations can never both pass against a stale balance.
func (r *LedgerRepositoryImpl) Reserve(ctx context.Context, playerID, wagerID string, amount int64) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}

	var reservationID string
	err := r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		pb, err := lockBalance(dbtx, playerID)
		if err != nil {
			return err
		}
		if pb.Balance-amount < 0 {
			return ErrInsufficientFunds
		}
		entry, err := appendEntry(dbtx, pb, &wagerID, -amount, KindWagerDebit)
		if err != nil {
			return err
		}
		reservationID = entry.EntryID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return "", err
		}
		return "", fmt.Errorf("failed to reserve stake: %w", err)
	}
	return reservationID, nil
}

// Settle credits the payout for a drawn wager. Idempotent on wagerID: a
// retry that finds an existing WAGER_CREDIT is a no-op. A zero payout
// writes nothing; the debit stands.
func (r *LedgerRepositoryImpl) Settle(ctx context.Context, playerID, wagerID string, payout int64) error {
	if payout < 0 {
		return ErrInvalidAmount
	}
	if payout == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		// Take the row lock before the idempotency check: settles for
		// the same player serialize on it, so a retry can never race a
		// first attempt into a double credit.
		pb, err := lockBalance(dbtx, playerID)
		if err != nil {
			return err
		}

		var existing LedgerEntry
		err = dbtx.Where("wager_id = ? AND kind = ?", wagerID, KindWagerCredit).
			First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		_, err = appendEntry(dbtx, pb, &wagerID, payout, KindWagerCredit)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to settle wager credit: %w", err)
	}
	return nil
}

func (r *LedgerRepositoryImpl) Deposit(ctx context.Context, playerID string, amount int64) (*LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	var entry *LedgerEntry
	err := r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		pb, err := lockBalance(dbtx, playerID)
		if err != nil {
			return err
		}
		entry, err = appendEntry(dbtx, pb, nil, amount, KindDeposit)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to deposit: %w", err)
	}
	return entry, nil
}

func (r *LedgerRepositoryImpl) Withdraw(ctx context.Context, playerID string, amount int64) (*LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	var entry *LedgerEntry
	err := r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		pb, err := lockBalance(dbtx, playerID)
		if err != nil {
			return err
		}
		if pb.Balance-amount < 0 {
			return ErrInsufficientFunds
		}
		entry, err = appendEntry(dbtx, pb, nil, -amount, KindWithdrawal)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to withdraw: %w", err)
	}
	return entry, nil
}

// BalanceOf sums the entry log, which is the ground truth. The cached
// projection is reconciled on every read; drift means a bug and is
// logged, with the log-derived value returned.
func (r *LedgerRepositoryImpl) BalanceOf(ctx context.Context, playerID string) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&LedgerEntry{}).
		Where("player_id = ?", playerID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	var pb PlayerBalance
	err = r.db.WithContext(ctx).Where("player_id = ?", playerID).First(&pb).Error
	if err == nil && pb.Balance != sum {
		log.Printf("ledger drift for player %s: projection=%d log=%d", playerID, pb.Balance, sum)
	}

	return sum, nil
}

func (r *LedgerRepositoryImpl) Entries(ctx context.Context, playerID string) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	err := r.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}
