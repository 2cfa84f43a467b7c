package wager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var ErrWagerNotFound = errors.New("wager not found")

type WagerRepository interface {
	Create(ctx context.Context, w *Wager) error
	Get(ctx context.Context, wagerID string) (*Wager, error)
	// TransitionStatus moves a wager from one status to another. Returns
	// false without error when the wager was not in the expected status,
	// which callers treat as a concurrent transition.
	TransitionStatus(ctx context.Context, wagerID string, from, to Status) (bool, error)
	MarkDrawn(ctx context.Context, wagerID string, drawnValue int64) (bool, error)
	MarkSettled(ctx context.Context, wagerID string, multiplier, payout int64, prizeLabel string, settledAt time.Time) (bool, error)
	FindStale(ctx context.Context, statuses []Status, before time.Time) ([]Wager, error)
}

type WagerRepositoryImpl struct {
	db *gorm.DB
}

func NewWagerRepositoryImpl(db *gorm.DB) WagerRepository {
	return &WagerRepositoryImpl{db: db}
}

func (r *WagerRepositoryImpl) Create(ctx context.Context, w *Wager) error {
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		return fmt.Errorf("failed to create wager: %w", err)
	}
	return nil
}

func (r *WagerRepositoryImpl) Get(ctx context.Context, wagerID string) (*Wager, error) {
	var w Wager
	err := r.db.WithContext(ctx).Where("wager_id = ?", wagerID).First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWagerNotFound
		}
		return nil, fmt.Errorf("failed to get wager: %w", err)
	}
	return &w, nil
}

func (r *WagerRepositoryImpl) TransitionStatus(ctx context.Context, wagerID string, from, to Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Wager{}).
		Where("wager_id = ? AND status = ?", wagerID, from).
		Update("status", to)
	if result.Error != nil {
		return false, fmt.Errorf("failed to transition wager status: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *WagerRepositoryImpl) MarkDrawn(ctx context.Context, wagerID string, drawnValue int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Wager{}).
		Where("wager_id = ? AND status = ?", wagerID, StatusCommitted).
		Updates(map[string]interface{}{
			"status":      StatusDrawn,
			"drawn_value": drawnValue,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark wager drawn: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *WagerRepositoryImpl) MarkSettled(ctx context.Context, wagerID string, multiplier, payout int64, prizeLabel string, settledAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Wager{}).
		Where("wager_id = ? AND status = ?", wagerID, StatusDrawn).
		Updates(map[string]interface{}{
			"status":      StatusSettled,
			"multiplier":  multiplier,
			"payout":      payout,
			"prize_label": prizeLabel,
			"settled_at":  settledAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark wager settled: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *WagerRepositoryImpl) FindStale(ctx context.Context, statuses []Status, before time.Time) ([]Wager, error) {
	var wagers []Wager
	err := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?", statuses, before).
		Order("created_at ASC").
		Find(&wagers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find stale wagers: %w", err)
	}
	return wagers, nil
}
