package payout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPrizeTableNotFound = errors.New("prize table not found")

type PrizeTableRepository interface {
	GetTable(ctx context.Context, version int) (*PrizeTable, error)
	GetActiveTable(ctx context.Context) (*PrizeTable, error)
	CreateTable(ctx context.Context, createdBy string, prizes []Prize) (*PrizeTable, error)
}

type PrizeTableRepositoryImpl struct {
	db *gorm.DB
}

func NewPrizeTableRepositoryImpl(db *gorm.DB) PrizeTableRepository {
	return &PrizeTableRepositoryImpl{db: db}
}

func (r *PrizeTableRepositoryImpl) GetTable(ctx context.Context, version int) (*PrizeTable, error) {
	var table PrizeTable
	err := r.db.WithContext(ctx).
		Preload("Prizes").
		Where("version = ?", version).
		First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrizeTableNotFound
		}
		return nil, fmt.Errorf("failed to get prize table: %w", err)
	}
	return &table, nil
}

// GetActiveTable returns the highest version; new wagers always commit
// against it.
func (r *PrizeTableRepositoryImpl) GetActiveTable(ctx context.Context) (*PrizeTable, error) {
	var table PrizeTable
	err := r.db.WithContext(ctx).
		Preload("Prizes").
		Order("version DESC").
		First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrizeTableNotFound
		}
		return nil, fmt.Errorf("failed to get active prize table: %w", err)
	}
	return &table, nil
}

// CreateTable persists a new immutable table version. Existing versions
// are never touched.
func (r *PrizeTableRepositoryImpl) CreateTable(ctx context.Context, createdBy string, prizes []Prize) (*PrizeTable, error) {
	if err := ValidatePrizes(prizes); err != nil {
		return nil, err
	}

	table := &PrizeTable{CreatedBy: createdBy}
	err := r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Create(table).Error; err != nil {
			return err
		}
		for i := range prizes {
			prizes[i].PrizeID = uuid.New().String()
			prizes[i].TableVersion = table.Version
		}
		if err := dbtx.Create(&prizes).Error; err != nil {
			return err
		}
		table.Prizes = prizes
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create prize table: %w", err)
	}
	return table, nil
}
