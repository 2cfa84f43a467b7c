package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"wager_service/internal/payout"
	"wager_service/internal/wager"
)

// VariantRTP is the observed return-to-player for one game variant:
// total payouts over total stakes across settled wagers.
type VariantRTP struct {
	Variant     payout.Variant  `json:"variant"`
	WagerCount  int64           `json:"wager_count"`
	TotalStaked int64           `json:"total_staked"`
	TotalPaid   int64           `json:"total_paid"`
	RTP         decimal.Decimal `json:"rtp"`
	HouseEdge   decimal.Decimal `json:"house_edge"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type rtpRow struct {
	Variant     payout.Variant
	WagerCount  int64
	TotalStaked int64
	TotalPaid   int64
}

// RTPByVariant aggregates settled wagers per variant. Sums stay in
// integer minor units; only the final ratio is decimal.
func (s *Service) RTPByVariant(ctx context.Context) ([]VariantRTP, error) {
	var rows []rtpRow
	err := s.db.WithContext(ctx).
		Model(&wager.Wager{}).
		Select("variant, COUNT(*) AS wager_count, COALESCE(SUM(stake), 0) AS total_staked, COALESCE(SUM(payout), 0) AS total_paid").
		Where("status = ?", wager.StatusSettled).
		Group("variant").
		Order("variant ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate settled wagers: %w", err)
	}

	out := make([]VariantRTP, 0, len(rows))
	for _, row := range rows {
		entry := VariantRTP{
			Variant:     row.Variant,
			WagerCount:  row.WagerCount,
			TotalStaked: row.TotalStaked,
			TotalPaid:   row.TotalPaid,
			RTP:         decimal.Zero,
			HouseEdge:   decimal.Zero,
		}
		if row.TotalStaked > 0 {
			entry.RTP = decimal.NewFromInt(row.TotalPaid).
				Div(decimal.NewFromInt(row.TotalStaked)).
				Round(4)
			entry.HouseEdge = decimal.NewFromInt(1).Sub(entry.RTP)
		}
		out = append(out, entry)
	}
	return out, nil
}
