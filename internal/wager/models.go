package wager

import (
	"time"

	"wager_service/internal/payout"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCommitted Status = "COMMITTED"
	StatusDrawn     Status = "DRAWN"
	StatusSettled   Status = "SETTLED"
	StatusFailed    Status = "FAILED"
)

// Wager is one bet from submission to settlement. Transitions are driven
// exclusively by the Service; a wager is immutable once SETTLED or FAILED.
//
// ServerSeed is never serialized: only the settle and verify responses
// expose it, and only once the wager is SETTLED.
type Wager struct {
	WagerID            string         `gorm:"column:wager_id;primaryKey;type:uuid" json:"wager_id"`
	PlayerID           string         `gorm:"column:player_id;type:uuid;not null;index" json:"player_id"`
	Variant            payout.Variant `gorm:"column:variant;type:varchar(20);not null" json:"variant"`
	Stake              int64          `gorm:"column:stake;not null" json:"stake"`
	Choice             int64          `gorm:"column:choice;not null;default:0" json:"choice,omitempty"`
	Status             Status         `gorm:"column:status;type:varchar(20);not null;index" json:"status"`
	SeedCommitmentHash string         `gorm:"column:seed_commitment_hash;type:varchar(64);not null" json:"seed_commitment_hash"`
	ServerSeed         string         `gorm:"column:server_seed;type:varchar(64);not null" json:"-"`
	ClientSeed         string         `gorm:"column:client_seed;type:varchar(255);not null" json:"client_seed"`
	PrizeTableVersion  int            `gorm:"column:prize_table_version;not null;default:0" json:"prize_table_version,omitempty"`
	ReservationID      string         `gorm:"column:reservation_id;type:uuid;not null" json:"-"`
	DrawnValue         *int64         `gorm:"column:drawn_value" json:"drawn_value,omitempty"`
	Multiplier         *int64         `gorm:"column:multiplier" json:"multiplier,omitempty"`
	Payout             *int64         `gorm:"column:payout" json:"payout,omitempty"`
	PrizeLabel         string         `gorm:"column:prize_label;type:varchar(100)" json:"prize_label,omitempty"`
	CreatedAt          time.Time      `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	SettledAt          *time.Time     `gorm:"column:settled_at" json:"settled_at,omitempty"`
}

type SubmitRequest struct {
	PlayerID   string         `json:"player_id" binding:"required"`
	Variant    payout.Variant `json:"variant" binding:"required"`
	Stake      int64          `json:"stake"`
	Choice     int64          `json:"choice"`
	ClientSeed string         `json:"client_seed"`
}

type SubmitResponse struct {
	WagerID            string `json:"wager_id"`
	Status             Status `json:"status"`
	SeedCommitmentHash string `json:"seed_commitment_hash"`
}

type DrawResponse struct {
	WagerID    string `json:"wager_id"`
	Status     Status `json:"status"`
	DrawnValue int64  `json:"drawn_value"`
}

type SettleResponse struct {
	WagerID            string `json:"wager_id"`
	Status             Status `json:"status"`
	DrawnValue         int64  `json:"drawn_value"`
	Multiplier         int64  `json:"multiplier"`
	Payout             int64  `json:"payout"`
	PrizeLabel         string `json:"prize_label,omitempty"`
	ServerSeed         string `json:"server_seed"`
	ClientSeed         string `json:"client_seed"`
	SeedCommitmentHash string `json:"seed_commitment_hash"`
}

type VerifyResponse struct {
	WagerID            string `json:"wager_id"`
	Valid              bool   `json:"valid"`
	ServerSeed         string `json:"server_seed"`
	ClientSeed         string `json:"client_seed"`
	SeedCommitmentHash string `json:"seed_commitment_hash"`
	DrawnValue         int64  `json:"drawn_value"`
}
