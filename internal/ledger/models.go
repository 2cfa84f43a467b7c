package ledger

import "time"

type EntryKind string

const (
	KindDeposit     EntryKind = "DEPOSIT"
	KindWithdrawal  EntryKind = "WITHDRAWAL"
	KindWagerDebit  EntryKind = "WAGER_DEBIT"
	KindWagerCredit EntryKind = "WAGER_CREDIT"
)

// LedgerEntry is one balance-affecting event. Rows are append-only and
// immutable once written; the sum of deltas per player is the ground
// truth for that player's balance. Delta and BalanceAfter are minor
// currency units.
type LedgerEntry struct {
	EntryID      string    `gorm:"column:entry_id;primaryKey;type:uuid" json:"entry_id"`
	PlayerID     string    `gorm:"column:player_id;type:uuid;not null;index" json:"player_id"`
	WagerID      *string   `gorm:"column:wager_id;type:uuid;index" json:"wager_id,omitempty"`
	Delta        int64     `gorm:"column:delta;not null" json:"delta"`
	BalanceAfter int64     `gorm:"column:balance_after;not null" json:"balance_after"`
	Kind         EntryKind `gorm:"column:kind;type:varchar(20);not null" json:"kind"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
}

// PlayerBalance is a cached projection of the entry log. It exists so
// Reserve can lock one row per player; the log remains authoritative and
// the projection is only ever written in the same transaction that
// appends an entry.
type PlayerBalance struct {
	PlayerID  string    `gorm:"column:player_id;primaryKey;type:uuid"`
	Balance   int64     `gorm:"column:balance;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()"`
}
