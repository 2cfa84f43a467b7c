package payout

import "time"

type Variant string

const (
	VariantNumberGuess Variant = "NUMBER_GUESS"
	VariantWheelSpin   Variant = "WHEEL_SPIN"
)

const (
	NumberGuessMin = 1
	NumberGuessMax = 100

	// Wheel weights are integers summing to exactly this, so the drawn
	// value in [1, WheelWeightSum] maps to a prize by cumulative lookup
	// without any floating-point probability comparison.
	WheelWeightSum = 10000
)

// PrizeTable is an immutable, versioned wheel configuration. A new table
// version is created whenever the admin changes the wheel; old versions
// are never mutated so historical wagers stay evaluable against the
// rules in force when they were placed.
type PrizeTable struct {
	Version   int       `gorm:"column:version;primaryKey;autoIncrement" json:"version"`
	CreatedBy string    `gorm:"column:created_by;type:varchar(100);not null" json:"created_by"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	Prizes    []Prize   `gorm:"foreignKey:TableVersion;references:Version" json:"prizes"`
}

// Prize is one wheel segment. Weight is out of WheelWeightSum; Credit is
// the amount paid in minor currency units when the segment hits.
type Prize struct {
	PrizeID      string `gorm:"column:prize_id;primaryKey;type:uuid" json:"prize_id"`
	TableVersion int    `gorm:"column:table_version;not null;index" json:"-"`
	Position     int    `gorm:"column:position;not null" json:"position"`
	Label        string `gorm:"column:label;type:varchar(100);not null" json:"label"`
	Weight       int64  `gorm:"column:weight;not null" json:"weight"`
	Credit       int64  `gorm:"column:credit;not null" json:"credit"`
}

// DefaultPrizes is the wheel seeded on first run when no table exists.
func DefaultPrizes() []Prize {
	return []Prize{
		{Position: 0, Label: "Jackpot 500", Weight: 100, Credit: 500},
		{Position: 1, Label: "Win 200", Weight: 400, Credit: 200},
		{Position: 2, Label: "Win 100", Weight: 1000, Credit: 100},
		{Position: 3, Label: "Win 50", Weight: 1500, Credit: 50},
		{Position: 4, Label: "Win 20", Weight: 2000, Credit: 20},
		{Position: 5, Label: "No Win", Weight: 5000, Credit: 0},
	}
}
