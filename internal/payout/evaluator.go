package payout

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInvalidChoice     = errors.New("choice is outside the variant's valid domain")
	ErrUnknownVariant    = errors.New("unknown game variant")
	ErrInvalidPrizeTable = errors.New("invalid prize table")
)

// Result is the settled outcome of a single evaluation.
type Result struct {
	Multiplier int64
	Payout     int64
	PrizeLabel string
}

// numberGuessMultiplier maps the distance between the player's guess and
// the drawn number to a multiplier. First matching band wins.
func numberGuessMultiplier(difference int64) int64 {
	switch {
	case difference == 0:
		return 50
	case difference == 1:
		return 10
	case difference <= 3:
		return 5
	case difference <= 5:
		return 2
	default:
		return 0
	}
}

// ValidateChoice checks the player's choice against the variant's domain.
// Called at submission time; Evaluate re-checks defensively.
func ValidateChoice(variant Variant, choice int64) error {
	switch variant {
	case VariantNumberGuess:
		if choice < NumberGuessMin || choice > NumberGuessMax {
			return fmt.Errorf("%w: number guess must be in [%d, %d], got %d",
				ErrInvalidChoice, NumberGuessMin, NumberGuessMax, choice)
		}
		return nil
	case VariantWheelSpin:
		// The draw determines the segment directly; there is no choice.
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}

// DrawRange returns the size of the draw domain for a variant.
func DrawRange(variant Variant) (int64, error) {
	switch variant {
	case VariantNumberGuess:
		return NumberGuessMax, nil
	case VariantWheelSpin:
		return WheelWeightSum, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}

// Evaluate is a pure function from (variant, choice, drawnValue, stake)
// to the settled multiplier and payout. For WHEEL_SPIN the prize table
// version recorded on the wager must be supplied; for NUMBER_GUESS the
// table is ignored.
//
// Payout arithmetic is integer-only; a fractional result is impossible
// with integer multipliers but any future fractional band truncates
// toward zero, never rounds up.
func Evaluate(variant Variant, choice, drawnValue, stake int64, table *PrizeTable) (Result, error) {
	if stake <= 0 {
		return Result{}, fmt.Errorf("%w: stake must be positive", ErrInvalidChoice)
	}

	switch variant {
	case VariantNumberGuess:
		if err := ValidateChoice(variant, choice); err != nil {
			return Result{}, err
		}
		if drawnValue < NumberGuessMin || drawnValue > NumberGuessMax {
			return Result{}, fmt.Errorf("%w: drawn value %d outside [%d, %d]",
				ErrInvalidChoice, drawnValue, NumberGuessMin, NumberGuessMax)
		}
		difference := choice - drawnValue
		if difference < 0 {
			difference = -difference
		}
		multiplier := numberGuessMultiplier(difference)
		return Result{
			Multiplier: multiplier,
			Payout:     multiplier * stake,
		}, nil

	case VariantWheelSpin:
		prize, err := PrizeForDraw(table, drawnValue)
		if err != nil {
			return Result{}, err
		}
		return Result{
			Multiplier: 1,
			Payout:     prize.Credit,
			PrizeLabel: prize.Label,
		}, nil

	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}

// PrizeForDraw resolves a drawn value in [1, WheelWeightSum] to the prize
// whose cumulative weight range contains it.
func PrizeForDraw(table *PrizeTable, drawnValue int64) (*Prize, error) {
	if table == nil || len(table.Prizes) == 0 {
		return nil, fmt.Errorf("%w: missing prize table", ErrInvalidPrizeTable)
	}
	if drawnValue < 1 || drawnValue > WheelWeightSum {
		return nil, fmt.Errorf("%w: drawn value %d outside [1, %d]",
			ErrInvalidChoice, drawnValue, WheelWeightSum)
	}

	prizes := make([]Prize, len(table.Prizes))
	copy(prizes, table.Prizes)
	sort.Slice(prizes, func(i, j int) bool { return prizes[i].Position < prizes[j].Position })

	var cumulative int64
	for i := range prizes {
		cumulative += prizes[i].Weight
		if drawnValue <= cumulative {
			return &prizes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: weights sum to %d, expected %d",
		ErrInvalidPrizeTable, cumulative, WheelWeightSum)
}

// ValidatePrizes checks a candidate prize list before a new table version
// is persisted: positive weights summing to exactly WheelWeightSum,
// non-negative credits, contiguous positions.
func ValidatePrizes(prizes []Prize) error {
	if len(prizes) == 0 {
		return fmt.Errorf("%w: at least one prize required", ErrInvalidPrizeTable)
	}
	seen := make(map[int]bool, len(prizes))
	var sum int64
	for _, p := range prizes {
		if p.Weight <= 0 {
			return fmt.Errorf("%w: prize %q has non-positive weight %d",
				ErrInvalidPrizeTable, p.Label, p.Weight)
		}
		if p.Credit < 0 {
			return fmt.Errorf("%w: prize %q has negative credit %d",
				ErrInvalidPrizeTable, p.Label, p.Credit)
		}
		if seen[p.Position] {
			return fmt.Errorf("%w: duplicate position %d", ErrInvalidPrizeTable, p.Position)
		}
		seen[p.Position] = true
		sum += p.Weight
	}
	if sum != WheelWeightSum {
		return fmt.Errorf("%w: weights sum to %d, expected %d",
			ErrInvalidPrizeTable, sum, WheelWeightSum)
	}
	return nil
}
