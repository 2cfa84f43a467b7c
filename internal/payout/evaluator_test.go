package payout

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *PrizeTable {
	t.Helper()
	prizes := DefaultPrizes()
	require.NoError(t, ValidatePrizes(prizes))
	return &PrizeTable{Version: 1, Prizes: prizes}
}

func TestNumberGuessBands(t *testing.T) {
	cases := []struct {
		name       string
		choice     int64
		drawn      int64
		stake      int64
		multiplier int64
		payout     int64
	}{
		{"exact hit", 50, 50, 10, 50, 500},
		{"off by one below", 50, 49, 10, 10, 100},
		{"off by one above", 50, 51, 10, 10, 100},
		{"off by two", 50, 52, 10, 5, 50},
		{"off by three", 50, 47, 10, 5, 50},
		{"off by four", 50, 54, 10, 2, 20},
		{"off by five", 50, 45, 10, 2, 20},
		{"off by six loses", 50, 56, 10, 0, 0},
		{"far miss", 1, 100, 25, 0, 0},
		{"edge choice exact", 100, 100, 7, 50, 350},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Evaluate(VariantNumberGuess, tc.choice, tc.drawn, tc.stake, nil)
			require.NoError(t, err)
			require.Equal(t, tc.multiplier, res.Multiplier)
			require.Equal(t, tc.payout, res.Payout)
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	first, err := Evaluate(VariantNumberGuess, 42, 44, 15, nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Evaluate(VariantNumberGuess, 42, 44, 15, nil)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestNumberGuessRejectsOutOfDomain(t *testing.T) {
	_, err := Evaluate(VariantNumberGuess, 0, 50, 10, nil)
	require.ErrorIs(t, err, ErrInvalidChoice)

	_, err = Evaluate(VariantNumberGuess, 101, 50, 10, nil)
	require.ErrorIs(t, err, ErrInvalidChoice)

	_, err = Evaluate(VariantNumberGuess, 50, 0, 10, nil)
	require.ErrorIs(t, err, ErrInvalidChoice)

	_, err = Evaluate(VariantNumberGuess, 50, 50, 0, nil)
	require.ErrorIs(t, err, ErrInvalidChoice)
}

func TestValidateChoice(t *testing.T) {
	require.NoError(t, ValidateChoice(VariantNumberGuess, 1))
	require.NoError(t, ValidateChoice(VariantNumberGuess, 100))
	require.ErrorIs(t, ValidateChoice(VariantNumberGuess, 0), ErrInvalidChoice)
	require.ErrorIs(t, ValidateChoice(VariantNumberGuess, 101), ErrInvalidChoice)
	require.NoError(t, ValidateChoice(VariantWheelSpin, 0))
	require.ErrorIs(t, ValidateChoice(Variant("BLACKJACK"), 1), ErrUnknownVariant)
}

func TestWheelCumulativeLookup(t *testing.T) {
	table := testTable(t)

	// Default weights: 100, 400, 1000, 1500, 2000, 5000.
	// Cumulative edges: 100, 500, 1500, 3000, 5000, 10000.
	cases := []struct {
		drawn int64
		label string
	}{
		{1, "Jackpot 500"},
		{100, "Jackpot 500"},
		{101, "Win 200"},
		{500, "Win 200"},
		{501, "Win 100"},
		{1500, "Win 100"},
		{3000, "Win 50"},
		{3333, "Win 20"},
		{5000, "Win 20"},
		{5001, "No Win"},
		{10000, "No Win"},
	}
	for _, tc := range cases {
		prize, err := PrizeForDraw(table, tc.drawn)
		require.NoError(t, err)
		require.Equal(t, tc.label, prize.Label, "drawn=%d", tc.drawn)
	}
}

func TestWheelPayoutIgnoresStake(t *testing.T) {
	table := testTable(t)

	small, err := Evaluate(VariantWheelSpin, 0, 50, 1, table)
	require.NoError(t, err)
	large, err := Evaluate(VariantWheelSpin, 0, 50, 1000, table)
	require.NoError(t, err)

	require.Equal(t, small.Payout, large.Payout)
	require.Equal(t, int64(1), small.Multiplier)
	require.Equal(t, int64(500), small.Payout, "drawn=50 lands on the jackpot segment")
}

func TestWheelDrawOutOfRange(t *testing.T) {
	table := testTable(t)
	_, err := PrizeForDraw(table, 0)
	require.ErrorIs(t, err, ErrInvalidChoice)
	_, err = PrizeForDraw(table, 10001)
	require.ErrorIs(t, err, ErrInvalidChoice)
}

func TestValidatePrizes(t *testing.T) {
	require.NoError(t, ValidatePrizes(DefaultPrizes()))

	bad := DefaultPrizes()
	bad[0].Weight = 99
	require.ErrorIs(t, ValidatePrizes(bad), ErrInvalidPrizeTable)

	zero := DefaultPrizes()
	zero[2].Weight = 0
	require.ErrorIs(t, ValidatePrizes(zero), ErrInvalidPrizeTable)

	negative := DefaultPrizes()
	negative[1].Credit = -10
	require.ErrorIs(t, ValidatePrizes(negative), ErrInvalidPrizeTable)

	dup := DefaultPrizes()
	dup[1].Position = dup[0].Position
	require.ErrorIs(t, ValidatePrizes(dup), ErrInvalidPrizeTable)

	require.ErrorIs(t, ValidatePrizes(nil), ErrInvalidPrizeTable)
}
