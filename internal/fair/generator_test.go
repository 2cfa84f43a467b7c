package fair

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestCommitProducesVerifiableHash(t *testing.T) {
	wagerID := uuid.NewString()
	clientSeed := "player-chosen-seed"

	c, err := Commit(clientSeed, wagerID)
	require.NoError(t, err)
	require.Len(t, c.ServerSeed, 64, "server seed should be 32 hex-encoded bytes")
	require.Len(t, c.Hash, 64)

	require.True(t, Verify(c.ServerSeed, clientSeed, wagerID, c.Hash))
	require.False(t, Verify(c.ServerSeed, "tampered-seed", wagerID, c.Hash))
	require.False(t, Verify(c.ServerSeed, clientSeed, uuid.NewString(), c.Hash))
}

func TestCommitSeedsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		c, err := Commit("client", "wager")
		require.NoError(t, err)
		require.False(t, seen[c.ServerSeed], "duplicate server seed")
		seen[c.ServerSeed] = true
	}
}

func TestDrawIsDeterministic(t *testing.T) {
	c, err := Commit("client-seed", "wager-1")
	require.NoError(t, err)

	first, err := Draw(c.ServerSeed, "client-seed", "wager-1", 100)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Draw(c.ServerSeed, "client-seed", "wager-1", 100)
		require.NoError(t, err)
		require.Equal(t, first, again, "re-draw must reproduce the outcome")
	}
}

func TestDrawStaysInRange(t *testing.T) {
	for _, max := range []int64{1, 2, 3, 37, 100, 10000} {
		for i := 0; i < 200; i++ {
			c, err := Commit("client", uuid.NewString())
			require.NoError(t, err)
			v, err := Draw(c.ServerSeed, "client", uuid.NewString(), max)
			require.NoError(t, err)
			require.GreaterOrEqual(t, v, int64(1))
			require.LessOrEqual(t, v, max)
		}
	}
}

func TestDrawDegenerateRange(t *testing.T) {
	v, err := Draw("seed", "client", "wager", 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

func TestDrawRejectsBadRange(t *testing.T) {
	_, err := Draw("seed", "client", "wager", 0)
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = Draw("seed", "client", "wager", -5)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestDrawSensitiveToInputs(t *testing.T) {
	// With max=10000 two different wager IDs colliding on the same
	// outcome is common enough; check a batch differs somewhere.
	base, err := Draw("seed-a", "client", "wager", 10000)
	require.NoError(t, err)

	differs := false
	for _, in := range []struct{ server, client, wager string }{
		{"seed-b", "client", "wager"},
		{"seed-a", "other", "wager"},
		{"seed-a", "client", "other"},
	} {
		v, err := Draw(in.server, in.client, in.wager, 10000)
		require.NoError(t, err)
		if v != base {
			differs = true
		}
	}
	require.True(t, differs, "distinct inputs should not all map to the same outcome")
}
