package fair

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrEntropyUnavailable = errors.New("entropy unavailable")
	ErrInvalidRange       = errors.New("draw range must be >= 1")
)

const seedBytes = 32

// Commitment holds the result of committing to a fresh server seed.
// The server seed must stay private until the wager settles; only the
// hash is shown to the player up front.
type Commitment struct {
	ServerSeed string
	Hash       string
}

// CommitmentHash computes hex(SHA256(serverSeed || clientSeed || wagerID)).
// This is the value published at commit time and re-derived by players
// after the seed reveal.
func CommitmentHash(serverSeed, clientSeed, wagerID string) string {
	h := sha256.New()
	h.Write([]byte(serverSeed))
	h.Write([]byte(clientSeed))
	h.Write([]byte(wagerID))
	return hex.EncodeToString(h.Sum(nil))
}

// Commit generates a new server seed from the OS entropy source and
// returns it together with its commitment hash.
func Commit(clientSeed, wagerID string) (*Commitment, error) {
	buf := make([]byte, seedBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	serverSeed := hex.EncodeToString(buf)
	return &Commitment{
		ServerSeed: serverSeed,
		Hash:       CommitmentHash(serverSeed, clientSeed, wagerID),
	}, nil
}

// Draw deterministically derives an integer in [1, max] from the seeds
// and wager ID. The same inputs always produce the same outcome, which
// is what makes the draw auditable after the seed reveal.
//
// Each HMAC-SHA256 round yields four uint64 candidates; candidates in
// the biased tail of the uint64 space are rejected so every outcome in
// [1, max] is equally likely.
func Draw(serverSeed, clientSeed, wagerID string, max int64) (int64, error) {
	if max < 1 {
		return 0, ErrInvalidRange
	}
	if max == 1 {
		return 1, nil
	}

	umax := uint64(max)
	// Largest multiple of umax that fits in a uint64.
	limit := (^uint64(0)/umax)*umax - 1

	for round := 0; ; round++ {
		mac := hmac.New(sha256.New, []byte(serverSeed))
		fmt.Fprintf(mac, "%s:%s:%d", clientSeed, wagerID, round)
		digest := mac.Sum(nil)

		for off := 0; off+8 <= len(digest); off += 8 {
			v := binary.BigEndian.Uint64(digest[off:])
			if v > limit {
				continue
			}
			return int64(v%umax) + 1, nil
		}
	}
}

// Verify recomputes the commitment from the revealed seed and compares
// it to the published hash in constant time.
func Verify(serverSeed, clientSeed, wagerID, commitmentHash string) bool {
	computed := CommitmentHash(serverSeed, clientSeed, wagerID)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(commitmentHash)) == 1
}
