package wager

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"wager_service/internal/fair"
	"wager_service/internal/ledger"
	"wager_service/internal/payout"
)

var (
	ErrInvalidStake  = errors.New("stake must be a positive amount")
	ErrStateConflict = errors.New("operation not permitted in current wager status")
	ErrNotSettled    = errors.New("wager is not settled yet")
)

// Service drives the wager lifecycle PENDING -> COMMITTED -> DRAWN ->
// SETTLED. Entropy is committed before the draw and the stake reserved
// before the draw, so neither seed selection nor funding can be
// conditioned on the outcome. Draw and Settle are idempotent: retries
// return the stored result.
type Service struct {
	repo   WagerRepository
	ledger ledger.Ledger
	tables payout.PrizeTableRepository
}

func NewService(repo WagerRepository, l ledger.Ledger, tables payout.PrizeTableRepository) *Service {
	return &Service{repo: repo, ledger: l, tables: tables}
}

// Submit validates the request, commits to a fresh server seed, reserves
// the stake and persists the wager as COMMITTED. The commitment hash is
// published in the response; the server seed stays private until Settle.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	if req.Stake <= 0 {
		return nil, ErrInvalidStake
	}
	if err := payout.ValidateChoice(req.Variant, req.Choice); err != nil {
		return nil, err
	}

	tableVersion := 0
	if req.Variant == payout.VariantWheelSpin {
		table, err := s.tables.GetActiveTable(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve active prize table: %w", err)
		}
		tableVersion = table.Version
	}

	wagerID := uuid.New().String()

	// Entropy first: a failed commit costs nothing and leaves no state.
	commitment, err := fair.Commit(req.ClientSeed, wagerID)
	if err != nil {
		return nil, err
	}

	reservationID, err := s.ledger.Reserve(ctx, req.PlayerID, wagerID, req.Stake)
	if err != nil {
		return nil, err
	}

	w := &Wager{
		WagerID:            wagerID,
		PlayerID:           req.PlayerID,
		Variant:            req.Variant,
		Stake:              req.Stake,
		Choice:             req.Choice,
		Status:             StatusPending,
		SeedCommitmentHash: commitment.Hash,
		ServerSeed:         commitment.ServerSeed,
		ClientSeed:         req.ClientSeed,
		PrizeTableVersion:  tableVersion,
		ReservationID:      reservationID,
		CreatedAt:          time.Now(),
	}
	if err := s.repo.Create(ctx, w); err != nil {
		// The stake is already debited; release it so a storage fault
		// never eats the player's money.
		if refundErr := s.ledger.Settle(ctx, req.PlayerID, wagerID, req.Stake); refundErr != nil {
			log.Printf("failed to refund reservation for wager %s: %v", wagerID, refundErr)
		}
		return nil, err
	}

	moved, err := s.repo.TransitionStatus(ctx, wagerID, StatusPending, StatusCommitted)
	if err != nil {
		// Leave the wager PENDING; the recovery sweeper cancels and
		// refunds it.
		return nil, err
	}
	if !moved {
		// Someone else (the sweeper, most likely) moved the wager out
		// of PENDING already; don't report a commitment that never
		// happened.
		return nil, fmt.Errorf("%w: wager %s left PENDING concurrently", ErrStateConflict, wagerID)
	}

	return &SubmitResponse{
		WagerID:            wagerID,
		Status:             StatusCommitted,
		SeedCommitmentHash: commitment.Hash,
	}, nil
}

// Draw derives the outcome for a COMMITTED wager. Repeat calls return
// the already-stored value; the derivation is deterministic so even a
// lost update re-derives the identical outcome.
func (s *Service) Draw(ctx context.Context, wagerID string) (*DrawResponse, error) {
	w, err := s.repo.Get(ctx, wagerID)
	if err != nil {
		return nil, err
	}

	switch w.Status {
	case StatusDrawn, StatusSettled:
		return &DrawResponse{WagerID: w.WagerID, Status: w.Status, DrawnValue: *w.DrawnValue}, nil
	case StatusCommitted:
		// proceed
	default:
		return nil, fmt.Errorf("%w: cannot draw wager in status %s", ErrStateConflict, w.Status)
	}

	drawMax, err := payout.DrawRange(w.Variant)
	if err != nil {
		return nil, err
	}
	drawnValue, err := fair.Draw(w.ServerSeed, w.ClientSeed, w.WagerID, drawMax)
	if err != nil {
		return nil, err
	}

	moved, err := s.repo.MarkDrawn(ctx, wagerID, drawnValue)
	if err != nil {
		return nil, err
	}
	if !moved {
		// A concurrent call won the transition; its value is ours too,
		// and it may already have settled the wager.
		w, err = s.repo.Get(ctx, wagerID)
		if err != nil {
			return nil, err
		}
		if w.DrawnValue == nil {
			return nil, fmt.Errorf("%w: cannot draw wager in status %s", ErrStateConflict, w.Status)
		}
		return &DrawResponse{WagerID: wagerID, Status: w.Status, DrawnValue: *w.DrawnValue}, nil
	}

	return &DrawResponse{WagerID: wagerID, Status: StatusDrawn, DrawnValue: drawnValue}, nil
}

// Settle evaluates the payout for a DRAWN wager, credits the ledger and
// reveals the server seed. Idempotent: a settled wager returns its
// stored result without re-invoking the evaluator or the ledger.
func (s *Service) Settle(ctx context.Context, wagerID string) (*SettleResponse, error) {
	w, err := s.repo.Get(ctx, wagerID)
	if err != nil {
		return nil, err
	}

	switch w.Status {
	case StatusSettled:
		return settleResponse(w), nil
	case StatusDrawn:
		// proceed
	default:
		return nil, fmt.Errorf("%w: cannot settle wager in status %s", ErrStateConflict, w.Status)
	}

	var table *payout.PrizeTable
	if w.Variant == payout.VariantWheelSpin {
		table, err = s.tables.GetTable(ctx, w.PrizeTableVersion)
		if err != nil {
			return nil, fmt.Errorf("failed to load prize table version %d: %w", w.PrizeTableVersion, err)
		}
	}

	result, err := payout.Evaluate(w.Variant, w.Choice, *w.DrawnValue, w.Stake, table)
	if err != nil {
		return nil, err
	}

	// Credit before the status flip: the credit is idempotent on the
	// wager ID, so a crash between the two is safe to retry, while the
	// reverse order could strand a SETTLED wager that never paid out.
	if err := s.ledger.Settle(ctx, w.PlayerID, w.WagerID, result.Payout); err != nil {
		return nil, err
	}

	settledAt := time.Now()
	moved, err := s.repo.MarkSettled(ctx, wagerID, result.Multiplier, result.Payout, result.PrizeLabel, settledAt)
	if err != nil {
		return nil, err
	}
	if !moved {
		w, err = s.repo.Get(ctx, wagerID)
		if err != nil {
			return nil, err
		}
		if w.Status != StatusSettled {
			return nil, fmt.Errorf("%w: cannot settle wager in status %s", ErrStateConflict, w.Status)
		}
		return settleResponse(w), nil
	}

	w.Status = StatusSettled
	w.Multiplier = &result.Multiplier
	w.Payout = &result.Payout
	w.PrizeLabel = result.PrizeLabel
	w.SettledAt = &settledAt
	return settleResponse(w), nil
}

// Cancel aborts a PENDING wager and refunds its reservation. Once
// COMMITTED a wager cannot be cancelled; it must run to SETTLED.
func (s *Service) Cancel(ctx context.Context, wagerID string) error {
	w, err := s.repo.Get(ctx, wagerID)
	if err != nil {
		return err
	}
	if w.Status != StatusPending {
		return fmt.Errorf("%w: cannot cancel wager in status %s", ErrStateConflict, w.Status)
	}

	// Refund before the status flip, same discipline as Settle: the
	// credit is idempotent on the wager ID, so a fault between the two
	// leaves the wager PENDING and a retry collapses onto the existing
	// credit. The reverse order would strand a FAILED wager whose
	// stake was never returned.
	if err := s.ledger.Settle(ctx, w.PlayerID, w.WagerID, w.Stake); err != nil {
		return fmt.Errorf("failed to refund cancelled wager %s: %w", wagerID, err)
	}

	moved, err := s.repo.TransitionStatus(ctx, wagerID, StatusPending, StatusFailed)
	if err != nil {
		return err
	}
	if !moved {
		return fmt.Errorf("%w: wager %s left PENDING concurrently", ErrStateConflict, wagerID)
	}
	return nil
}

// Get returns the wager for public consumption; the model keeps the
// server seed out of serialization, so this is safe at any status.
func (s *Service) Get(ctx context.Context, wagerID string) (*Wager, error) {
	return s.repo.Get(ctx, wagerID)
}

// Verify recomputes the commitment for a settled wager so callers can
// confirm the seed on record matches the hash published at commit time.
func (s *Service) Verify(ctx context.Context, wagerID string) (*VerifyResponse, error) {
	w, err := s.repo.Get(ctx, wagerID)
	if err != nil {
		return nil, err
	}
	if w.Status != StatusSettled {
		return nil, fmt.Errorf("%w: wager %s is %s", ErrNotSettled, wagerID, w.Status)
	}

	return &VerifyResponse{
		WagerID:            w.WagerID,
		Valid:              fair.Verify(w.ServerSeed, w.ClientSeed, w.WagerID, w.SeedCommitmentHash),
		ServerSeed:         w.ServerSeed,
		ClientSeed:         w.ClientSeed,
		SeedCommitmentHash: w.SeedCommitmentHash,
		DrawnValue:         *w.DrawnValue,
	}, nil
}

func settleResponse(w *Wager) *SettleResponse {
	return &SettleResponse{
		WagerID:            w.WagerID,
		Status:             w.Status,
		DrawnValue:         *w.DrawnValue,
		Multiplier:         *w.Multiplier,
		Payout:             *w.Payout,
		PrizeLabel:         w.PrizeLabel,
		ServerSeed:         w.ServerSeed,
		ClientSeed:         w.ClientSeed,
		SeedCommitmentHash: w.SeedCommitmentHash,
	}
}
