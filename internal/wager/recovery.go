package wager

import (
	"context"
	"log"
	"time"
)

// Recovery resumes wagers that stalled between state-machine steps, e.g.
// when the worker handling a draw died. Transitions are idempotent, so
// re-driving a wager from its last persisted status never duplicates a
// draw or a payout.
type Recovery struct {
	service    *Service
	repo       WagerRepository
	interval   time.Duration
	staleAfter time.Duration
}

func NewRecovery(service *Service, repo WagerRepository, interval, staleAfter time.Duration) *Recovery {
	return &Recovery{
		service:    service,
		repo:       repo,
		interval:   interval,
		staleAfter: staleAfter,
	}
}

// Start runs the sweep loop until the context is cancelled.
func (r *Recovery) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.SweepOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// SweepOnce drives every stale wager forward: COMMITTED and DRAWN wagers
// run to SETTLED, PENDING stragglers (a crash mid-submit) are cancelled
// and refunded.
func (r *Recovery) SweepOnce(ctx context.Context) {
	cutoff := time.Now().Add(-r.staleAfter)

	stale, err := r.repo.FindStale(ctx, []Status{StatusPending, StatusCommitted, StatusDrawn}, cutoff)
	if err != nil {
		log.Printf("recovery sweep failed: %v", err)
		return
	}

	for _, w := range stale {
		switch w.Status {
		case StatusPending:
			if err := r.service.Cancel(ctx, w.WagerID); err != nil {
				log.Printf("recovery: cancel of pending wager %s failed: %v", w.WagerID, err)
			} else {
				log.Printf("recovery: cancelled stale pending wager %s", w.WagerID)
			}
		case StatusCommitted:
			if _, err := r.service.Draw(ctx, w.WagerID); err != nil {
				log.Printf("recovery: draw of wager %s failed: %v", w.WagerID, err)
				continue
			}
			fallthrough
		case StatusDrawn:
			if _, err := r.service.Settle(ctx, w.WagerID); err != nil {
				log.Printf("recovery: settle of wager %s failed: %v", w.WagerID, err)
			} else {
				log.Printf("recovery: settled stale wager %s", w.WagerID)
			}
		}
	}
}
