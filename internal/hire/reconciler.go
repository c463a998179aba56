package hire

import (
	"context"
	"log"
	"time"

	"github.com/sudo-init-do/gigflow/internal/models"
	"github.com/sudo-init-do/gigflow/internal/store"
)

const (
	sweepBatchSize  = 100
	defaultInterval = 30 * time.Second
)

// Reconciler heals gigs left half-transitioned by a crash or a transient
// store failure between the hire CAS and the bid status writes: the winning
// bid is marked hired and every other pending bid rejected. All writes are
// conditional on the bid still being pending, so re-running a sweep over an
// already-consistent gig changes nothing.
type Reconciler struct {
	store    store.EntityStore
	interval time.Duration
}

func NewReconciler(st store.EntityStore, interval time.Duration) *Reconciler {
	return &Reconciler{store: st, interval: interval}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	interval := r.interval
	if interval <= 0 {
		interval = defaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				log.Printf("reconciler: sweep failed: %v", err)
			}
		}
	}
}

// Sweep completes reconciliation for every assigned gig that still has
// pending bids.
func (r *Reconciler) Sweep(ctx context.Context) error {
	ids, err := r.store.ListUnreconciledGigs(ctx, sweepBatchSize)
	if err != nil {
		return err
	}
	for _, gigID := range ids {
		gig, err := r.store.GetGig(ctx, gigID)
		if err != nil {
			log.Printf("reconciler: load gig %s: %v", gigID, err)
			continue
		}
		if gig.Status != models.GigAssigned || gig.HiredBidID == "" {
			continue
		}
		if ok, err := r.store.SetBidStatus(ctx, gig.HiredBidID, models.BidHired); err != nil {
			log.Printf("reconciler: mark bid %s hired: %v", gig.HiredBidID, err)
		} else if ok {
			log.Printf("reconciler: completed hired mark for gig %s bid %s", gigID, gig.HiredBidID)
		}
		if n, err := r.store.RejectPendingSiblings(ctx, gigID, gig.HiredBidID); err != nil {
			log.Printf("reconciler: reject siblings on gig %s: %v", gigID, err)
		} else if n > 0 {
			log.Printf("reconciler: rejected %d stale pending bid(s) on gig %s", n, gigID)
		}
	}
	return nil
}
