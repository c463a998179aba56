// Package hire owns the transition that moves a gig from accepting bids to
// having exactly one hired freelancer. The only synchronization point is the
// store's conditional write on the gig's status; there is no lock around
// Hire, and two concurrent calls on the same gig are decided entirely by
// which UPDATE lands first.
package hire

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sudo-init-do/gigflow/internal/models"
	"github.com/sudo-init-do/gigflow/internal/realtime"
	"github.com/sudo-init-do/gigflow/internal/store"
)

var (
	// ErrBidNotFound - the bid id does not reference an existing bid.
	ErrBidNotFound = errors.New("bid not found")
	// ErrNotOwner - the caller is not the owner of the bid's gig.
	ErrNotOwner = errors.New("only the gig owner can hire")
	// ErrGigClosed - the gig is no longer open; either it was already
	// assigned before the call or a concurrent hire won the CAS.
	ErrGigClosed = errors.New("gig already assigned")
	// ErrInconsistent - the bid references a gig that does not exist. A bid
	// must never outlive its gig, so this is a data fault, not a user error.
	ErrInconsistent = errors.New("bid references a missing gig")
)

// Notifier pushes a hire event to the freelancer's live connections.
// Delivery is best effort and never affects the outcome of Hire.
type Notifier interface {
	Publish(userID string, ev realtime.Event)
}

type Coordinator struct {
	store    store.EntityStore
	notifier Notifier
}

func NewCoordinator(st store.EntityStore, notifier Notifier) *Coordinator {
	return &Coordinator{store: st, notifier: notifier}
}

// Hire attempts to hire the freelancer behind bidID on behalf of
// requestingUserID. First writer wins: of any number of concurrent calls for
// the same gig exactly one succeeds and every other returns ErrGigClosed.
// No record is mutated on any error return.
func (c *Coordinator) Hire(ctx context.Context, bidID, requestingUserID string) (*models.HiredBidView, error) {
	bid, err := c.store.GetBid(ctx, bidID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBidNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load bid: %w", err)
	}

	gig, err := c.store.GetGig(ctx, bid.GigID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInconsistent
	}
	if err != nil {
		return nil, fmt.Errorf("load gig: %w", err)
	}

	if gig.OwnerID != requestingUserID {
		return nil, ErrNotOwner
	}
	if gig.Status != models.GigOpen {
		return nil, ErrGigClosed
	}

	// The CAS. The open check above is only a fast path; this write is the
	// decision point, conditioned on the persisted status still being open.
	won, err := c.store.AssignGig(ctx, gig.ID, bid.ID)
	if err != nil {
		return nil, fmt.Errorf("assign gig %s: %w", gig.ID, err)
	}
	if !won {
		return nil, ErrGigClosed
	}

	// Post-CAS reconciliation. Both writes are idempotent and the background
	// reconciler re-applies them if anything here fails; the gig's CAS is
	// authoritative, so failures are logged rather than surfaced.
	if ok, err := c.store.SetBidStatus(ctx, bid.ID, models.BidHired); err != nil {
		log.Printf("hire: marking bid %s hired failed, reconciler will retry: %v", bid.ID, err)
	} else if !ok {
		log.Printf("hire: bid %s was no longer pending when gig %s was assigned", bid.ID, gig.ID)
	}
	if _, err := c.store.RejectPendingSiblings(ctx, gig.ID, bid.ID); err != nil {
		log.Printf("hire: rejecting sibling bids on gig %s failed, reconciler will retry: %v", gig.ID, err)
	}

	if c.notifier != nil {
		ev := realtime.Event{
			Type:     realtime.EventHired,
			GigID:    gig.ID,
			GigTitle: gig.Title,
			BidID:    bid.ID,
			Message:  fmt.Sprintf("You have been hired for %q!", gig.Title),
		}
		// Fire and forget; Hire never waits on delivery.
		go c.notifier.Publish(bid.FreelancerID, ev)
	}

	return &models.HiredBidView{
		BidID:        bid.ID,
		GigID:        gig.ID,
		GigTitle:     gig.Title,
		FreelancerID: bid.FreelancerID,
		Price:        bid.Price,
	}, nil
}
