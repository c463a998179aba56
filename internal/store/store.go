package store

import (
	"context"
	"errors"

	"github.com/sudo-init-do/gigflow/internal/models"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a uniqueness constraint is violated
	// (email already registered, or a second bid on the same gig by the
	// same freelancer).
	ErrDuplicate = errors.New("duplicate record")
)

// EntityStore is the durable home of users, gigs and bids. Gig and Bid status
// fields are only ever written through the conditional methods below; plain
// read-then-write updates on them are deliberately not part of the interface.
type EntityStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateGig(ctx context.Context, g *models.Gig) error
	GetGig(ctx context.Context, id string) (*models.Gig, error)
	ListOpenGigs(ctx context.Context, search string) ([]models.Gig, error)
	ListGigsByOwner(ctx context.Context, ownerID string) ([]models.Gig, error)

	CreateBid(ctx context.Context, b *models.Bid) error
	GetBid(ctx context.Context, id string) (*models.Bid, error)
	ListBidsForGig(ctx context.Context, gigID string) ([]models.Bid, error)
	ListBidsByFreelancer(ctx context.Context, freelancerID string) ([]models.Bid, error)

	// AssignGig is the hire CAS: it sets status=assigned and hired_bid_id
	// in a single conditional write that only applies while the gig's
	// persisted status is still open. Returns false when the condition
	// failed, i.e. some other attempt already won.
	AssignGig(ctx context.Context, gigID, bidID string) (bool, error)

	// SetBidStatus transitions a bid pending -> to. Returns false without
	// error when the bid was no longer pending; hired and rejected are
	// terminal and a repeated apply is a no-op.
	SetBidStatus(ctx context.Context, bidID string, to models.BidStatus) (bool, error)

	// RejectPendingSiblings rejects every still-pending bid on the gig
	// except the winner. Returns the number of bids transitioned.
	RejectPendingSiblings(ctx context.Context, gigID, winnerBidID string) (int, error)

	// ListUnreconciledGigs returns ids of assigned gigs that still have
	// pending bids, i.e. gigs whose post-hire reconciliation has not
	// completed. Used by the background reconciler.
	ListUnreconciledGigs(ctx context.Context, limit int) ([]string, error)
}
