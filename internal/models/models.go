package models

import "time"

type (
	GigStatus string
	BidStatus string
)

const (
	GigOpen     GigStatus = "open"
	GigAssigned GigStatus = "assigned"

	BidPending  BidStatus = "pending"
	BidHired    BidStatus = "hired"
	BidRejected BidStatus = "rejected"
)

// User represents a registered account (client or freelancer; roles are
// implicit — anyone can post gigs and anyone can bid on other people's gigs).
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Gig represents a posted job. Status moves open -> assigned exactly once;
// HiredBidID is empty until then and never changes afterwards.
type Gig struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      int64     `json:"budget"`
	Status      GigStatus `json:"status"`
	HiredBidID  string    `json:"hiredBidId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Bid represents a freelancer's proposal on a gig. It references the gig by
// id only; cross-references are resolved by lookup, never by embedding.
// Status is monotone: pending -> hired or pending -> rejected, both terminal.
type Bid struct {
	ID           string    `json:"id"`
	GigID        string    `json:"gigId"`
	FreelancerID string    `json:"freelancerId"`
	Price        int64     `json:"price"`
	Message      string    `json:"message"`
	Status       BidStatus `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HiredBidView is what a successful hire call returns to the gig owner.
type HiredBidView struct {
	BidID        string `json:"bidId"`
	GigID        string `json:"gigId"`
	GigTitle     string `json:"gigTitle"`
	FreelancerID string `json:"freelancerId"`
	Price        int64  `json:"price"`
}

// BidWithGig is the freelancer-facing listing row for "my bids".
type BidWithGig struct {
	Bid
	GigTitle  string    `json:"gigTitle"`
	GigBudget int64     `json:"gigBudget"`
	GigStatus GigStatus `json:"gigStatus"`
}

// EffectiveBidStatus presents a bid's status relative to its gig's assignment
// outcome. A bid still pending on an already-assigned gig lost the hire and is
// reported rejected even if the reconciliation write has not landed yet.
func EffectiveBidStatus(gig *Gig, bid *Bid) BidStatus {
	if gig.Status == GigAssigned && bid.Status == BidPending {
		if gig.HiredBidID == bid.ID {
			return BidHired
		}
		return BidRejected
	}
	return bid.Status
}
