package store

import (
	"context"
	"testing"
	"time"

	"github.com/sudo-init-do/gigflow/internal/models"
)

func seedGigWithBids(t *testing.T, s *MemoryStore) (gigID string, bidIDs []string) {
	t.Helper()
	ctx := context.Background()
	gig := &models.Gig{ID: "g1", OwnerID: "u1", Title: "Build a landing page", Status: models.GigOpen, CreatedAt: time.Now()}
	if err := s.CreateGig(ctx, gig); err != nil {
		t.Fatalf("create gig: %v", err)
	}
	for i, id := range []string{"b1", "b2", "b3"} {
		bid := &models.Bid{ID: id, GigID: gig.ID, FreelancerID: "f" + id, Price: int64(100 - i), Status: models.BidPending}
		if err := s.CreateBid(ctx, bid); err != nil {
			t.Fatalf("create bid %s: %v", id, err)
		}
	}
	return gig.ID, []string{"b1", "b2", "b3"}
}

func TestAssignGigIsCompareAndSwap(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	gigID, bidIDs := seedGigWithBids(t, s)

	won, err := s.AssignGig(ctx, gigID, bidIDs[0])
	if err != nil || !won {
		t.Fatalf("first assign: won=%v err=%v", won, err)
	}
	won, err = s.AssignGig(ctx, gigID, bidIDs[1])
	if err != nil {
		t.Fatalf("second assign: %v", err)
	}
	if won {
		t.Fatal("second assign succeeded; CAS must fail once the gig is assigned")
	}

	gig, err := s.GetGig(ctx, gigID)
	if err != nil {
		t.Fatalf("get gig: %v", err)
	}
	if gig.Status != models.GigAssigned || gig.HiredBidID != bidIDs[0] {
		t.Fatalf("gig = %s/%s, want assigned/%s", gig.Status, gig.HiredBidID, bidIDs[0])
	}
}

func TestSetBidStatusTerminal(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, bidIDs := seedGigWithBids(t, s)

	ok, err := s.SetBidStatus(ctx, bidIDs[0], models.BidHired)
	if err != nil || !ok {
		t.Fatalf("pending -> hired: ok=%v err=%v", ok, err)
	}
	// hired is terminal; a second transition is a no-op
	ok, err = s.SetBidStatus(ctx, bidIDs[0], models.BidRejected)
	if err != nil {
		t.Fatalf("second transition: %v", err)
	}
	if ok {
		t.Fatal("transition out of hired applied; terminal states must be immutable")
	}
	bid, _ := s.GetBid(ctx, bidIDs[0])
	if bid.Status != models.BidHired {
		t.Fatalf("bid status = %s, want hired", bid.Status)
	}
}

func TestCreateBidDuplicate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	gigID, _ := seedGigWithBids(t, s)

	dup := &models.Bid{ID: "b4", GigID: gigID, FreelancerID: "fb1", Price: 50, Status: models.BidPending}
	if err := s.CreateBid(ctx, dup); err != ErrDuplicate {
		t.Fatalf("duplicate bid err = %v, want ErrDuplicate", err)
	}
}

func TestRejectPendingSiblings(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	gigID, bidIDs := seedGigWithBids(t, s)

	n, err := s.RejectPendingSiblings(ctx, gigID, bidIDs[0])
	if err != nil {
		t.Fatalf("reject siblings: %v", err)
	}
	if n != 2 {
		t.Fatalf("rejected %d bids, want 2", n)
	}
	// idempotent: nothing pending is left
	n, _ = s.RejectPendingSiblings(ctx, gigID, bidIDs[0])
	if n != 0 {
		t.Fatalf("second pass rejected %d bids, want 0", n)
	}
	winner, _ := s.GetBid(ctx, bidIDs[0])
	if winner.Status != models.BidPending {
		t.Fatalf("winner status = %s, want pending (untouched)", winner.Status)
	}
}

func TestListUnreconciledGigs(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	gigID, bidIDs := seedGigWithBids(t, s)

	ids, err := s.ListUnreconciledGigs(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("open gig reported unreconciled: %v", ids)
	}

	if _, err := s.AssignGig(ctx, gigID, bidIDs[0]); err != nil {
		t.Fatalf("assign: %v", err)
	}
	ids, _ = s.ListUnreconciledGigs(ctx, 10)
	if len(ids) != 1 || ids[0] != gigID {
		t.Fatalf("unreconciled = %v, want [%s]", ids, gigID)
	}

	if _, err := s.SetBidStatus(ctx, bidIDs[0], models.BidHired); err != nil {
		t.Fatalf("mark hired: %v", err)
	}
	if _, err := s.RejectPendingSiblings(ctx, gigID, bidIDs[0]); err != nil {
		t.Fatalf("reject siblings: %v", err)
	}
	ids, _ = s.ListUnreconciledGigs(ctx, 10)
	if len(ids) != 0 {
		t.Fatalf("reconciled gig still reported: %v", ids)
	}
}
