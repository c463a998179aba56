package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/sudo-init-do/gigflow/internal/models"
)

// MemoryStore is an in-process EntityStore with the same conditional-write
// semantics as PostgresStore. It backs STORE_DRIVER=memory for local runs and
// the test suite; a single mutex makes every method atomic, which is exactly
// the guarantee the hire CAS needs.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	gigs  map[string]*models.Gig
	bids  map[string]*models.Bid
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*models.User),
		gigs:  make(map[string]*models.Gig),
		bids:  make(map[string]*models.Bid),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return ErrDuplicate
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateGig(_ context.Context, g *models.Gig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *g
	s.gigs[g.ID] = &cp
	return nil
}

func (s *MemoryStore) GetGig(_ context.Context, id string) (*models.Gig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gigs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *MemoryStore) ListOpenGigs(_ context.Context, search string) ([]models.Gig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var gigs []models.Gig
	for _, g := range s.gigs {
		if g.Status != models.GigOpen {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(g.Title), strings.ToLower(search)) {
			continue
		}
		gigs = append(gigs, *g)
	}
	sortGigsNewestFirst(gigs)
	return gigs, nil
}

func (s *MemoryStore) ListGigsByOwner(_ context.Context, ownerID string) ([]models.Gig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var gigs []models.Gig
	for _, g := range s.gigs {
		if g.OwnerID == ownerID {
			gigs = append(gigs, *g)
		}
	}
	sortGigsNewestFirst(gigs)
	return gigs, nil
}

func (s *MemoryStore) CreateBid(_ context.Context, b *models.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.bids {
		if existing.GigID == b.GigID && existing.FreelancerID == b.FreelancerID {
			return ErrDuplicate
		}
	}
	cp := *b
	s.bids[b.ID] = &cp
	return nil
}

func (s *MemoryStore) GetBid(_ context.Context, id string) (*models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bids[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *MemoryStore) ListBidsForGig(_ context.Context, gigID string) ([]models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bids []models.Bid
	for _, b := range s.bids {
		if b.GigID == gigID {
			bids = append(bids, *b)
		}
	}
	sortBidsNewestFirst(bids)
	return bids, nil
}

func (s *MemoryStore) ListBidsByFreelancer(_ context.Context, freelancerID string) ([]models.Bid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bids []models.Bid
	for _, b := range s.bids {
		if b.FreelancerID == freelancerID {
			bids = append(bids, *b)
		}
	}
	sortBidsNewestFirst(bids)
	return bids, nil
}

func (s *MemoryStore) AssignGig(_ context.Context, gigID, bidID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gigs[gigID]
	if !ok {
		return false, ErrNotFound
	}
	if g.Status != models.GigOpen {
		return false, nil
	}
	g.Status = models.GigAssigned
	g.HiredBidID = bidID
	return true, nil
}

func (s *MemoryStore) SetBidStatus(_ context.Context, bidID string, to models.BidStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bids[bidID]
	if !ok {
		return false, ErrNotFound
	}
	if b.Status != models.BidPending {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (s *MemoryStore) RejectPendingSiblings(_ context.Context, gigID, winnerBidID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bids {
		if b.GigID == gigID && b.ID != winnerBidID && b.Status == models.BidPending {
			b.Status = models.BidRejected
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) ListUnreconciledGigs(_ context.Context, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var ids []string
	for _, b := range s.bids {
		if b.Status != models.BidPending {
			continue
		}
		g, ok := s.gigs[b.GigID]
		if !ok || g.Status != models.GigAssigned || seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		ids = append(ids, g.ID)
		if len(ids) == limit {
			break
		}
	}
	return ids, nil
}

func sortGigsNewestFirst(gigs []models.Gig) {
	sort.Slice(gigs, func(i, j int) bool {
		if gigs[i].CreatedAt.Equal(gigs[j].CreatedAt) {
			return gigs[i].ID < gigs[j].ID
		}
		return gigs[i].CreatedAt.After(gigs[j].CreatedAt)
	})
}

func sortBidsNewestFirst(bids []models.Bid) {
	sort.Slice(bids, func(i, j int) bool {
		if bids[i].CreatedAt.Equal(bids[j].CreatedAt) {
			return bids[i].ID < bids[j].ID
		}
		return bids[i].CreatedAt.After(bids[j].CreatedAt)
	})
}
