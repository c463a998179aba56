package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sudo-init-do/gigflow/internal/models"
)

// PostgresStore implements EntityStore on a pgx connection pool. The
// conditional writes rely on single UPDATE statements guarded by the current
// status value; Postgres row-level atomicity is what makes the hire CAS a
// true compare-and-swap.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.Email, u.Password, u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, password, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, password, created_at FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) CreateGig(ctx context.Context, g *models.Gig) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO gigs (id, owner_id, title, description, budget, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		g.ID, g.OwnerID, g.Title, g.Description, g.Budget, g.Status, g.CreatedAt, g.UpdatedAt,
	)
	return err
}

const gigColumns = `id, owner_id, title, description, budget, status, COALESCE(hired_bid_id::text, ''), created_at, updated_at`

func scanGig(row pgx.Row) (*models.Gig, error) {
	var g models.Gig
	err := row.Scan(&g.ID, &g.OwnerID, &g.Title, &g.Description, &g.Budget,
		&g.Status, &g.HiredBidID, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *PostgresStore) GetGig(ctx context.Context, id string) (*models.Gig, error) {
	return scanGig(s.pool.QueryRow(ctx,
		`SELECT `+gigColumns+` FROM gigs WHERE id = $1`, id))
}

func (s *PostgresStore) ListOpenGigs(ctx context.Context, search string) ([]models.Gig, error) {
	query := `SELECT ` + gigColumns + ` FROM gigs WHERE status = 'open'`
	args := []interface{}{}
	if search != "" {
		query += ` AND title ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY created_at DESC`
	return s.collectGigs(ctx, query, args...)
}

func (s *PostgresStore) ListGigsByOwner(ctx context.Context, ownerID string) ([]models.Gig, error) {
	return s.collectGigs(ctx,
		`SELECT `+gigColumns+` FROM gigs WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (s *PostgresStore) collectGigs(ctx context.Context, query string, args ...interface{}) ([]models.Gig, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gigs []models.Gig
	for rows.Next() {
		g, err := scanGig(rows)
		if err != nil {
			return nil, err
		}
		gigs = append(gigs, *g)
	}
	return gigs, rows.Err()
}

func (s *PostgresStore) CreateBid(ctx context.Context, b *models.Bid) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO bids (id, gig_id, freelancer_id, price, message, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.GigID, b.FreelancerID, b.Price, b.Message, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

const bidColumns = `id, gig_id, freelancer_id, price, message, status, created_at, updated_at`

func scanBid(row pgx.Row) (*models.Bid, error) {
	var b models.Bid
	err := row.Scan(&b.ID, &b.GigID, &b.FreelancerID, &b.Price, &b.Message,
		&b.Status, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *PostgresStore) GetBid(ctx context.Context, id string) (*models.Bid, error) {
	return scanBid(s.pool.QueryRow(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE id = $1`, id))
}

func (s *PostgresStore) ListBidsForGig(ctx context.Context, gigID string) ([]models.Bid, error) {
	return s.collectBids(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE gig_id = $1 ORDER BY created_at DESC`, gigID)
}

func (s *PostgresStore) ListBidsByFreelancer(ctx context.Context, freelancerID string) ([]models.Bid, error) {
	return s.collectBids(ctx,
		`SELECT `+bidColumns+` FROM bids WHERE freelancer_id = $1 ORDER BY created_at DESC`, freelancerID)
}

func (s *PostgresStore) collectBids(ctx context.Context, query string, args ...interface{}) ([]models.Bid, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, *b)
	}
	return bids, rows.Err()
}

// AssignGig flips the gig open -> assigned only if it is still open at write
// time. RowsAffected == 0 means another hire attempt got there first.
func (s *PostgresStore) AssignGig(ctx context.Context, gigID, bidID string) (bool, error) {
	res, err := s.pool.Exec(ctx,
		`UPDATE gigs SET status = 'assigned', hired_bid_id = $2, updated_at = NOW()
		 WHERE id = $1 AND status = 'open'`,
		gigID, bidID,
	)
	if err != nil {
		return false, fmt.Errorf("assign gig: %w", err)
	}
	return res.RowsAffected() == 1, nil
}

func (s *PostgresStore) SetBidStatus(ctx context.Context, bidID string, to models.BidStatus) (bool, error) {
	res, err := s.pool.Exec(ctx,
		`UPDATE bids SET status = $2, updated_at = NOW()
		 WHERE id = $1 AND status = 'pending'`,
		bidID, to,
	)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (s *PostgresStore) RejectPendingSiblings(ctx context.Context, gigID, winnerBidID string) (int, error) {
	res, err := s.pool.Exec(ctx,
		`UPDATE bids SET status = 'rejected', updated_at = NOW()
		 WHERE gig_id = $1 AND id <> $2 AND status = 'pending'`,
		gigID, winnerBidID,
	)
	if err != nil {
		return 0, err
	}
	return int(res.RowsAffected()), nil
}

func (s *PostgresStore) ListUnreconciledGigs(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT DISTINCT g.id FROM gigs g
		 JOIN bids b ON b.gig_id = g.id
		 WHERE g.status = 'assigned' AND b.status = 'pending'
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
