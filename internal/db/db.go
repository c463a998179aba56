package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx pool, verifies it, and makes sure the schema exists.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := ensureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// ensureSchema creates the tables and indexes the handlers rely on. The
// unique index on (gig_id, freelancer_id) is what enforces one bid per
// freelancer per gig at the storage level.
func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
        );

        CREATE TABLE IF NOT EXISTS gigs (
            id UUID PRIMARY KEY,
            owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            title TEXT NOT NULL,
            description TEXT NOT NULL,
            budget BIGINT NOT NULL,
            status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open','assigned')),
            hired_bid_id UUID NULL,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
        );
        CREATE INDEX IF NOT EXISTS idx_gigs_status_created ON gigs(status, created_at DESC);
        CREATE INDEX IF NOT EXISTS idx_gigs_owner ON gigs(owner_id);

        CREATE TABLE IF NOT EXISTS bids (
            id UUID PRIMARY KEY,
            gig_id UUID NOT NULL REFERENCES gigs(id) ON DELETE CASCADE,
            freelancer_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            price BIGINT NOT NULL,
            message TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','hired','rejected')),
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP,
            UNIQUE (gig_id, freelancer_id)
        );
        CREATE INDEX IF NOT EXISTS idx_bids_gig ON bids(gig_id);
        CREATE INDEX IF NOT EXISTS idx_bids_freelancer ON bids(freelancer_id);
        CREATE INDEX IF NOT EXISTS idx_bids_gig_pending ON bids(gig_id) WHERE status = 'pending';
    `)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
