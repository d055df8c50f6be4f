package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/islandlabs/dreamtrack/internal/model"
)

type FulfillmentRepository interface {
	Append(ctx context.Context, dreamID, userID int64, on time.Time) error
	CountsForOwner(ctx context.Context, ownerID int64) (distinct, times int64, err error)
	CountAssists(ctx context.Context, userID int64) (int64, error)
	GlobalStats(ctx context.Context) (model.GlobalStats, error)
}

// fulfillmentRepository is the append-only done-transition ledger. Every
// read path is a pure aggregation and degrades to zero counters when the
// ledger table is absent from this schema generation.
type fulfillmentRepository struct {
	db   *sqlx.DB
	caps Capabilities
}

func NewFulfillmentRepository(db *sqlx.DB, caps Capabilities) FulfillmentRepository {
	return &fulfillmentRepository{db: db, caps: caps}
}

func (r *fulfillmentRepository) Append(ctx context.Context, dreamID, userID int64, on time.Time) error {
	if !r.caps.Fulfillments {
		slog.Warn("fulfillment ledger absent, transition not recorded",
			"dream_id", dreamID, "user_id", userID)
		return nil
	}

	query := `INSERT INTO fulfillments (dream_id, fulfilled_on, fulfilled_by) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, dreamID, on, userID)
	return err
}

// CountsForOwner reports how many distinct dreams belonging to ownerID have
// ever been fulfilled, and the total number of fulfillment events on them.
func (r *fulfillmentRepository) CountsForOwner(ctx context.Context, ownerID int64) (int64, int64, error) {
	if !r.caps.Fulfillments {
		return 0, 0, nil
	}

	query := `SELECT COUNT(DISTINCT f.dream_id), COUNT(*)
	          FROM fulfillments f
	          JOIN dreams d ON d.id = f.dream_id
	          WHERE d.user_id = $1`

	var distinct, times int64
	err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&distinct, &times)
	if err != nil {
		return 0, 0, err
	}

	return distinct, times, nil
}

// CountAssists reports how many times userID fulfilled dreams belonging to
// someone else (the buddy-assist metric).
func (r *fulfillmentRepository) CountAssists(ctx context.Context, userID int64) (int64, error) {
	if !r.caps.Fulfillments {
		return 0, nil
	}

	query := `SELECT COUNT(*)
	          FROM fulfillments f
	          JOIN dreams d ON d.id = f.dream_id
	          WHERE f.fulfilled_by = $1 AND d.user_id <> $1`

	var count int64
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *fulfillmentRepository) GlobalStats(ctx context.Context) (model.GlobalStats, error) {
	if !r.caps.Fulfillments {
		return model.GlobalStats{}, nil
	}

	query := `SELECT COUNT(*), COUNT(DISTINCT dream_id), COUNT(DISTINCT fulfilled_by) FROM fulfillments`

	var stats model.GlobalStats
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.Fulfillments, &stats.DistinctDreams, &stats.Fulfillers)
	if err != nil {
		return model.GlobalStats{}, err
	}

	return stats, nil
}
