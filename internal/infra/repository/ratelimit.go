package repository

import (
	"context"
	"time"

	"spa-loyalty/internal/infra"
	"spa-loyalty/internal/infra/db"
	"spa-loyalty/internal/usecase/shared"
)

type RateLimitRepository struct {
	db db.DBTX
}

func NewRateLimitRepository(dbtx db.DBTX) shared.RateLimitRepository {
	return &RateLimitRepository{db: dbtx}
}

// incrementQuery resets an expired window in place instead of waiting for
// the sweeper; the CASE branches and the upsert make check-and-increment
// one atomic statement per key.
const incrementQuery = `
INSERT INTO rate_limits (identity, operation, count, reset_at)
VALUES ($1, $2, 1, $3)
ON CONFLICT (identity, operation) DO UPDATE
SET count = CASE WHEN rate_limits.reset_at <= $4 THEN 1 ELSE rate_limits.count + 1 END,
    reset_at = CASE WHEN rate_limits.reset_at <= $4 THEN $3 ELSE rate_limits.reset_at END
RETURNING count, reset_at
`

func (r *RateLimitRepository) Increment(ctx context.Context, identity, operation string, window time.Duration, now time.Time) (int, time.Time, error) {
	var (
		count   int
		resetAt time.Time
	)
	err := r.db.QueryRow(ctx, incrementQuery, identity, operation, now.Add(window), now).Scan(&count, &resetAt)
	if err != nil {
		return 0, time.Time{}, infra.WrapRepoErr("failed to increment rate limit counter", err)
	}
	return count, resetAt, nil
}

const deleteExpiredQuery = `
DELETE FROM rate_limits
WHERE reset_at <= $1
`

func (r *RateLimitRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredQuery, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired rate limit counters", err)
	}
	return tag.RowsAffected(), nil
}
