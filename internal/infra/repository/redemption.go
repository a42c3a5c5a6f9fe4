package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"spa-loyalty/internal/domain/redemption"
	"spa-loyalty/internal/domain/wallet"
	"spa-loyalty/internal/infra"
	"spa-loyalty/internal/infra/db"
	"spa-loyalty/internal/usecase/shared"
)

type RedemptionRepository struct {
	db db.DBTX
}

func NewRedemptionRepository(dbtx db.DBTX) shared.RedemptionRepository {
	return &RedemptionRepository{db: dbtx}
}

const redemptionColumns = `id, phone, coupons_used, status, note, resolved_at, created_at, updated_at`

const findPendingRedemptionQuery = `
SELECT ` + redemptionColumns + `
FROM coupon_redemptions
WHERE phone = $1 AND status = 'pending'
`

func (r *RedemptionRepository) FindPendingByPhone(ctx context.Context, phone wallet.Phone) (*redemption.Redemption, error) {
	row := r.db.QueryRow(ctx, findPendingRedemptionQuery, phone.String())
	rec, err := scanRedemption(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("pending redemption not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find pending redemption", err)
	}
	return rec, nil
}

const insertRedemptionQuery = `
INSERT INTO coupon_redemptions (id, phone, coupons_used, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

func (r *RedemptionRepository) Insert(ctx context.Context, rec *redemption.Redemption) error {
	_, err := r.db.Exec(ctx, insertRedemptionQuery,
		rec.ID(),
		rec.Phone().String(),
		rec.CouponsUsed(),
		string(rec.Status()),
		rec.CreatedAt(),
		rec.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert redemption", err)
	}
	return nil
}

const completeRedemptionQuery = `
UPDATE coupon_redemptions
SET status = 'completed', resolved_at = $2, updated_at = $2
WHERE id = $1 AND status = 'pending'
RETURNING ` + redemptionColumns + `
`

// Complete guards on status in the statement itself; a redemption that
// is absent or already resolved falls through as not-found.
func (r *RedemptionRepository) Complete(ctx context.Context, id uuid.UUID, at time.Time) (*redemption.Redemption, error) {
	row := r.db.QueryRow(ctx, completeRedemptionQuery, id, at)
	rec, err := scanRedemption(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("redemption not found or not pending", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to complete redemption", err)
	}
	return rec, nil
}

const rejectRedemptionQuery = `
UPDATE coupon_redemptions
SET status = 'rejected', note = $2, resolved_at = $3, updated_at = $3
WHERE id = $1 AND status = 'pending'
RETURNING ` + redemptionColumns + `
`

func (r *RedemptionRepository) Reject(ctx context.Context, id uuid.UUID, note string, at time.Time) (*redemption.Redemption, error) {
	row := r.db.QueryRow(ctx, rejectRedemptionQuery, id, note, at)
	rec, err := scanRedemption(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("redemption not found or not pending", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to reject redemption", err)
	}
	return rec, nil
}

func scanRedemption(row pgx.Row) (*redemption.Redemption, error) {
	var (
		id          uuid.UUID
		phone       string
		couponsUsed int
		status      string
		note        *string
		resolvedAt  *time.Time
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&id, &phone, &couponsUsed, &status, &note, &resolvedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return redemption.Reconstruct(
		id,
		wallet.Phone(phone),
		couponsUsed,
		redemption.Status(status),
		note,
		resolvedAt,
		createdAt,
		updatedAt,
	), nil
}
