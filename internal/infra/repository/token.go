package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"spa-loyalty/internal/domain/token"
	"spa-loyalty/internal/domain/wallet"
	"spa-loyalty/internal/infra"
	"spa-loyalty/internal/infra/db"
	"spa-loyalty/internal/usecase/shared"
)

type TokenRepository struct {
	db db.DBTX
}

func NewTokenRepository(dbtx db.DBTX) shared.TokenRepository {
	return &TokenRepository{db: dbtx}
}

const insertTokenQuery = `
INSERT INTO coupon_tokens (code, status, kiosk_id, issued_for, expires_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func (r *TokenRepository) Insert(ctx context.Context, t *token.Token) error {
	_, err := r.db.Exec(ctx, insertTokenQuery,
		t.Code().String(),
		string(t.Status()),
		t.KioskID(),
		t.IssuedFor(),
		t.ExpiresAt(),
		t.CreatedAt(),
		t.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert token", err)
	}
	return nil
}

const findTokenForUpdateQuery = `
SELECT code, status, kiosk_id, issued_for, used_by, expires_at, used_at, created_at, updated_at
FROM coupon_tokens
WHERE code = $1
FOR UPDATE
`

func (r *TokenRepository) FindByCodeForUpdate(ctx context.Context, code token.Code) (*token.Token, error) {
	var (
		rawCode   string
		status    string
		kioskID   *string
		issuedFor *string
		usedBy    *string
		expiresAt time.Time
		usedAt    *time.Time
		createdAt time.Time
		updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, findTokenForUpdateQuery, code.String()).Scan(
		&rawCode, &status, &kioskID, &issuedFor, &usedBy, &expiresAt, &usedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("token not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find token by code", err)
	}

	return token.Reconstruct(
		token.Code(rawCode),
		token.Status(status),
		kioskID,
		issuedFor,
		usedBy,
		expiresAt,
		usedAt,
		createdAt,
		updatedAt,
	), nil
}

const markTokenUsedQuery = `
UPDATE coupon_tokens
SET status = 'used', used_by = $2, used_at = $3, updated_at = $3
WHERE code = $1 AND status = 'issued'
`

func (r *TokenRepository) MarkUsed(ctx context.Context, code token.Code, phone wallet.Phone, at time.Time) error {
	tag, err := r.db.Exec(ctx, markTokenUsedQuery, code.String(), phone.String(), at)
	if err != nil {
		return infra.WrapRepoErr("failed to mark token used", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("token not in issued state", nil, infra.KindNotFound)
	}
	return nil
}
