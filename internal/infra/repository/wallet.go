package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"spa-loyalty/internal/domain/wallet"
	"spa-loyalty/internal/infra"
	"spa-loyalty/internal/infra/db"
	"spa-loyalty/internal/usecase/shared"
)

type WalletRepository struct {
	db db.DBTX
}

func NewWalletRepository(dbtx db.DBTX) shared.WalletRepository {
	return &WalletRepository{db: dbtx}
}

const findWalletQuery = `
SELECT phone, coupon_count, total_earned, total_redeemed, name, marketing_opt_in, last_message_at, created_at, updated_at
FROM wallets
WHERE phone = $1
`

const findWalletForUpdateQuery = findWalletQuery + `
FOR UPDATE
`

func (r *WalletRepository) FindByPhone(ctx context.Context, phone wallet.Phone) (*wallet.Wallet, error) {
	return r.findWallet(ctx, findWalletQuery, phone)
}

func (r *WalletRepository) FindByPhoneForUpdate(ctx context.Context, phone wallet.Phone) (*wallet.Wallet, error) {
	return r.findWallet(ctx, findWalletForUpdateQuery, phone)
}

func (r *WalletRepository) findWallet(ctx context.Context, query string, phone wallet.Phone) (*wallet.Wallet, error) {
	var (
		rawPhone       string
		couponCount    int
		totalEarned    int
		totalRedeemed  int
		name           *string
		marketingOptIn bool
		lastMessageAt  *time.Time
		createdAt      time.Time
		updatedAt      time.Time
	)
	err := r.db.QueryRow(ctx, query, phone.String()).Scan(
		&rawPhone, &couponCount, &totalEarned, &totalRedeemed, &name, &marketingOptIn, &lastMessageAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("wallet not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find wallet", err)
	}

	return wallet.Reconstruct(
		wallet.Phone(rawPhone),
		couponCount,
		totalEarned,
		totalRedeemed,
		name,
		marketingOptIn,
		lastMessageAt,
		createdAt,
		updatedAt,
	), nil
}

const creditWalletQuery = `
INSERT INTO wallets (phone, coupon_count, total_earned, last_message_at, created_at, updated_at)
VALUES ($1, $2, $2, $3, $3, $3)
ON CONFLICT (phone) DO UPDATE
SET coupon_count = wallets.coupon_count + EXCLUDED.coupon_count,
    total_earned = wallets.total_earned + EXCLUDED.total_earned,
    last_message_at = EXCLUDED.last_message_at,
    updated_at = EXCLUDED.updated_at
RETURNING coupon_count
`

// Credit upserts so the first consumed token creates the wallet. Every
// credit grows the lifetime total_earned alongside the balance. Credits
// are message-driven, so the upsert also stamps last_message_at.
func (r *WalletRepository) Credit(ctx context.Context, phone wallet.Phone, amount int, at time.Time) (int, error) {
	var balance int
	err := r.db.QueryRow(ctx, creditWalletQuery, phone.String(), amount, at).Scan(&balance)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to credit wallet", err)
	}
	return balance, nil
}

const debitWalletQuery = `
UPDATE wallets
SET coupon_count = coupon_count - $2,
    total_redeemed = total_redeemed + $2,
    updated_at = $3
WHERE phone = $1 AND coupon_count >= $2
RETURNING coupon_count
`

// Debit is guarded: the balance check and the subtraction are one
// statement, so a concurrent debit cannot drive the count below zero.
// total_redeemed grows with every successful debit and is never rolled
// back by a refund: the refund restores only the spendable balance.
func (r *WalletRepository) Debit(ctx context.Context, phone wallet.Phone, amount int, at time.Time) (int, error) {
	var balance int
	err := r.db.QueryRow(ctx, debitWalletQuery, phone.String(), amount, at).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, infra.WrapRepoErr("insufficient balance or wallet missing", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to debit wallet", err)
	}
	return balance, nil
}

const refundWalletQuery = `
UPDATE wallets
SET coupon_count = coupon_count + $2, updated_at = $3
WHERE phone = $1
RETURNING coupon_count
`

func (r *WalletRepository) Refund(ctx context.Context, phone wallet.Phone, amount int, at time.Time) (int, error) {
	var balance int
	err := r.db.QueryRow(ctx, refundWalletQuery, phone.String(), amount, at).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, infra.WrapRepoErr("wallet not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to refund wallet", err)
	}
	return balance, nil
}
