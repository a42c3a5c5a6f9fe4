package shared

import (
	"context"
	"time"

	"github.com/google/uuid"

	"spa-loyalty/internal/domain/event"
	"spa-loyalty/internal/domain/redemption"
	"spa-loyalty/internal/domain/token"
	"spa-loyalty/internal/domain/wallet"
)

// UnitOfWork provides per-operation transaction scope. Each command opens
// its own transaction via Within; nothing shares a global handle.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// RateLimits returns a repository bound to the pool, outside any
	// transaction. Quota consumed before a command must survive that
	// command's rollback.
	RateLimits() RateLimitRepository
}

// Tx exposes the repositories participating in one transaction.
type Tx interface {
	Tokens() TokenRepository
	Wallets() WalletRepository
	Redemptions() RedemptionRepository
	Events() EventRepository
}

type TokenRepository interface {
	Insert(ctx context.Context, t *token.Token) error
	// FindByCodeForUpdate locks the token row for the rest of the
	// transaction. Returns KindNotFound when absent.
	FindByCodeForUpdate(ctx context.Context, code token.Code) (*token.Token, error)
	MarkUsed(ctx context.Context, code token.Code, phone wallet.Phone, at time.Time) error
}

type WalletRepository interface {
	FindByPhone(ctx context.Context, phone wallet.Phone) (*wallet.Wallet, error)
	// FindByPhoneForUpdate locks the wallet row, serializing concurrent
	// claims for the same phone. Returns KindNotFound when absent.
	FindByPhoneForUpdate(ctx context.Context, phone wallet.Phone) (*wallet.Wallet, error)
	// Credit upserts the wallet and returns the new balance.
	Credit(ctx context.Context, phone wallet.Phone, amount int, at time.Time) (int, error)
	// Debit subtracts amount only when the balance covers it and returns
	// the new balance. Returns KindNotFound when the guard fails.
	Debit(ctx context.Context, phone wallet.Phone, amount int, at time.Time) (int, error)
	Refund(ctx context.Context, phone wallet.Phone, amount int, at time.Time) (int, error)
}

type RedemptionRepository interface {
	FindPendingByPhone(ctx context.Context, phone wallet.Phone) (*redemption.Redemption, error)
	Insert(ctx context.Context, r *redemption.Redemption) error
	// Complete transitions pending -> completed and returns the updated
	// row. Returns KindNotFound when the redemption is absent or not pending.
	Complete(ctx context.Context, id uuid.UUID, at time.Time) (*redemption.Redemption, error)
	// Reject transitions pending -> rejected with a note and returns the
	// updated row. Returns KindNotFound when absent or not pending.
	Reject(ctx context.Context, id uuid.UUID, note string, at time.Time) (*redemption.Redemption, error)
}

type EventRepository interface {
	Insert(ctx context.Context, e *event.Event) error
}

type RateLimitRepository interface {
	// Increment bumps the fixed-window counter for (identity, operation)
	// in a single atomic statement and returns the post-increment count
	// together with the window's reset time.
	Increment(ctx context.Context, identity, operation string, window time.Duration, now time.Time) (int, time.Time, error)
	// DeleteExpired removes counters whose window has passed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
