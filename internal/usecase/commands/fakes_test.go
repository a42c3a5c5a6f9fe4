//go:build unit

package commands_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"spa-loyalty/internal/domain/event"
	"spa-loyalty/internal/domain/redemption"
	"spa-loyalty/internal/domain/token"
	"spa-loyalty/internal/domain/wallet"
	"spa-loyalty/internal/infra"
	"spa-loyalty/internal/usecase/shared"
)

// fakeUoW reproduces the store semantics in memory: guarded updates,
// duplicate-key detection and rollback of everything written by a failed
// Within call.
type fakeUoW struct {
	tokens      map[token.Code]*token.Token
	wallets     map[wallet.Phone]*wallet.Wallet
	redemptions map[uuid.UUID]*redemption.Redemption
	events      []*event.Event
	limits      *fakeRateLimitRepo
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{
		tokens:      make(map[token.Code]*token.Token),
		wallets:     make(map[wallet.Phone]*wallet.Wallet),
		redemptions: make(map[uuid.UUID]*redemption.Redemption),
		limits:      newFakeRateLimitRepo(),
	}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	snapshot := u.clone()
	if err := fn(ctx, &fakeTx{uow: u}); err != nil {
		u.tokens = snapshot.tokens
		u.wallets = snapshot.wallets
		u.redemptions = snapshot.redemptions
		u.events = snapshot.events
		return err
	}
	return nil
}

func (u *fakeUoW) RateLimits() shared.RateLimitRepository {
	return u.limits
}

func (u *fakeUoW) clone() *fakeUoW {
	c := newFakeUoW()
	for k, v := range u.tokens {
		cp := *v
		c.tokens[k] = &cp
	}
	for k, v := range u.wallets {
		cp := *v
		c.wallets[k] = &cp
	}
	for k, v := range u.redemptions {
		cp := *v
		c.redemptions[k] = &cp
	}
	c.events = append([]*event.Event(nil), u.events...)
	return c
}

func (u *fakeUoW) eventNames() []string {
	names := make([]string, 0, len(u.events))
	for _, e := range u.events {
		names = append(names, string(e.Name))
	}
	return names
}

type fakeTx struct {
	uow *fakeUoW
}

func (t *fakeTx) Tokens() shared.TokenRepository           { return &fakeTokenRepo{uow: t.uow} }
func (t *fakeTx) Wallets() shared.WalletRepository         { return &fakeWalletRepo{uow: t.uow} }
func (t *fakeTx) Redemptions() shared.RedemptionRepository { return &fakeRedemptionRepo{uow: t.uow} }
func (t *fakeTx) Events() shared.EventRepository           { return &fakeEventRepo{uow: t.uow} }

type fakeTokenRepo struct {
	uow *fakeUoW
}

func (r *fakeTokenRepo) Insert(_ context.Context, tok *token.Token) error {
	if _, exists := r.uow.tokens[tok.Code()]; exists {
		return infra.WrapRepoErr("duplicate token code", nil, infra.KindDuplicateKey)
	}
	cp := *tok
	r.uow.tokens[tok.Code()] = &cp
	return nil
}

func (r *fakeTokenRepo) FindByCodeForUpdate(_ context.Context, code token.Code) (*token.Token, error) {
	tok, ok := r.uow.tokens[code]
	if !ok {
		return nil, infra.WrapRepoErr("token not found", nil, infra.KindNotFound)
	}
	cp := *tok
	return &cp, nil
}

func (r *fakeTokenRepo) MarkUsed(_ context.Context, code token.Code, phone wallet.Phone, at time.Time) error {
	tok, ok := r.uow.tokens[code]
	if !ok || tok.IsUsed() {
		return infra.WrapRepoErr("token not in issued state", nil, infra.KindNotFound)
	}
	p := phone.String()
	r.uow.tokens[code] = token.Reconstruct(
		tok.Code(), token.StatusUsed, tok.KioskID(), tok.IssuedFor(), &p,
		tok.ExpiresAt(), &at, tok.CreatedAt(), at,
	)
	return nil
}

type fakeWalletRepo struct {
	uow *fakeUoW
}

func (r *fakeWalletRepo) FindByPhone(_ context.Context, phone wallet.Phone) (*wallet.Wallet, error) {
	w, ok := r.uow.wallets[phone]
	if !ok {
		return nil, infra.WrapRepoErr("wallet not found", nil, infra.KindNotFound)
	}
	cp := *w
	return &cp, nil
}

func (r *fakeWalletRepo) FindByPhoneForUpdate(ctx context.Context, phone wallet.Phone) (*wallet.Wallet, error) {
	return r.FindByPhone(ctx, phone)
}

func (r *fakeWalletRepo) Credit(_ context.Context, phone wallet.Phone, amount int, at time.Time) (int, error) {
	w, ok := r.uow.wallets[phone]
	if !ok {
		r.uow.wallets[phone] = wallet.Reconstruct(phone, amount, amount, 0, nil, false, &at, at, at)
		return amount, nil
	}
	balance := w.CouponCount() + amount
	r.uow.wallets[phone] = wallet.Reconstruct(phone, balance, w.TotalEarned()+amount, w.TotalRedeemed(),
		w.Name(), w.MarketingOptIn(), &at, w.CreatedAt(), at)
	return balance, nil
}

func (r *fakeWalletRepo) Debit(_ context.Context, phone wallet.Phone, amount int, at time.Time) (int, error) {
	w, ok := r.uow.wallets[phone]
	if !ok || w.CouponCount() < amount {
		return 0, infra.WrapRepoErr("insufficient balance or wallet missing", nil, infra.KindNotFound)
	}
	balance := w.CouponCount() - amount
	r.uow.wallets[phone] = wallet.Reconstruct(phone, balance, w.TotalEarned(), w.TotalRedeemed()+amount,
		w.Name(), w.MarketingOptIn(), w.LastMessageAt(), w.CreatedAt(), at)
	return balance, nil
}

// Refund restores the spendable balance only; the lifetime counters keep
// recording that the coupons were earned and spent.
func (r *fakeWalletRepo) Refund(_ context.Context, phone wallet.Phone, amount int, at time.Time) (int, error) {
	w, ok := r.uow.wallets[phone]
	if !ok {
		return 0, infra.WrapRepoErr("wallet not found", nil, infra.KindNotFound)
	}
	balance := w.CouponCount() + amount
	r.uow.wallets[phone] = wallet.Reconstruct(phone, balance, w.TotalEarned(), w.TotalRedeemed(),
		w.Name(), w.MarketingOptIn(), w.LastMessageAt(), w.CreatedAt(), at)
	return balance, nil
}

type fakeRedemptionRepo struct {
	uow *fakeUoW
}

func (r *fakeRedemptionRepo) FindPendingByPhone(_ context.Context, phone wallet.Phone) (*redemption.Redemption, error) {
	for _, rec := range r.uow.redemptions {
		if rec.Phone() == phone && rec.IsPending() {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, infra.WrapRepoErr("pending redemption not found", nil, infra.KindNotFound)
}

func (r *fakeRedemptionRepo) Insert(_ context.Context, rec *redemption.Redemption) error {
	for _, existing := range r.uow.redemptions {
		if existing.Phone() == rec.Phone() && existing.IsPending() {
			return infra.WrapRepoErr("duplicate pending redemption", nil, infra.KindDuplicateKey)
		}
	}
	cp := *rec
	r.uow.redemptions[rec.ID()] = &cp
	return nil
}

func (r *fakeRedemptionRepo) Complete(_ context.Context, id uuid.UUID, at time.Time) (*redemption.Redemption, error) {
	rec, ok := r.uow.redemptions[id]
	if !ok || !rec.IsPending() {
		return nil, infra.WrapRepoErr("redemption not found or not pending", nil, infra.KindNotFound)
	}
	if err := rec.Complete(at); err != nil {
		return nil, infra.WrapRepoErr("redemption not found or not pending", err, infra.KindNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeRedemptionRepo) Reject(_ context.Context, id uuid.UUID, note string, at time.Time) (*redemption.Redemption, error) {
	rec, ok := r.uow.redemptions[id]
	if !ok || !rec.IsPending() {
		return nil, infra.WrapRepoErr("redemption not found or not pending", nil, infra.KindNotFound)
	}
	if err := rec.Reject(note, at); err != nil {
		return nil, infra.WrapRepoErr("redemption not found or not pending", err, infra.KindNotFound)
	}
	cp := *rec
	return &cp, nil
}

type fakeEventRepo struct {
	uow *fakeUoW
}

func (r *fakeEventRepo) Insert(_ context.Context, e *event.Event) error {
	cp := *e
	r.uow.events = append(r.uow.events, &cp)
	return nil
}

type limitKey struct {
	identity  string
	operation string
}

type limitRow struct {
	count   int
	resetAt time.Time
}

// fakeRateLimitRepo mirrors the single-statement upsert: reset in place
// when the window has passed, otherwise bump the counter.
type fakeRateLimitRepo struct {
	rows map[limitKey]*limitRow
}

func newFakeRateLimitRepo() *fakeRateLimitRepo {
	return &fakeRateLimitRepo{rows: make(map[limitKey]*limitRow)}
}

func (r *fakeRateLimitRepo) Increment(_ context.Context, identity, operation string, window time.Duration, now time.Time) (int, time.Time, error) {
	key := limitKey{identity: identity, operation: operation}
	row, ok := r.rows[key]
	if !ok || !row.resetAt.After(now) {
		row = &limitRow{count: 1, resetAt: now.Add(window)}
		r.rows[key] = row
		return row.count, row.resetAt, nil
	}
	row.count++
	return row.count, row.resetAt, nil
}

func (r *fakeRateLimitRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var deleted int64
	for key, row := range r.rows {
		if !row.resetAt.After(now) {
			delete(r.rows, key)
			deleted++
		}
	}
	return deleted, nil
}
