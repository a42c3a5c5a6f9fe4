package commands

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"spa-loyalty/internal/domain/event"
	"spa-loyalty/internal/domain/redemption"
	"spa-loyalty/internal/domain/token"
	"spa-loyalty/internal/domain/wallet"
	"spa-loyalty/internal/infra"
	"spa-loyalty/internal/pkg/clock"
	"spa-loyalty/internal/pkg/config"
	"spa-loyalty/internal/pkg/errs"
	"spa-loyalty/internal/usecase/shared"
)

var (
	ErrInvalidToken       = errs.New("token not found or malformed")
	ErrExpiredToken       = errs.New("token has expired")
	ErrTokenUsedByOther   = errs.New("token already used by another phone")
	ErrRedemptionNotFound = errs.New("redemption not found or already resolved")
)

// InsufficientCouponsError carries the balance shortfall for a claim.
type InsufficientCouponsError struct {
	Balance int
	Needed  int
}

func (e *InsufficientCouponsError) Error() string {
	return fmt.Sprintf("insufficient coupons: have %d, need %d more", e.Balance, e.Needed)
}

type IssueResult struct {
	Token string
	WaURL string
}

type ConsumeResult struct {
	Balance         int
	RemainingToFree int
	// AlreadyCredited is true on idempotent replays: the token was
	// already consumed by this same phone.
	AlreadyCredited bool
}

type ClaimResult struct {
	RedemptionID uuid.UUID
	// Reused is true when an earlier pending claim was returned instead
	// of debiting again.
	Reused bool
}

type CouponCommands interface {
	Issue(ctx context.Context, kioskID, issuedFor *string) (*IssueResult, error)
	Consume(ctx context.Context, phone wallet.Phone, code string) (*ConsumeResult, error)
	Claim(ctx context.Context, phone wallet.Phone) (*ClaimResult, error)
	Complete(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID, note string) error
}

type couponCommands struct {
	uow     shared.UnitOfWork
	limiter *RateLimiter
	clk     clock.Clock
	coupon  config.CouponConfig
	limits  config.RateLimitConfig
}

func NewCouponCommands(
	uow shared.UnitOfWork,
	limiter *RateLimiter,
	clk clock.Clock,
	coupon config.CouponConfig,
	limits config.RateLimitConfig,
) CouponCommands {
	return &couponCommands{
		uow:     uow,
		limiter: limiter,
		clk:     clk,
		coupon:  coupon,
		limits:  limits,
	}
}

// maxIssueAttempts bounds the retry on token code collisions. With a
// 36^12 code space a single retry is already unlikely.
const maxIssueAttempts = 5

func (c *couponCommands) Issue(ctx context.Context, kioskID, issuedFor *string) (*IssueResult, error) {
	var issued *token.Token

	// A duplicate-key failure aborts the whole transaction, so each
	// attempt gets its own.
	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		code, err := token.NewCode()
		if err != nil {
			return nil, err
		}
		now := c.clk.Now()
		t := token.Issue(code, kioskID, issuedFor, now, c.coupon.TokenTTL)

		err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			if err := tx.Tokens().Insert(ctx, t); err != nil {
				return err
			}
			codeStr := code.String()
			ev := event.New(nil, event.NameIssued, &codeStr, event.Details{
				KioskID:   kioskID,
				IssuedFor: issuedFor,
			}, now)
			return tx.Events().Insert(ctx, ev)
		})
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				continue
			}
			return nil, err
		}
		issued = t
		break
	}
	if issued == nil {
		return nil, errs.New("failed to issue token: code space exhausted")
	}

	return &IssueResult{
		Token: issued.Code().String(),
		WaURL: c.buildWaURL(issued.Code()),
	}, nil
}

// buildWaURL renders the WhatsApp deep link the kiosk encodes as a QR code.
func (c *couponCommands) buildWaURL(code token.Code) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", c.coupon.WhatsAppNumber, url.QueryEscape(code.String()))
}

func (c *couponCommands) Consume(ctx context.Context, phone wallet.Phone, rawCode string) (*ConsumeResult, error) {
	code, err := token.ParseCode(rawCode)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidToken)
	}

	// Quota is consumed before the transaction so a rejected token still
	// counts against the window.
	if err := c.limiter.CheckAndIncrement(ctx, phone.String(), OpConsume, c.limits.ConsumeLimit, c.limits.Window); err != nil {
		return nil, err
	}

	var result ConsumeResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clk.Now()

		t, err := tx.Tokens().FindByCodeForUpdate(ctx, code)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		if t.IsUsed() {
			// Webhook retries replay the same message. Same phone gets
			// the current balance back with no second credit and no event.
			if t.WasUsedBy(phone.String()) {
				w, err := tx.Wallets().FindByPhone(ctx, phone)
				if err != nil {
					return err
				}
				result = ConsumeResult{
					Balance:         w.CouponCount(),
					RemainingToFree: wallet.RemainingToFree(w.CouponCount(), c.coupon.BundleSize),
					AlreadyCredited: true,
				}
				return nil
			}
			return ErrTokenUsedByOther
		}

		if t.IsExpiredAt(now) {
			return ErrExpiredToken
		}

		if err := tx.Tokens().MarkUsed(ctx, code, phone, now); err != nil {
			return err
		}
		balance, err := tx.Wallets().Credit(ctx, phone, c.coupon.CreditAmount, now)
		if err != nil {
			return err
		}

		remaining := wallet.RemainingToFree(balance, c.coupon.BundleSize)
		codeStr := code.String()
		ev := event.New(&phone, event.NameCouponAwarded, &codeStr, event.Details{
			Balance:         &balance,
			RemainingToFree: &remaining,
		}, now)
		if err := tx.Events().Insert(ctx, ev); err != nil {
			return err
		}

		result = ConsumeResult{Balance: balance, RemainingToFree: remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *couponCommands) Claim(ctx context.Context, phone wallet.Phone) (*ClaimResult, error) {
	if err := c.limiter.CheckAndIncrement(ctx, phone.String(), OpClaim, c.limits.ClaimLimit, c.limits.Window); err != nil {
		return nil, err
	}

	var result ClaimResult
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clk.Now()
		bundle := c.coupon.BundleSize

		// The wallet row lock serializes concurrent claims for one phone.
		w, err := tx.Wallets().FindByPhoneForUpdate(ctx, phone)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return &InsufficientCouponsError{Balance: 0, Needed: bundle}
			}
			return err
		}

		// An unresolved claim is returned as-is; no second debit.
		if pending, err := tx.Redemptions().FindPendingByPhone(ctx, phone); err != nil {
			if !infra.IsKind(err, infra.KindNotFound) {
				return err
			}
		} else {
			result = ClaimResult{RedemptionID: pending.ID(), Reused: true}
			return nil
		}

		if w.CouponCount() < bundle {
			return &InsufficientCouponsError{Balance: w.CouponCount(), Needed: bundle - w.CouponCount()}
		}

		balance, err := tx.Wallets().Debit(ctx, phone, bundle, now)
		if err != nil {
			return err
		}

		r := redemption.New(phone, bundle, now)
		if err := tx.Redemptions().Insert(ctx, r); err != nil {
			return err
		}

		id := r.ID()
		used := r.CouponsUsed()
		attempt := event.New(&phone, event.NameRedemptionAttempt, nil, event.Details{
			CouponsUsed: &used,
		}, now)
		if err := tx.Events().Insert(ctx, attempt); err != nil {
			return err
		}
		granted := event.New(&phone, event.NameRedemptionGranted, nil, event.Details{
			RedemptionID: &id,
			CouponsUsed:  &used,
			Balance:      &balance,
		}, now)
		if err := tx.Events().Insert(ctx, granted); err != nil {
			return err
		}

		result = ClaimResult{RedemptionID: r.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *couponCommands) Complete(ctx context.Context, id uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clk.Now()

		r, err := tx.Redemptions().Complete(ctx, id, now)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRedemptionNotFound
			}
			return err
		}

		phone := r.Phone()
		rid := r.ID()
		ev := event.New(&phone, event.NameRedemptionCompleted, nil, event.Details{
			RedemptionID: &rid,
		}, now)
		return tx.Events().Insert(ctx, ev)
	})
}

func (c *couponCommands) Reject(ctx context.Context, id uuid.UUID, note string) error {
	if note == "" {
		return redemption.ErrNoteRequired
	}
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := c.clk.Now()

		r, err := tx.Redemptions().Reject(ctx, id, note, now)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrRedemptionNotFound
			}
			return err
		}

		// Rejection restores the debited coupons in the same transaction.
		balance, err := tx.Wallets().Refund(ctx, r.Phone(), r.CouponsUsed(), now)
		if err != nil {
			return err
		}

		phone := r.Phone()
		rid := r.ID()
		refunded := r.CouponsUsed()
		ev := event.New(&phone, event.NameRedemptionRejected, nil, event.Details{
			RedemptionID: &rid,
			CouponsUsed:  &refunded,
			Balance:      &balance,
			Note:         &note,
		}, now)
		return tx.Events().Insert(ctx, ev)
	})
}
