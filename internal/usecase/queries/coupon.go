package queries

import (
	"context"
	"time"

	"spa-loyalty/internal/domain/event"
	"spa-loyalty/internal/domain/wallet"
	"spa-loyalty/internal/infra"
	"spa-loyalty/internal/pkg/config"
	"spa-loyalty/internal/pkg/errs"
)

var ErrWalletNotFound = errs.New("wallet not found")

// WalletView is the read model for a wallet lookup.
type WalletView struct {
	Phone           string     `json:"phone"`
	CouponCount     int        `json:"couponCount"`
	TotalEarned     int        `json:"totalEarned"`
	TotalRedeemed   int        `json:"totalRedeemed"`
	RemainingToFree int        `json:"remainingToFree"`
	Name            *string    `json:"name,omitempty"`
	MarketingOptIn  bool       `json:"marketingOptIn"`
	LastMessageAt   *time.Time `json:"lastMessageAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// EventView is the read model for one audit record.
type EventView struct {
	Phone     *string       `json:"phone,omitempty"`
	Event     string        `json:"event"`
	Token     *string       `json:"token,omitempty"`
	Details   event.Details `json:"details"`
	CreatedAt time.Time     `json:"createdAt"`
}

type CouponQueries interface {
	WalletByPhone(ctx context.Context, phone wallet.Phone) (*WalletView, error)
	// EventsByPhone returns the phone's audit trail, newest first.
	// The wallet must exist; an unknown phone is a not-found.
	EventsByPhone(ctx context.Context, phone wallet.Phone) ([]EventView, error)
}

// CouponReadStore is the query-side data access boundary.
type CouponReadStore interface {
	WalletByPhone(ctx context.Context, phone wallet.Phone) (*WalletView, error)
	EventsByPhone(ctx context.Context, phone wallet.Phone) ([]EventView, error)
}

type couponQueries struct {
	store  CouponReadStore
	coupon config.CouponConfig
}

func NewCouponQueries(store CouponReadStore, coupon config.CouponConfig) CouponQueries {
	return &couponQueries{store: store, coupon: coupon}
}

func (q *couponQueries) WalletByPhone(ctx context.Context, phone wallet.Phone) (*WalletView, error) {
	view, err := q.store.WalletByPhone(ctx, phone)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	view.RemainingToFree = wallet.RemainingToFree(view.CouponCount, q.coupon.BundleSize)
	return view, nil
}

func (q *couponQueries) EventsByPhone(ctx context.Context, phone wallet.Phone) ([]EventView, error) {
	if _, err := q.store.WalletByPhone(ctx, phone); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return q.store.EventsByPhone(ctx, phone)
}
