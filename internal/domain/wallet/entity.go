package wallet

import (
	"time"
)

// Wallet is the per-phone coupon ledger head. The balance is the spendable
// count; totalEarned and totalRedeemed only ever grow, so the lifetime
// history survives debits and refunds.
type Wallet struct {
	phone          Phone
	couponCount    int
	totalEarned    int
	totalRedeemed  int
	name           *string
	marketingOptIn bool
	lastMessageAt  *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

func Reconstruct(
	phone Phone,
	couponCount int,
	totalEarned int,
	totalRedeemed int,
	name *string,
	marketingOptIn bool,
	lastMessageAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *Wallet {
	return &Wallet{
		phone:          phone,
		couponCount:    couponCount,
		totalEarned:    totalEarned,
		totalRedeemed:  totalRedeemed,
		name:           name,
		marketingOptIn: marketingOptIn,
		lastMessageAt:  lastMessageAt,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (w *Wallet) Phone() Phone              { return w.phone }
func (w *Wallet) CouponCount() int          { return w.couponCount }
func (w *Wallet) TotalEarned() int          { return w.totalEarned }
func (w *Wallet) TotalRedeemed() int        { return w.totalRedeemed }
func (w *Wallet) Name() *string             { return w.name }
func (w *Wallet) MarketingOptIn() bool      { return w.marketingOptIn }
func (w *Wallet) LastMessageAt() *time.Time { return w.lastMessageAt }
func (w *Wallet) CreatedAt() time.Time      { return w.createdAt }
func (w *Wallet) UpdatedAt() time.Time      { return w.updatedAt }

// RemainingToFree reports how many more coupons are needed to reach the
// next full bundle. A balance that sits exactly on a positive multiple of
// the bundle size reports 0: a free service is ready to claim.
func RemainingToFree(balance, bundleSize int) int {
	rem := bundleSize - balance%bundleSize
	if rem == bundleSize && balance > 0 {
		return 0
	}
	return rem
}
