package readstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"spa-loyalty/internal/domain/event"
	"spa-loyalty/internal/domain/wallet"
	"spa-loyalty/internal/infra"
	"spa-loyalty/internal/infra/db"
	"spa-loyalty/internal/usecase/queries"
)

type CouponReadStore struct {
	db db.DBTX
}

func NewCouponReadStore(dbtx db.DBTX) *CouponReadStore {
	return &CouponReadStore{db: dbtx}
}

const walletByPhoneQuery = `
SELECT phone, coupon_count, total_earned, total_redeemed, name, marketing_opt_in, last_message_at, created_at, updated_at
FROM wallets
WHERE phone = $1
`

func (s *CouponReadStore) WalletByPhone(ctx context.Context, phone wallet.Phone) (*queries.WalletView, error) {
	var view queries.WalletView
	err := s.db.QueryRow(ctx, walletByPhoneQuery, phone.String()).Scan(
		&view.Phone,
		&view.CouponCount,
		&view.TotalEarned,
		&view.TotalRedeemed,
		&view.Name,
		&view.MarketingOptIn,
		&view.LastMessageAt,
		&view.CreatedAt,
		&view.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("wallet not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find wallet", err)
	}
	return &view, nil
}

const eventsByPhoneQuery = `
SELECT phone, event, token, details, created_at
FROM coupon_events
WHERE phone = $1
ORDER BY created_at DESC, id DESC
`

func (s *CouponReadStore) EventsByPhone(ctx context.Context, phone wallet.Phone) ([]queries.EventView, error) {
	rows, err := s.db.Query(ctx, eventsByPhoneQuery, phone.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query events", err)
	}
	defer rows.Close()

	views := make([]queries.EventView, 0)
	for rows.Next() {
		var (
			view       queries.EventView
			rawDetails []byte
			createdAt  time.Time
		)
		if err := rows.Scan(&view.Phone, &view.Event, &view.Token, &rawDetails, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan event row", err)
		}
		var details event.Details
		if len(rawDetails) > 0 {
			if err := json.Unmarshal(rawDetails, &details); err != nil {
				return nil, infra.WrapRepoErr("failed to decode event details", err)
			}
		}
		view.Details = details
		view.CreatedAt = createdAt
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate event rows", err)
	}
	return views, nil
}
