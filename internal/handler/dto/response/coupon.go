package response

import (
	"time"

	"github.com/google/uuid"

	"spa-loyalty/internal/domain/event"
	"spa-loyalty/internal/usecase/commands"
	"spa-loyalty/internal/usecase/queries"
)

type IssueCouponResponse struct {
	Token string `json:"token"`
	WaURL string `json:"waUrl"`
}

func FromIssueResult(r *commands.IssueResult) IssueCouponResponse {
	return IssueCouponResponse{
		Token: r.Token,
		WaURL: r.WaURL,
	}
}

type ConsumeCouponResponse struct {
	OK              bool `json:"ok"`
	Balance         int  `json:"balance"`
	RemainingToFree int  `json:"remainingToFree"`
}

func FromConsumeResult(r *commands.ConsumeResult) ConsumeCouponResponse {
	return ConsumeCouponResponse{
		OK:              true,
		Balance:         r.Balance,
		RemainingToFree: r.RemainingToFree,
	}
}

type ClaimRedemptionResponse struct {
	OK           bool      `json:"ok"`
	RedemptionID uuid.UUID `json:"redemptionId"`
}

func FromClaimResult(r *commands.ClaimResult) ClaimRedemptionResponse {
	return ClaimRedemptionResponse{
		OK:           true,
		RedemptionID: r.RedemptionID,
	}
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type WalletResponse struct {
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

func FromWalletView(v *queries.WalletView) WalletResponse {
	return WalletResponse{
		Phone:           v.Phone,
		CouponCount:     v.CouponCount,
		TotalEarned:     v.TotalEarned,
		TotalRedeemed:   v.TotalRedeemed,
		RemainingToFree: v.RemainingToFree,
		Name:            v.Name,
		MarketingOptIn:  v.MarketingOptIn,
		LastMessageAt:   v.LastMessageAt,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

type EventResponse struct {
	Phone     *string       `json:"phone,omitempty"`
	Event     string        `json:"event"`
	Token     *string       `json:"token,omitempty"`
	Details   event.Details `json:"details"`
	CreatedAt time.Time     `json:"createdAt"`
}

func FromEventViews(vs []queries.EventView) []EventResponse {
	out := make([]EventResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, EventResponse{
			Phone:     v.Phone,
			Event:     v.Event,
			Token:     v.Token,
			Details:   v.Details,
			CreatedAt: v.CreatedAt,
		})
	}
	return out
}
