//go:build e2e

package coupon_test

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	resdto "spa-loyalty/internal/handler/dto/response"
	"spa-loyalty/tests/common/authtest"
	"spa-loyalty/tests/common/httptest"
	"spa-loyalty/tests/e2e"
)

type CouponE2ETestSuite struct {
	e2e.SharedSuite
}

func TestCouponE2ESuite(t *testing.T) {
	suite.Run(t, new(CouponE2ETestSuite))
}

const testPhone = "+905551112233"

func (s *CouponE2ETestSuite) issueToken(adminToken string) resdto.IssueCouponResponse {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/coupons",
		map[string]any{"kioskId": "kiosk-1"}, adminToken)
	var resp resdto.IssueCouponResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &resp)
	return resp
}

func (s *CouponE2ETestSuite) TestCouponLifecycle() {
	s.Run("token issue, consume and claim round trip", func() {
		adminToken := authtest.LoginAdmin(s.T(), s.Router)

		// Fill a full bundle for one phone
		var lastBalance int
		for i := 0; i < 4; i++ {
			issued := s.issueToken(adminToken)
			s.Contains(issued.WaURL, issued.Token)

			rec := httptest.PerformRequestWithAPIKey(s.T(), s.Router, http.MethodPost, "/api/coupons/consume",
				map[string]any{"phone": testPhone, "token": issued.Token}, s.Config.Auth.APIKey)

			var resp resdto.ConsumeCouponResponse
			httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
			s.Equal(i+1, resp.Balance)
			lastBalance = resp.Balance
		}
		s.Equal(4, lastBalance)

		// Claim the free service
		claimRec := httptest.PerformRequestWithAPIKey(s.T(), s.Router, http.MethodPost, "/api/redemptions/claim",
			map[string]any{"phone": testPhone}, s.Config.Auth.APIKey)
		var claim resdto.ClaimRedemptionResponse
		httptest.AssertSuccessResponse(s.T(), claimRec, http.StatusOK, &claim)
		s.NotEqual(uuid.Nil, claim.RedemptionID)

		// Wallet is empty again; the lifetime counters keep the history
		walletRec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/wallets/"+testPhone, nil, adminToken)
		var wallet resdto.WalletResponse
		httptest.AssertSuccessResponse(s.T(), walletRec, http.StatusOK, &wallet)
		s.Equal(0, wallet.CouponCount)
		s.Equal(4, wallet.RemainingToFree)
		s.Equal(4, wallet.TotalEarned)
		s.Equal(4, wallet.TotalRedeemed)

		// Staff completes the redemption
		completeRec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/redemptions/"+claim.RedemptionID.String()+"/complete", nil, adminToken)
		var ok resdto.OKResponse
		httptest.AssertSuccessResponse(s.T(), completeRec, http.StatusOK, &ok)
		s.True(ok.OK)

		// Full audit trail, newest first
		eventsRec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/wallets/"+testPhone+"/events", nil, adminToken)
		var events []resdto.EventResponse
		httptest.AssertSuccessResponse(s.T(), eventsRec, http.StatusOK, &events)
		names := make([]string, 0, len(events))
		for _, e := range events {
			names = append(names, e.Event)
		}
		want := []string{
			"redemption_completed",
			"redemption_granted",
			"redemption_attempt",
			"coupon_awarded",
			"coupon_awarded",
			"coupon_awarded",
			"coupon_awarded",
		}
		s.Empty(cmp.Diff(want, names))
	})

	s.Run("webhook retry credits exactly once", func() {
		adminToken := authtest.LoginAdmin(s.T(), s.Router)
		issued := s.issueToken(adminToken)

		first := httptest.PerformRequestWithAPIKey(s.T(), s.Router, http.MethodPost, "/api/coupons/consume",
			map[string]any{"phone": testPhone, "token": issued.Token}, s.Config.Auth.APIKey)
		var firstResp resdto.ConsumeCouponResponse
		httptest.AssertSuccessResponse(s.T(), first, http.StatusOK, &firstResp)

		second := httptest.PerformRequestWithAPIKey(s.T(), s.Router, http.MethodPost, "/api/coupons/consume",
			map[string]any{"phone": testPhone, "token": issued.Token}, s.Config.Auth.APIKey)
		var secondResp resdto.ConsumeCouponResponse
		httptest.AssertSuccessResponse(s.T(), second, http.StatusOK, &secondResp)

		s.Equal(firstResp.Balance, secondResp.Balance)

		// A different phone cannot replay the token
		third := httptest.PerformRequestWithAPIKey(s.T(), s.Router, http.MethodPost, "/api/coupons/consume",
			map[string]any{"phone": "+905559998877", "token": issued.Token}, s.Config.Auth.APIKey)
		httptest.AssertErrorResponse(s.T(), third, http.StatusBadRequest, "INVALID_TOKEN")
	})

	s.Run("claim below the bundle threshold fails with shortfall", func() {
		adminToken := authtest.LoginAdmin(s.T(), s.Router)
		issued := s.issueToken(adminToken)

		rec := httptest.PerformRequestWithAPIKey(s.T(), s.Router, http.MethodPost, "/api/coupons/consume",
			map[string]any{"phone": testPhone, "token": issued.Token}, s.Config.Auth.APIKey)
		var resp resdto.ConsumeCouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)

		claimRec := httptest.PerformRequestWithAPIKey(s.T(), s.Router, http.MethodPost, "/api/redemptions/claim",
			map[string]any{"phone": testPhone}, s.Config.Auth.APIKey)
		httptest.AssertErrorResponse(s.T(), claimRec, http.StatusBadRequest, "INSUFFICIENT_COUPONS")
		s.Contains(claimRec.Body.String(), `"balance":1`)
		s.Contains(claimRec.Body.String(), `"needed":3`)
	})

	s.Run("reject refunds the bundle", func() {
		adminToken := authtest.LoginAdmin(s.T(), s.Router)

		for i := 0; i < 4; i++ {
			issued := s.issueToken(adminToken)
			rec := httptest.PerformRequestWithAPIKey(s.T(), s.Router, http.MethodPost, "/api/coupons/consume",
				map[string]any{"phone": testPhone, "token": issued.Token}, s.Config.Auth.APIKey)
			var resp resdto.ConsumeCouponResponse
			httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		}

		claimRec := httptest.PerformRequestWithAPIKey(s.T(), s.Router, http.MethodPost, "/api/redemptions/claim",
			map[string]any{"phone": testPhone}, s.Config.Auth.APIKey)
		var claim resdto.ClaimRedemptionResponse
		httptest.AssertSuccessResponse(s.T(), claimRec, http.StatusOK, &claim)

		rejectRec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/redemptions/"+claim.RedemptionID.String()+"/reject",
			map[string]any{"note": "guest no-show"}, adminToken)
		var ok resdto.OKResponse
		httptest.AssertSuccessResponse(s.T(), rejectRec, http.StatusOK, &ok)

		walletRec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/wallets/"+testPhone, nil, adminToken)
		var wallet resdto.WalletResponse
		httptest.AssertSuccessResponse(s.T(), walletRec, http.StatusOK, &wallet)
		s.Equal(4, wallet.CouponCount)
		s.Equal(0, wallet.RemainingToFree)
		// the refund restores the balance without rewinding the counters
		s.Equal(4, wallet.TotalEarned)
		s.Equal(4, wallet.TotalRedeemed)

		// Terminal redemptions cannot be re-resolved
		again := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/redemptions/"+claim.RedemptionID.String()+"/reject",
			map[string]any{"note": "again"}, adminToken)
		httptest.AssertErrorResponse(s.T(), again, http.StatusNotFound, "NOT_FOUND")
	})

	s.Run("consume rate limit returns 429 with Retry-After", func() {
		limit := s.Config.RateLimit.ConsumeLimit

		for i := 0; i < limit; i++ {
			rec := httptest.PerformRequestWithAPIKey(s.T(), s.Router, http.MethodPost, "/api/coupons/consume",
				map[string]any{"phone": testPhone, "token": "ZZZZZZZZZZZZ"}, s.Config.Auth.APIKey)
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "INVALID_TOKEN")
		}

		rec := httptest.PerformRequestWithAPIKey(s.T(), s.Router, http.MethodPost, "/api/coupons/consume",
			map[string]any{"phone": testPhone, "token": "ZZZZZZZZZZZZ"}, s.Config.Auth.APIKey)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED")
		s.NotEmpty(rec.Header().Get("Retry-After"))

		// Another identity is unaffected
		other := httptest.PerformRequestWithAPIKey(s.T(), s.Router, http.MethodPost, "/api/coupons/consume",
			map[string]any{"phone": "+905559998877", "token": "ZZZZZZZZZZZZ"}, s.Config.Auth.APIKey)
		httptest.AssertErrorResponse(s.T(), other, http.StatusBadRequest, "INVALID_TOKEN")
	})

	s.Run("authentication boundaries", func() {
		// Issue requires an admin token
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/coupons",
			map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "UNAUTHORIZED")

		// Consume requires the API key
		rec = httptest.PerformRequestWithAPIKey(s.T(), s.Router, http.MethodPost, "/api/coupons/consume",
			map[string]any{"phone": testPhone, "token": "ZZZZZZZZZZZZ"}, "wrong-key")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "UNAUTHORIZED")

		// Wallet lookups are staff only
		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/wallets/"+testPhone, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "UNAUTHORIZED")
	})

	s.Run("wallet lookup for unknown phone is 404", func() {
		adminToken := authtest.LoginAdmin(s.T(), s.Router)
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/wallets/+905550001122", nil, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "NOT_FOUND")
	})
}
