package api

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"spa-loyalty/internal/domain/redemption"
	"spa-loyalty/internal/domain/wallet"
	reqdto "spa-loyalty/internal/handler/dto/request"
	resdto "spa-loyalty/internal/handler/dto/response"
	"spa-loyalty/internal/handler/httperr"
	"spa-loyalty/internal/usecase/commands"
	"spa-loyalty/internal/usecase/queries"
)

type CouponHandler struct {
	cmds commands.CouponCommands
	q    queries.CouponQueries
}

func NewCouponHandler(cmds commands.CouponCommands, q queries.CouponQueries) *CouponHandler {
	return &CouponHandler{cmds: cmds, q: q}
}

// @Summary Issue coupon token
// @Description Issue a single-use coupon token and its deep link
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.IssueCouponRequest true "Issue request"
// @Success 201 {object} resdto.IssueCouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /coupons [post]
func (h *CouponHandler) Issue(c *gin.Context) {
	var req reqdto.IssueCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request", nil)
		return
	}
	result, err := h.cmds.Issue(c.Request.Context(), req.KioskID, req.IssuedFor)
	if err != nil {
		abortWithCouponError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromIssueResult(result))
}

// @Summary Consume coupon token
// @Description Consume a token on behalf of a phone, crediting its wallet
// @Tags coupons
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body reqdto.ConsumeCouponRequest true "Consume request"
// @Success 200 {object} resdto.ConsumeCouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /coupons/consume [post]
func (h *CouponHandler) Consume(c *gin.Context) {
	var req reqdto.ConsumeCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request", nil)
		return
	}
	phone, err := wallet.NewPhone(req.Phone)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid phone number", nil)
		return
	}
	result, err := h.cmds.Consume(c.Request.Context(), phone, req.Token)
	if err != nil {
		abortWithCouponError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromConsumeResult(result))
}

// @Summary Claim free service
// @Description Exchange a full coupon bundle for a pending redemption
// @Tags redemptions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body reqdto.ClaimRedemptionRequest true "Claim request"
// @Success 200 {object} resdto.ClaimRedemptionResponse
// @Failure 400 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /redemptions/claim [post]
func (h *CouponHandler) Claim(c *gin.Context) {
	var req reqdto.ClaimRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request", nil)
		return
	}
	phone, err := wallet.NewPhone(req.Phone)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid phone number", nil)
		return
	}
	result, err := h.cmds.Claim(c.Request.Context(), phone)
	if err != nil {
		abortWithCouponError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromClaimResult(result))
}

// @Summary Complete redemption
// @Description Mark a pending redemption as completed
// @Tags redemptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Redemption ID"
// @Success 200 {object} resdto.OKResponse
// @Failure 404 {object} httperr.Response
// @Router /redemptions/{id}/complete [post]
func (h *CouponHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid id", nil)
		return
	}
	if err := h.cmds.Complete(c.Request.Context(), id); err != nil {
		abortWithCouponError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OKResponse{OK: true})
}

// @Summary Reject redemption
// @Description Reject a pending redemption with a note, refunding the coupons
// @Tags redemptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Redemption ID"
// @Param request body reqdto.RejectRedemptionRequest true "Reject request"
// @Success 200 {object} resdto.OKResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /redemptions/{id}/reject [post]
func (h *CouponHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid id", nil)
		return
	}
	var req reqdto.RejectRedemptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid request", nil)
		return
	}
	if err := h.cmds.Reject(c.Request.Context(), id, req.Note); err != nil {
		abortWithCouponError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.OKResponse{OK: true})
}

// @Summary Get wallet
// @Description Look up a wallet by phone
// @Tags wallets
// @Produce json
// @Security BearerAuth
// @Param phone path string true "Phone (E.164)"
// @Success 200 {object} resdto.WalletResponse
// @Failure 404 {object} httperr.Response
// @Router /wallets/{phone} [get]
func (h *CouponHandler) GetWallet(c *gin.Context) {
	phone, err := wallet.NewPhone(c.Param("phone"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid phone number", nil)
		return
	}
	view, err := h.q.WalletByPhone(c.Request.Context(), phone)
	if err != nil {
		abortWithCouponError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWalletView(view))
}

// @Summary Get wallet events
// @Description Look up the audit trail for a phone, newest first
// @Tags wallets
// @Produce json
// @Security BearerAuth
// @Param phone path string true "Phone (E.164)"
// @Success 200 {array} resdto.EventResponse
// @Failure 404 {object} httperr.Response
// @Router /wallets/{phone}/events [get]
func (h *CouponHandler) GetEvents(c *gin.Context) {
	phone, err := wallet.NewPhone(c.Param("phone"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Invalid phone number", nil)
		return
	}
	views, err := h.q.EventsByPhone(c.Request.Context(), phone)
	if err != nil {
		abortWithCouponError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromEventViews(views))
}

// abortWithCouponError maps command and query errors to the error
// envelope. Everything unrecognized is a 500.
func abortWithCouponError(c *gin.Context, err error) {
	var insufficient *commands.InsufficientCouponsError
	var limited *commands.RateLimitedError

	switch {
	case errors.Is(err, commands.ErrInvalidToken):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_TOKEN", "Token not found or malformed", nil)
	case errors.Is(err, commands.ErrExpiredToken):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "EXPIRED_TOKEN", "Token has expired", nil)
	case errors.Is(err, commands.ErrTokenUsedByOther):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_TOKEN", "Token already used", nil)
	case errors.As(err, &insufficient):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INSUFFICIENT_COUPONS", "Not enough coupons for a free service", gin.H{
			"balance": insufficient.Balance,
			"needed":  insufficient.Needed,
		})
	case errors.As(err, &limited):
		retryAfter := int(math.Ceil(limited.RetryAfter.Seconds()))
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		httperr.AbortWithError(c, http.StatusTooManyRequests, err, "RATE_LIMIT_EXCEEDED", "Too many requests", gin.H{
			"retryAfter": retryAfter,
		})
	case errors.Is(err, commands.ErrRedemptionNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "NOT_FOUND", "Redemption not found or already resolved", nil)
	case errors.Is(err, queries.ErrWalletNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "NOT_FOUND", "Wallet not found", nil)
	case errors.Is(err, redemption.ErrNoteRequired):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_REQUEST", "Rejection note is required", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "INTERNAL", "Internal server error", nil)
	}
}
