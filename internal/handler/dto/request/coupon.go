package request

type IssueCouponRequest struct {
	KioskID   *string `json:"kioskId" binding:"omitempty,max=64"`
	IssuedFor *string `json:"issuedFor" binding:"omitempty,max=128"`
}

type ConsumeCouponRequest struct {
	Phone string `json:"phone" binding:"required,e164"`
	Token string `json:"token" binding:"required,len=12"`
}

type ClaimRedemptionRequest struct {
	Phone string `json:"phone" binding:"required,e164"`
}

type RejectRedemptionRequest struct {
	Note string `json:"note" binding:"required,max=500"`
}
