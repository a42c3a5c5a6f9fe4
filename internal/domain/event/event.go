package event

import (
	"time"

	"github.com/google/uuid"

	"spa-loyalty/internal/domain/wallet"
)

type Name string

const (
	NameIssued              Name = "issued"
	NameCouponAwarded       Name = "coupon_awarded"
	NameRedemptionAttempt   Name = "redemption_attempt"
	NameRedemptionGranted   Name = "redemption_granted"
	NameRedemptionCompleted Name = "redemption_completed"
	NameRedemptionRejected  Name = "redemption_rejected"
)

// Details is the typed payload stored in the event log's JSONB column.
// Every field is optional; each event name fills the fields it cares about.
type Details struct {
	KioskID         *string    `json:"kioskId,omitempty"`
	IssuedFor       *string    `json:"issuedFor,omitempty"`
	Balance         *int       `json:"balance,omitempty"`
	RemainingToFree *int       `json:"remainingToFree,omitempty"`
	CouponsUsed     *int       `json:"couponsUsed,omitempty"`
	RedemptionID    *uuid.UUID `json:"redemptionId,omitempty"`
	Note            *string    `json:"note,omitempty"`
}

// Event is one append-only audit record. Phone is nil for events that
// precede any wallet (token issuance).
type Event struct {
	Phone     *wallet.Phone
	Name      Name
	Token     *string
	Details   Details
	CreatedAt time.Time
}

func New(phone *wallet.Phone, name Name, token *string, details Details, now time.Time) *Event {
	return &Event{
		Phone:     phone,
		Name:      name,
		Token:     token,
		Details:   details,
		CreatedAt: now,
	}
}
