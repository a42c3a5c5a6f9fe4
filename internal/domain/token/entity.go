package token

import (
	"time"
)

type Status string

const (
	StatusIssued Status = "issued"
	StatusUsed   Status = "used"
)

// Token is a single-use coupon token handed out at the kiosk and consumed
// by the messaging webhook.
type Token struct {
	code      Code
	status    Status
	kioskID   *string
	issuedFor *string
	usedBy    *string
	expiresAt time.Time
	usedAt    *time.Time
	createdAt time.Time
	updatedAt time.Time
}

// Issue creates a fresh token valid for ttl from now.
func Issue(code Code, kioskID, issuedFor *string, now time.Time, ttl time.Duration) *Token {
	return &Token{
		code:      code,
		status:    StatusIssued,
		kioskID:   kioskID,
		issuedFor: issuedFor,
		expiresAt: now.Add(ttl),
		createdAt: now,
		updatedAt: now,
	}
}

// Reconstruct rebuilds a Token from persisted state.
func Reconstruct(
	code Code,
	status Status,
	kioskID *string,
	issuedFor *string,
	usedBy *string,
	expiresAt time.Time,
	usedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *Token {
	return &Token{
		code:      code,
		status:    status,
		kioskID:   kioskID,
		issuedFor: issuedFor,
		usedBy:    usedBy,
		expiresAt: expiresAt,
		usedAt:    usedAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (t *Token) Code() Code           { return t.code }
func (t *Token) Status() Status       { return t.status }
func (t *Token) KioskID() *string     { return t.kioskID }
func (t *Token) IssuedFor() *string   { return t.issuedFor }
func (t *Token) UsedBy() *string      { return t.usedBy }
func (t *Token) ExpiresAt() time.Time { return t.expiresAt }
func (t *Token) UsedAt() *time.Time   { return t.usedAt }
func (t *Token) CreatedAt() time.Time { return t.createdAt }
func (t *Token) UpdatedAt() time.Time { return t.updatedAt }

func (t *Token) IsUsed() bool {
	return t.status == StatusUsed
}

// IsExpiredAt reports whether the token can no longer be consumed at the
// given instant. Expiry is checked at consumption time only; issued rows
// are never mutated by the passage of time.
func (t *Token) IsExpiredAt(now time.Time) bool {
	return !now.Before(t.expiresAt)
}

// WasUsedBy reports whether the token was already consumed by this phone.
// Used for idempotent webhook replays.
func (t *Token) WasUsedBy(phone string) bool {
	return t.status == StatusUsed && t.usedBy != nil && *t.usedBy == phone
}
