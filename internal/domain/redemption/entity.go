package redemption

import (
	"time"

	"github.com/google/uuid"

	"spa-loyalty/internal/domain/wallet"
	"spa-loyalty/internal/pkg/errs"
)

var (
	ErrNotPending   = errs.New("redemption is not pending")
	ErrNoteRequired = errs.New("rejection note is required")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

// Redemption is a free-service claim moving through pending -> completed
// or pending -> rejected. Rejection refunds the debited coupons.
type Redemption struct {
	id          uuid.UUID
	phone       wallet.Phone
	couponsUsed int
	status      Status
	note        *string
	resolvedAt  *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

func New(phone wallet.Phone, couponsUsed int, now time.Time) *Redemption {
	return &Redemption{
		id:          uuid.New(),
		phone:       phone,
		couponsUsed: couponsUsed,
		status:      StatusPending,
		createdAt:   now,
		updatedAt:   now,
	}
}

func Reconstruct(
	id uuid.UUID,
	phone wallet.Phone,
	couponsUsed int,
	status Status,
	note *string,
	resolvedAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *Redemption {
	return &Redemption{
		id:          id,
		phone:       phone,
		couponsUsed: couponsUsed,
		status:      status,
		note:        note,
		resolvedAt:  resolvedAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (r *Redemption) ID() uuid.UUID          { return r.id }
func (r *Redemption) Phone() wallet.Phone    { return r.phone }
func (r *Redemption) CouponsUsed() int       { return r.couponsUsed }
func (r *Redemption) Status() Status         { return r.status }
func (r *Redemption) Note() *string          { return r.note }
func (r *Redemption) ResolvedAt() *time.Time { return r.resolvedAt }
func (r *Redemption) CreatedAt() time.Time   { return r.createdAt }
func (r *Redemption) UpdatedAt() time.Time   { return r.updatedAt }

func (r *Redemption) IsPending() bool {
	return r.status == StatusPending
}

func (r *Redemption) Complete(now time.Time) error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	r.status = StatusCompleted
	r.resolvedAt = &now
	r.updatedAt = now
	return nil
}

func (r *Redemption) Reject(note string, now time.Time) error {
	if r.status != StatusPending {
		return ErrNotPending
	}
	if note == "" {
		return ErrNoteRequired
	}
	r.status = StatusRejected
	r.note = &note
	r.resolvedAt = &now
	r.updatedAt = now
	return nil
}
