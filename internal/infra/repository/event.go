package repository

import (
	"context"
	"encoding/json"

	"spa-loyalty/internal/domain/event"
	"spa-loyalty/internal/infra"
	"spa-loyalty/internal/infra/db"
	"spa-loyalty/internal/usecase/shared"
)

type EventRepository struct {
	db db.DBTX
}

func NewEventRepository(dbtx db.DBTX) shared.EventRepository {
	return &EventRepository{db: dbtx}
}

const insertEventQuery = `
INSERT INTO coupon_events (phone, event, token, details, created_at)
VALUES ($1, $2, $3, $4, $5)
`

func (r *EventRepository) Insert(ctx context.Context, e *event.Event) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return infra.WrapRepoErr("failed to marshal event details", err)
	}

	var phone *string
	if e.Phone != nil {
		s := e.Phone.String()
		phone = &s
	}

	_, err = r.db.Exec(ctx, insertEventQuery,
		phone,
		string(e.Name),
		e.Token,
		details,
		e.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert event", err)
	}
	return nil
}
