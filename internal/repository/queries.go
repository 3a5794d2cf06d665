package repository

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/jackc/pgx/v5"
)

// FeedbackByEvent returns the feedback rows of an event as column maps.
func (r *Repository) FeedbackByEvent(ctx context.Context, eventID int64) ([]model.Row, error) {
	return r.rowsByEvent(ctx, "feedback", `SELECT * FROM feedback WHERE event_id = $1 ORDER BY feedback_id`, eventID)
}

// SponsorsByEvent returns the sponsor rows of an event as column maps.
func (r *Repository) SponsorsByEvent(ctx context.Context, eventID int64) ([]model.Row, error) {
	return r.rowsByEvent(ctx, "sponsors", `SELECT * FROM sponsors WHERE event_id = $1 ORDER BY sponsor_id`, eventID)
}

func (r *Repository) rowsByEvent(ctx context.Context, what, sql string, eventID int64) ([]model.Row, error) {
	rows, err := r.db().Query(ctx, sql, eventID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", what, err)
	}

	out := make([]model.Row, len(maps))
	for i, m := range maps {
		out[i] = model.Row(m)
	}
	return out, nil
}
