package repository

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/jackc/pgx/v5"
)

const participantColumns = `participant_id, name, email, phone_number, status`

func scanParticipants(rows pgx.Rows) ([]model.Participant, error) {
	defer rows.Close()

	var participants []model.Participant
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.PhoneNumber, &p.Status); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// ListParticipants returns all participants.
func (r *Repository) ListParticipants(ctx context.Context) ([]model.Participant, error) {
	rows, err := r.db().Query(ctx,
		`SELECT `+participantColumns+` FROM participants ORDER BY participant_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return scanParticipants(rows)
}

// ParticipantsByStatus returns the participants with the given status.
func (r *Repository) ParticipantsByStatus(ctx context.Context, status string) ([]model.Participant, error) {
	rows, err := r.db().Query(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE status = $1 ORDER BY participant_id`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants by status: %w", err)
	}
	return scanParticipants(rows)
}

// CreateParticipant inserts the participant record. req.EventID is not
// stored here; the link is written separately with AddEventParticipant.
func (r *Repository) CreateParticipant(ctx context.Context, req model.CreateParticipantRequest) (int64, error) {
	var id int64
	err := r.db().QueryRow(ctx,
		`INSERT INTO participants (name, email, phone_number, status)
		 VALUES ($1, $2, $3, COALESCE($4, 'registered'))
		 RETURNING participant_id`,
		req.Name, req.Email, req.PhoneNumber, req.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert participant: %w", err)
	}
	return id, nil
}

// UpdateParticipant applies the non-nil fields of req to the participant.
func (r *Repository) UpdateParticipant(ctx context.Context, id int64, req model.UpdateParticipantRequest) error {
	b := newUpdate("participants")
	setIfPresent(b, "name", req.Name)
	setIfPresent(b, "email", req.Email)
	setIfPresent(b, "phone_number", req.PhoneNumber)
	setIfPresent(b, "status", req.Status)
	if b.empty() {
		return ErrNoChanges
	}

	sql, args := b.build("participant_id", id)
	tag, err := r.db().Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	return affected(tag)
}

// DeleteParticipant removes the participant row.
func (r *Repository) DeleteParticipant(ctx context.Context, id int64) error {
	tag, err := r.db().Exec(ctx, `DELETE FROM participants WHERE participant_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	return affected(tag)
}

// CountEventParticipants returns the current occupancy of an event.
func (r *Repository) CountEventParticipants(ctx context.Context, eventID int64) (int, error) {
	n, err := count(ctx, r.db(),
		`SELECT COUNT(*) FROM event_participants WHERE event_id = $1`,
		eventID,
	)
	if err != nil {
		return 0, fmt.Errorf("count event participants: %w", err)
	}
	return n, nil
}

// AddEventParticipant links a participant to an event.
func (r *Repository) AddEventParticipant(ctx context.Context, eventID, participantID int64) error {
	_, err := r.db().Exec(ctx,
		`INSERT INTO event_participants (event_id, participant_id) VALUES ($1, $2)`,
		eventID, participantID,
	)
	if err != nil {
		return fmt.Errorf("link participant to event: %w", constraintError(err))
	}
	return nil
}

// RemoveEventParticipants removes every association of an event.
func (r *Repository) RemoveEventParticipants(ctx context.Context, eventID int64) error {
	if _, err := r.db().Exec(ctx, `DELETE FROM event_participants WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("remove event participants: %w", err)
	}
	return nil
}

// RemoveParticipantEvents removes every association of a participant.
func (r *Repository) RemoveParticipantEvents(ctx context.Context, participantID int64) error {
	if _, err := r.db().Exec(ctx, `DELETE FROM event_participants WHERE participant_id = $1`, participantID); err != nil {
		return fmt.Errorf("remove participant events: %w", err)
	}
	return nil
}

// ParticipantEventIDs returns the events a participant is linked to.
func (r *Repository) ParticipantEventIDs(ctx context.Context, participantID int64) ([]int64, error) {
	rows, err := r.db().Query(ctx,
		`SELECT event_id FROM event_participants WHERE participant_id = $1 ORDER BY event_id`,
		participantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list participant events: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan participant events: %w", err)
	}
	return ids, nil
}
