// Package model defines the core domain types for the event management system.
package model

// Participant statuses.
const (
	StatusRegistered = "registered"
	StatusCanceled   = "canceled"
	StatusWaitlisted = "waitlisted"
)

// DateLayout is the wire and storage format of an event date.
const DateLayout = "2006-01-02"

// Event is a dated occurrence held at a location.
type Event struct {
	ID            int64   `json:"event_id"`
	Name          string  `json:"name"`
	EventDate     string  `json:"event_date"`
	Description   *string `json:"description"`
	OrganizerName *string `json:"organizer_name"`
	LocationID    int64   `json:"location_id"`
}

// Participant is a person who registers for events. The link to an event
// lives in the event_participants association, not on the participant.
type Participant struct {
	ID          int64   `json:"participant_id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Status      string  `json:"status"`
}

// EventParticipant records that a participant attends an event.
type EventParticipant struct {
	EventID       int64 `json:"event_id"`
	ParticipantID int64 `json:"participant_id"`
}

// Location is a venue with a fixed occupant capacity.
type Location struct {
	ID         int64   `json:"location_id"`
	Name       string  `json:"name"`
	Capacity   int     `json:"capacity"`
	Address    string  `json:"address"`
	City       string  `json:"city"`
	PostalCode *string `json:"postal_code"`
}

// Row is an untyped result row (column name → value), used for feedback and
// sponsor records which are passed through without further modelling.
type Row map[string]any

// AccessList names one of the two IP address sets consulted by the access gate.
type AccessList string

const (
	Blacklist AccessList = "blacklist"
	Whitelist AccessList = "whitelist"
)

// CreateEventRequest is the payload for creating an event. EventID is
// optional; when supplied the row is inserted with that identity.
type CreateEventRequest struct {
	EventID       *int64  `json:"event_id" validate:"omitnil,gt=0"`
	Name          string  `json:"name" validate:"required"`
	EventDate     string  `json:"event_date" validate:"required,datetime=2006-01-02"`
	Description   *string `json:"description"`
	OrganizerName *string `json:"organizer_name"`
	LocationID    *int64  `json:"location_id" validate:"required"`
}

// UpdateEventRequest is a partial event update; nil fields are left unchanged.
type UpdateEventRequest struct {
	Name          *string `json:"name" validate:"omitnil,min=1"`
	EventDate     *string `json:"event_date" validate:"omitnil,datetime=2006-01-02"`
	Description   *string `json:"description"`
	OrganizerName *string `json:"organizer_name"`
	LocationID    *int64  `json:"location_id"`
}

// CreateParticipantRequest registers a new participant for EventID.
type CreateParticipantRequest struct {
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	PhoneNumber *string `json:"phone_number"`
	Status      *string `json:"status" validate:"omitnil,oneof=registered canceled waitlisted"`
	EventID     *int64  `json:"event_id" validate:"required,gt=0"`
}

// UpdateParticipantRequest is a partial participant update.
type UpdateParticipantRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1"`
	Email       *string `json:"email" validate:"omitnil,email"`
	PhoneNumber *string `json:"phone_number"`
	Status      *string `json:"status" validate:"omitnil,oneof=registered canceled waitlisted"`
}

// CreateLocationRequest is the payload for creating a location.
type CreateLocationRequest struct {
	Name       string  `json:"name" validate:"required"`
	Capacity   *int    `json:"capacity" validate:"required,gte=0"`
	Address    string  `json:"address" validate:"required"`
	City       string  `json:"city" validate:"required"`
	PostalCode *string `json:"postal_code"`
}

// UpdateLocationRequest is a partial location update.
type UpdateLocationRequest struct {
	Name       *string `json:"name" validate:"omitnil,min=1"`
	Capacity   *int    `json:"capacity" validate:"omitnil,gte=0"`
	Address    *string `json:"address" validate:"omitnil,min=1"`
	City       *string `json:"city" validate:"omitnil,min=1"`
	PostalCode *string `json:"postal_code"`
}

// AccessListRequest carries the address to add to or remove from a list.
type AccessListRequest struct {
	IPAddress string `json:"ip_address" validate:"required,ip"`
}

// FieldError describes why a single request field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MessageResponse is the body of successful update and delete calls.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Message string       `json:"message"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}
