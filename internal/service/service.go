// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Shivanand-hulikatti/eventhub/internal/capacity"
	"github.com/Shivanand-hulikatti/eventhub/internal/metrics"
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
	"github.com/go-playground/validator/v10"
)

// Domain errors surfaced to the handler layer.
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventExists         = errors.New("event already exists")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrLocationNotFound    = errors.New("location not found")
	ErrLocationInUse       = errors.New("location is referenced by events")
	ErrNoResults           = errors.New("no matching records")
)

// ValidationError lists every rejected request field.
type ValidationError struct {
	Fields []model.FieldError
}

// Error joins the field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: []model.FieldError{{Field: field, Message: message}}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest checks req against its struct tags.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	ve := &ValidationError{}
	for _, fe := range fieldErrs {
		ve.Fields = append(ve.Fields, model.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return ve
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required."
	case "email":
		return "Valid email is required."
	case "datetime":
		return "Valid date (YYYY-MM-DD) is required."
	case "oneof":
		return fe.Field() + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ") + "."
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param() + "."
	case "gte":
		return fe.Field() + " must be at least " + fe.Param() + "."
	case "min":
		return fe.Field() + " cannot be empty."
	case "ip":
		return "Valid IP address is required."
	default:
		return fe.Field() + " is invalid."
	}
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// noChanges converts an empty partial update into a validation failure.
func noChanges(err error) error {
	if errors.Is(err, repository.ErrNoChanges) {
		return invalid("body", "At least one field must be provided.")
	}
	return err
}

// requireChanges rejects an update request with every field unset.
func requireChanges[T comparable](req T) error {
	var zero T
	if req == zero {
		return noChanges(repository.ErrNoChanges)
	}
	return nil
}

// admit runs the capacity evaluator and records rejections.
func admit(ctx context.Context, r capacity.Reader, operation string, locationID int64, occupancy capacity.OccupancyFunc) error {
	err := capacity.Evaluate(ctx, r, locationID, occupancy)
	if errors.Is(err, capacity.ErrCapacityExceeded) {
		metrics.CapacityRejections.WithLabelValues(operation).Inc()
	}
	return err
}
