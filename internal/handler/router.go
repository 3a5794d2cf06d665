package handler

import (
	"context"
	"net/http"

	"github.com/Shivanand-hulikatti/eventhub/internal/access"
	"github.com/Shivanand-hulikatti/eventhub/internal/metrics"
	"github.com/Shivanand-hulikatti/eventhub/internal/repository"
	"github.com/Shivanand-hulikatti/eventhub/internal/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Options tune the router.
type Options struct {
	// TrustProxy takes the caller address from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
	// ExposeErrors includes internal error text in 5xx bodies.
	ExposeErrors bool
	// RateLimitPerMinute is the per-address budget; 0 disables it.
	RateLimitPerMinute int
}

// NewRouter wires services over store and mounts every route behind the
// access gate. db backs /health and may be nil. Background work started for
// the router stops when ctx is cancelled.
func NewRouter(ctx context.Context, store repository.Store, db Pinger, logger zerolog.Logger, opts Options) http.Handler {
	events := NewEventHandler(service.NewEventService(store), opts.ExposeErrors)
	participants := NewParticipantHandler(service.NewParticipantService(store), opts.ExposeErrors)
	locations := NewLocationHandler(service.NewLocationService(store), opts.ExposeErrors)
	queries := NewQueryHandler(service.NewQueryService(store), opts.ExposeErrors)
	lists := NewAccessListHandler(service.NewAccessService(store), opts.ExposeErrors)

	r := chi.NewRouter()

	// Global middleware stack
	if opts.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(CorrelationID(logger))
	r.Use(Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.HTTPMiddleware)
	r.Use(CORS)
	r.Use(RateLimit(ctx, opts.RateLimitPerMinute))
	r.Use(AccessGate(access.NewGate(store), opts.ExposeErrors))

	r.Get("/health", HealthCheck(db))
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", events.ListEvents)
			r.Post("/", events.CreateEvent)
			r.Get("/date", queries.EventsByDate)
			r.Put("/{id}", events.UpdateEvent)
			r.Delete("/{id}", events.DeleteEvent)
			r.Get("/{id}/feedback", queries.FeedbackByEvent)
			r.Get("/{id}/sponsors", queries.SponsorsByEvent)
		})

		r.Route("/participants", func(r chi.Router) {
			r.Get("/", participants.ListParticipants)
			r.Post("/", participants.CreateParticipant)
			r.Get("/status", queries.ParticipantsByStatus)
			r.Put("/{id}", participants.UpdateParticipant)
			r.Delete("/{id}", participants.DeleteParticipant)
		})

		r.Route("/locations", func(r chi.Router) {
			r.Get("/", locations.ListLocations)
			r.Post("/", locations.CreateLocation)
			r.Put("/{id}", locations.UpdateLocation)
			r.Delete("/{id}", locations.DeleteLocation)
		})

		r.Post("/blacklist", lists.AddToBlacklist)
		r.Delete("/blacklist", lists.RemoveFromBlacklist)
		r.Post("/whitelist", lists.AddToWhitelist)
		r.Delete("/whitelist", lists.RemoveFromWhitelist)
	})

	return r
}
