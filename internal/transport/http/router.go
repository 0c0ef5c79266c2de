package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hotel-event-indexer/internal/config"
	"github.com/hotel-event-indexer/internal/transport/http/handler"
	appmiddleware "github.com/hotel-event-indexer/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds the local development router.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "x-amz-sns-message-type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 20 requests/second, burst of 40 per client.
	eventsRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(20), 40)

	healthH := handler.NewHealthHandler()
	eventH := handler.NewEventHandler(deps.EventService, deps.Confirmer, deps.Logger)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.Group(func(r chi.Router) {
			r.Use(eventsRL.Limit)
			r.Post("/events", eventH.Invoke)
			r.Post("/sns", eventH.SNS)
		})
	})

	return r
}
