package http

import (
	"log/slog"

	"github.com/hotel-event-indexer/internal/application/event"
	"github.com/hotel-event-indexer/internal/infrastructure/sns"
)

// Deps holds the dependencies for the router.
type Deps struct {
	EventService event.Service
	// Confirmer is optional; without it SNS subscription confirmations fail.
	Confirmer sns.SubscriptionConfirmer
	Logger    *slog.Logger
}
