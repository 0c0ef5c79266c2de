package lambda

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/hotel-event-indexer/internal/application/event"
	"github.com/hotel-event-indexer/internal/pkg/id"
	"github.com/hotel-event-indexer/internal/pkg/logger"
)

// Handler adapts the event service to the Lambda runtime. A returned error
// fails the invocation so SNS applies its redelivery policy.
type Handler struct {
	svc event.Service
	log *slog.Logger
}

func NewHandler(svc event.Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Handle is registered with lambda.Start.
func (h *Handler) Handle(ctx context.Context, evt events.SNSEvent) error {
	var requestID string
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		requestID = lc.AwsRequestID
	}
	log := h.log.With("invocation_id", id.Invocation(requestID))
	log.DebugContext(ctx, "received notification", "records", len(evt.Records))

	_, err := h.svc.Handle(logger.WithContext(ctx, log), evt)
	return err
}
