package app

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/hotel-event-indexer/internal/application/event"
	"github.com/hotel-event-indexer/internal/config"
	"github.com/hotel-event-indexer/internal/infrastructure/dynamo"
	"github.com/hotel-event-indexer/internal/infrastructure/search"
)

// App holds the process-scoped clients and the event service built on them.
type App struct {
	Dynamo   *dynamodb.Client
	Search   *elasticsearch.Client
	EventIDs *dynamo.EventIDRepo
	Writer   *search.Writer
	Events   event.Service
	Config   *config.Config
}

// New constructs the clients once per process; every invocation reuses them.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	esClient, err := search.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	eventIDs := dynamo.NewEventIDRepo(dynamoClient)
	writer := search.NewWriter(esClient, cfg.IndexRefresh)

	return &App{
		Dynamo:   dynamoClient,
		Search:   esClient,
		EventIDs: eventIDs,
		Writer:   writer,
		Events: event.NewService(event.ServiceDeps{
			Dedup:         eventIDs,
			Indexer:       writer,
			EventIDsTable: cfg.EventIDsTable,
			IndexName:     cfg.IndexName,
			Logger:        log,
		}),
		Config: cfg,
	}, nil
}

// Bootstrap creates the dedup table and the index when they are missing.
// Only the local tools call it; deployed resources are provisioned elsewhere.
func (a *App) Bootstrap(ctx context.Context, log *slog.Logger) error {
	if err := dynamo.Bootstrap(ctx, a.Dynamo, a.Config.EventIDsTable); err != nil {
		return err
	}
	if a.Config.IndexName == "" {
		return nil
	}
	created, err := a.Writer.EnsureIndex(ctx, a.Config.IndexName)
	if err != nil {
		return err
	}
	if created {
		log.Info("created index", "index", a.Config.IndexName)
	}
	return nil
}
