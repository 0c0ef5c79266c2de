package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/hotel-event-indexer/internal/domain"
	"github.com/hotel-event-indexer/internal/pkg/logger"
)

// DedupStore records processed message ids.
type DedupStore interface {
	MarkIfAbsent(ctx context.Context, table, messageID string) (*domain.DedupResult, error)
}

// DocumentIndexer upserts payloads into a search index.
type DocumentIndexer interface {
	Index(ctx context.Context, index, documentID string, payload domain.Payload) (*domain.IndexResult, error)
}

// Service handles one hotel-created notification per call.
type Service interface {
	Handle(ctx context.Context, evt events.SNSEvent) (*Outcome, error)
}

// Outcome describes a successfully handled notification.
type Outcome struct {
	MessageID  string `json:"message_id"`
	DocumentID string `json:"document_id"`
	// Duplicate is true when MessageID had been recorded by an earlier
	// delivery. The payload is indexed either way.
	Duplicate bool   `json:"duplicate"`
	Result    string `json:"result,omitempty"`
}

// ServiceDeps groups the dependencies for the event service.
type ServiceDeps struct {
	Dedup   DedupStore
	Indexer DocumentIndexer
	// EventIDsTable and IndexName may be empty; Handle then fails at the
	// step that needs them.
	EventIDsTable string
	IndexName     string
	Logger        *slog.Logger
}

type service struct {
	dedup   DedupStore
	indexer DocumentIndexer
	table   string
	index   string
	log     *slog.Logger
}

func NewService(deps ServiceDeps) Service {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &service{
		dedup:   deps.Dedup,
		indexer: deps.Indexer,
		table:   deps.EventIDsTable,
		index:   deps.IndexName,
		log:     log,
	}
}

// Handle parses evt, records its message id and indexes its payload.
// Any failure is logged once and returned; nothing written before the
// failing step is rolled back.
func (s *service) Handle(ctx context.Context, evt events.SNSEvent) (*Outcome, error) {
	out, err := s.handle(ctx, evt)
	if err != nil {
		logger.FromContext(ctx, s.log).ErrorContext(ctx, "an error occurred", "err", err, "kind", domain.KindOf(err))
		return nil, err
	}
	return out, nil
}

func (s *service) handle(ctx context.Context, evt events.SNSEvent) (*Outcome, error) {
	log := logger.FromContext(ctx, s.log)
	n, err := FromSNSEvent(evt)
	if err != nil {
		return nil, err
	}

	dedup, err := s.dedup.MarkIfAbsent(ctx, s.table, n.MessageID)
	if err != nil {
		return nil, dependency(err)
	}
	if !dedup.Recorded {
		log.InfoContext(ctx, "message already recorded, indexing anyway", "message_id", n.MessageID)
	}

	docID, err := n.Payload.DocumentID()
	if err != nil {
		return nil, err
	}

	res, err := s.indexer.Index(ctx, s.index, docID, n.Payload)
	if err != nil {
		return nil, dependency(err)
	}

	log.InfoContext(ctx, "indexed document",
		"message_id", n.MessageID, "document_id", docID, "index", s.index, "result", res.Result)
	return &Outcome{
		MessageID:  n.MessageID,
		DocumentID: docID,
		Duplicate:  !dedup.Recorded,
		Result:     res.Result,
	}, nil
}

// dependency tags store and index failures, leaving configuration errors as they are.
func dependency(err error) error {
	if errors.Is(err, domain.ErrMissingConfig) || errors.Is(err, domain.ErrDependency) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrDependency, err)
}
