package event

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/hotel-event-indexer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockDedupStore struct{ mock.Mock }

func (m *mockDedupStore) MarkIfAbsent(ctx context.Context, table, messageID string) (*domain.DedupResult, error) {
	args := m.Called(ctx, table, messageID)
	if r, _ := args.Get(0).(*domain.DedupResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockIndexer struct{ mock.Mock }

func (m *mockIndexer) Index(ctx context.Context, index, documentID string, payload domain.Payload) (*domain.IndexResult, error) {
	args := m.Called(ctx, index, documentID, payload)
	if r, _ := args.Get(0).(*domain.IndexResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func snsEvent(messageID, message string) events.SNSEvent {
	return events.SNSEvent{Records: []events.SNSEventRecord{{
		EventSource: "aws:sns",
		SNS:         events.SNSEntity{MessageID: messageID, Message: message},
	}}}
}

func newSvc(ds *mockDedupStore, ix *mockIndexer, logBuf *bytes.Buffer) Service {
	return NewService(ServiceDeps{
		Dedup:         ds,
		Indexer:       ix,
		EventIDsTable: "event-ids",
		IndexName:     "hotels",
		Logger:        slog.New(slog.NewTextHandler(logBuf, nil)),
	})
}

var hotelA = domain.Payload{"Id": "h1", "name": "Hotel A"}

// --- Handle ---

func TestHandle_NewMessage(t *testing.T) {
	ds, ix, logs := &mockDedupStore{}, &mockIndexer{}, &bytes.Buffer{}
	ds.On("MarkIfAbsent", mock.Anything, "event-ids", "m1").Return(&domain.DedupResult{MessageID: "m1", Recorded: true}, nil)
	ix.On("Index", mock.Anything, "hotels", "h1", hotelA).Return(&domain.IndexResult{Result: "created"}, nil)

	out, err := newSvc(ds, ix, logs).Handle(context.Background(), snsEvent("m1", `{"Id":"h1","name":"Hotel A"}`))

	require.NoError(t, err)
	assert.Equal(t, &Outcome{MessageID: "m1", DocumentID: "h1", Duplicate: false, Result: "created"}, out)
	ds.AssertExpectations(t)
	ix.AssertExpectations(t)
}

func TestHandle_DuplicateIsStillIndexed(t *testing.T) {
	ds, ix, logs := &mockDedupStore{}, &mockIndexer{}, &bytes.Buffer{}
	ds.On("MarkIfAbsent", mock.Anything, "event-ids", "m1").Return(&domain.DedupResult{MessageID: "m1", Recorded: false}, nil)
	ix.On("Index", mock.Anything, "hotels", "h1", hotelA).Return(&domain.IndexResult{Result: "updated"}, nil)

	out, err := newSvc(ds, ix, logs).Handle(context.Background(), snsEvent("m1", `{"Id":"h1","name":"Hotel A"}`))

	require.NoError(t, err)
	assert.True(t, out.Duplicate)
	assert.Equal(t, "updated", out.Result)
	ix.AssertNumberOfCalls(t, "Index", 1)
	assert.Contains(t, logs.String(), "message already recorded")
}

func TestHandle_MalformedEnvelopeTouchesNothing(t *testing.T) {
	ds, ix, logs := &mockDedupStore{}, &mockIndexer{}, &bytes.Buffer{}

	_, err := newSvc(ds, ix, logs).Handle(context.Background(), events.SNSEvent{})

	assert.ErrorIs(t, err, domain.ErrMalformedEnvelope)
	ds.AssertNotCalled(t, "MarkIfAbsent", mock.Anything, mock.Anything, mock.Anything)
	ix.AssertNotCalled(t, "Index", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Contains(t, logs.String(), "level=ERROR")
	assert.Contains(t, logs.String(), "kind=malformed_envelope")
}

func TestHandle_DedupFailureStopsBeforeIndex(t *testing.T) {
	ds, ix, logs := &mockDedupStore{}, &mockIndexer{}, &bytes.Buffer{}
	ds.On("MarkIfAbsent", mock.Anything, "event-ids", "m1").Return(nil, errors.New("throttled"))

	_, err := newSvc(ds, ix, logs).Handle(context.Background(), snsEvent("m1", `{"Id":"h1"}`))

	assert.ErrorIs(t, err, domain.ErrDependency)
	assert.ErrorContains(t, err, "throttled")
	ix.AssertNotCalled(t, "Index", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_MissingPayloadIDFailsAfterDedup(t *testing.T) {
	ds, ix, logs := &mockDedupStore{}, &mockIndexer{}, &bytes.Buffer{}
	ds.On("MarkIfAbsent", mock.Anything, "event-ids", "m1").Return(&domain.DedupResult{MessageID: "m1", Recorded: true}, nil)

	_, err := newSvc(ds, ix, logs).Handle(context.Background(), snsEvent("m1", `{"name":"Hotel A"}`))

	assert.ErrorIs(t, err, domain.ErrMalformedEnvelope)
	ds.AssertExpectations(t)
	ix.AssertNotCalled(t, "Index", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_IndexFailureKeepsDedupRecord(t *testing.T) {
	ds, ix, logs := &mockDedupStore{}, &mockIndexer{}, &bytes.Buffer{}
	ds.On("MarkIfAbsent", mock.Anything, "event-ids", "m1").Return(&domain.DedupResult{MessageID: "m1", Recorded: true}, nil)
	ix.On("Index", mock.Anything, "hotels", "h1", mock.Anything).Return(nil, errors.New("index document h1: [503 Service Unavailable]"))

	_, err := newSvc(ds, ix, logs).Handle(context.Background(), snsEvent("m1", `{"Id":"h1"}`))

	assert.Equal(t, domain.KindDependency, domain.KindOf(err))
	ds.AssertNumberOfCalls(t, "MarkIfAbsent", 1)
	assert.Contains(t, logs.String(), "an error occurred")
}

func TestHandle_MissingConfigIsNotTaggedAsDependency(t *testing.T) {
	ds, ix, logs := &mockDedupStore{}, &mockIndexer{}, &bytes.Buffer{}
	ds.On("MarkIfAbsent", mock.Anything, "event-ids", "m1").Return(nil, domain.ErrTableNotDefined)

	_, err := newSvc(ds, ix, logs).Handle(context.Background(), snsEvent("m1", `{"Id":"h1"}`))

	assert.ErrorIs(t, err, domain.ErrTableNotDefined)
	assert.NotErrorIs(t, err, domain.ErrDependency)
}

func TestDependency(t *testing.T) {
	wrapped := dependency(errors.New("timeout"))
	assert.ErrorIs(t, wrapped, domain.ErrDependency)
	assert.Equal(t, wrapped, dependency(wrapped))
	assert.Equal(t, domain.ErrIndexNotDefined, dependency(domain.ErrIndexNotDefined))
}
