package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/hotel-event-indexer/internal/domain"
)

// Writer upserts event payloads into a search index.
type Writer struct {
	transport esapi.Transport
	refresh   string
}

// NewWriter returns a Writer sending requests through transport, normally an
// *elasticsearch.Client. refresh is passed through as the index refresh
// parameter; empty leaves the cluster default.
func NewWriter(transport esapi.Transport, refresh string) *Writer {
	return &Writer{transport: transport, refresh: refresh}
}

type indexResponse struct {
	Result  string `json:"result"`
	Version int64  `json:"_version"`
}

// Index writes payload as document documentID of index, replacing any
// existing document with that id in full.
func (w *Writer) Index(ctx context.Context, index, documentID string, payload domain.Payload) (*domain.IndexResult, error) {
	if index == "" {
		return nil, domain.ErrIndexNotDefined
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal document %s: %w", documentID, err)
	}

	res, err := esapi.IndexRequest{
		Index:      index,
		DocumentID: documentID,
		Body:       bytes.NewReader(body),
		Refresh:    w.refresh,
	}.Do(ctx, w.transport)
	if err != nil {
		return nil, fmt.Errorf("index document %s: %w", documentID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("index document %s: %s", documentID, res.String())
	}

	var ir indexResponse
	if err := json.NewDecoder(res.Body).Decode(&ir); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode index response: %w", err)
	}
	return &domain.IndexResult{
		Index:      index,
		DocumentID: documentID,
		Result:     ir.Result,
		Version:    ir.Version,
	}, nil
}

// EnsureIndex creates index unless it already exists.
func (w *Writer) EnsureIndex(ctx context.Context, index string) (created bool, err error) {
	if index == "" {
		return false, domain.ErrIndexNotDefined
	}
	res, err := esapi.IndicesExistsRequest{Index: []string{index}}.Do(ctx, w.transport)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", index, err)
	}
	res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return false, nil
	case http.StatusNotFound:
	default:
		return false, fmt.Errorf("check index %s: %s", index, res.String())
	}

	res, err = esapi.IndicesCreateRequest{Index: index}.Do(ctx, w.transport)
	if err != nil {
		return false, fmt.Errorf("create index %s: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return false, fmt.Errorf("create index %s: %s", index, res.String())
	}
	return true, nil
}
