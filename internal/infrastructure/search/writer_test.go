package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/hotel-event-indexer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport answers each request with the next queued response.
type fakeTransport struct {
	requests  []*http.Request
	bodies    []string
	responses []*http.Response
	err       error
}

func (f *fakeTransport) Perform(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	body := ""
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}
	f.bodies = append(f.bodies, body)
	if f.err != nil {
		return nil, f.err
	}
	res := f.responses[0]
	f.responses = f.responses[1:]
	return res, nil
}

func reply(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestIndex_PutsDocumentUnderPayloadID(t *testing.T) {
	tr := &fakeTransport{responses: []*http.Response{
		reply(http.StatusCreated, `{"_index":"hotels","_id":"h1","_version":1,"result":"created"}`),
	}}
	payload := domain.Payload{"Id": "h1", "name": "Hotel A", "stars": json.Number("4")}

	res, err := NewWriter(tr, "").Index(context.Background(), "hotels", "h1", payload)

	require.NoError(t, err)
	assert.Equal(t, &domain.IndexResult{Index: "hotels", DocumentID: "h1", Result: "created", Version: 1}, res)
	require.Len(t, tr.requests, 1)
	assert.Equal(t, http.MethodPut, tr.requests[0].Method)
	assert.Equal(t, "/hotels/_doc/h1", tr.requests[0].URL.Path)
	assert.JSONEq(t, `{"Id":"h1","name":"Hotel A","stars":4}`, tr.bodies[0])
}

func TestIndex_OverwriteReportsUpdated(t *testing.T) {
	tr := &fakeTransport{responses: []*http.Response{
		reply(http.StatusOK, `{"_version":2,"result":"updated"}`),
	}}

	res, err := NewWriter(tr, "wait_for").Index(context.Background(), "hotels", "h1", domain.Payload{"Id": "h1"})

	require.NoError(t, err)
	assert.Equal(t, "updated", res.Result)
	assert.Equal(t, int64(2), res.Version)
	assert.Equal(t, "wait_for", tr.requests[0].URL.Query().Get("refresh"))
}

func TestIndex_MissingIndexName(t *testing.T) {
	tr := &fakeTransport{}

	_, err := NewWriter(tr, "").Index(context.Background(), "", "h1", domain.Payload{"Id": "h1"})

	assert.ErrorIs(t, err, domain.ErrIndexNotDefined)
	assert.Empty(t, tr.requests)
}

func TestIndex_ErrorStatus(t *testing.T) {
	tr := &fakeTransport{responses: []*http.Response{
		reply(http.StatusServiceUnavailable, `{"error":"cluster_block_exception"}`),
	}}

	_, err := NewWriter(tr, "").Index(context.Background(), "hotels", "h1", domain.Payload{"Id": "h1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index document h1")
	assert.Contains(t, err.Error(), "503")
}

func TestIndex_TransportError(t *testing.T) {
	tr := &fakeTransport{err: errors.New("connection refused")}

	_, err := NewWriter(tr, "").Index(context.Background(), "hotels", "h1", domain.Payload{"Id": "h1"})

	assert.ErrorContains(t, err, "connection refused")
}

func TestEnsureIndex_Exists(t *testing.T) {
	tr := &fakeTransport{responses: []*http.Response{reply(http.StatusOK, "")}}

	created, err := NewWriter(tr, "").EnsureIndex(context.Background(), "hotels")

	require.NoError(t, err)
	assert.False(t, created)
	require.Len(t, tr.requests, 1)
	assert.Equal(t, http.MethodHead, tr.requests[0].Method)
}

func TestEnsureIndex_Creates(t *testing.T) {
	tr := &fakeTransport{responses: []*http.Response{
		reply(http.StatusNotFound, ""),
		reply(http.StatusOK, `{"acknowledged":true}`),
	}}

	created, err := NewWriter(tr, "").EnsureIndex(context.Background(), "hotels")

	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, tr.requests, 2)
	assert.Equal(t, http.MethodPut, tr.requests[1].Method)
	assert.Equal(t, "/hotels", tr.requests[1].URL.Path)
}
