package domain

import (
	"encoding/json"
	"fmt"
)

// PayloadIDField is the payload attribute used as the search document id.
const PayloadIDField = "Id"

// Notification is one SNS message taken from an inbound envelope.
type Notification struct {
	MessageID string
	Payload   Payload
}

// Payload is the decoded JSON object carried in an SNS message.
// Numbers are held as json.Number so they are re-encoded unchanged.
type Payload map[string]any

// DocumentID returns the payload's Id attribute.
func (p Payload) DocumentID() (string, error) {
	v, ok := p[PayloadIDField]
	if !ok {
		return "", fmt.Errorf("payload has no %s field: %w", PayloadIDField, ErrMalformedEnvelope)
	}
	var id string
	switch t := v.(type) {
	case string:
		id = t
	case json.Number:
		id = t.String()
	default:
		return "", fmt.Errorf("payload %s must be a string, got %T: %w", PayloadIDField, v, ErrMalformedEnvelope)
	}
	if id == "" {
		return "", fmt.Errorf("payload %s is empty: %w", PayloadIDField, ErrMalformedEnvelope)
	}
	return id, nil
}

// EventRecord is the item stored in the dedup table.
type EventRecord struct {
	EventID string `dynamodbav:"eventId"`
}

// DedupResult reports what the deduplication gate did for one message id.
type DedupResult struct {
	MessageID string
	// Recorded is false when a record for MessageID already existed.
	Recorded bool
}

// IndexResult reports the outcome of one index write.
type IndexResult struct {
	Index      string `json:"index"`
	DocumentID string `json:"document_id"`
	Result     string `json:"result"` // "created" or "updated"
	Version    int64  `json:"version"`
}
