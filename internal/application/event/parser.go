package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-lambda-go/events"
	"github.com/hotel-event-indexer/internal/domain"
	"github.com/hotel-event-indexer/internal/pkg/validate"
)

type snsMessage struct {
	MessageID string `json:"MessageId" validate:"required"`
	Message   string `json:"Message" validate:"required"`
}

// Parse decodes a raw {"Records":[{"Sns":{...}}]} envelope.
func Parse(raw []byte) (*domain.Notification, error) {
	var evt events.SNSEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return nil, fmt.Errorf("decode envelope: %v: %w", err, domain.ErrMalformedEnvelope)
	}
	return FromSNSEvent(evt)
}

// FromSNSEvent reads the first record of evt. Further records are ignored.
func FromSNSEvent(evt events.SNSEvent) (*domain.Notification, error) {
	if len(evt.Records) == 0 {
		return nil, fmt.Errorf("envelope has no records: %w", domain.ErrMalformedEnvelope)
	}
	sns := evt.Records[0].SNS
	return Decode(sns.MessageID, sns.Message)
}

// Decode validates an SNS message id and body and decodes the body, which
// must be a single JSON object.
func Decode(messageID, message string) (*domain.Notification, error) {
	if err := validate.Struct(snsMessage{MessageID: messageID, Message: message}); err != nil {
		return nil, fmt.Errorf("sns record: %v: %w", err, domain.ErrMalformedEnvelope)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(message)))
	dec.UseNumber()
	var payload domain.Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode message %s: %v: %w", messageID, err, domain.ErrMalformedEnvelope)
	}
	if payload == nil {
		return nil, fmt.Errorf("message %s is not a JSON object: %w", messageID, domain.ErrMalformedEnvelope)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("message %s has trailing data: %w", messageID, domain.ErrMalformedEnvelope)
	}
	return &domain.Notification{MessageID: messageID, Payload: payload}, nil
}
