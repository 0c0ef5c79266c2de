package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/hotel-event-indexer/internal/application/event"
	"github.com/hotel-event-indexer/internal/domain"
	"github.com/hotel-event-indexer/internal/infrastructure/sns"
	"github.com/hotel-event-indexer/internal/pkg/id"
	"github.com/hotel-event-indexer/internal/pkg/logger"
)

const maxBodyBytes = 1 << 20

// SNS HTTP(S) delivery message types.
const (
	snsTypeNotification     = "Notification"
	snsTypeSubscriptionConf = "SubscriptionConfirmation"
	snsTypeUnsubscribeConf  = "UnsubscribeConfirmation"
	snsMessageTypeHeader    = "x-amz-sns-message-type"
)

// snsHTTPMessage is the body SNS posts to an HTTP(S) subscription.
// Signature fields are not verified; the server is for local use only.
type snsHTTPMessage struct {
	Type         string `json:"Type"`
	MessageID    string `json:"MessageId"`
	TopicArn     string `json:"TopicArn"`
	Subject      string `json:"Subject"`
	Message      string `json:"Message"`
	Timestamp    string `json:"Timestamp"`
	Token        string `json:"Token"`
	SubscribeURL string `json:"SubscribeURL"`
}

// EventHandler feeds notifications received over HTTP into the event service.
type EventHandler struct {
	svc       event.Service
	confirmer sns.SubscriptionConfirmer
	log       *slog.Logger
}

// NewEventHandler returns an EventHandler. confirmer may be nil, in which
// case subscription confirmations are rejected.
func NewEventHandler(svc event.Service, confirmer sns.SubscriptionConfirmer, log *slog.Logger) *EventHandler {
	if log == nil {
		log = slog.Default()
	}
	return &EventHandler{svc: svc, confirmer: confirmer, log: log}
}

// Invoke accepts a Lambda-style SNS envelope, as the function would receive it.
func (h *EventHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	var evt events.SNSEvent
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&evt); err != nil {
		httpError(w, fmt.Errorf("decode envelope: %v: %w", err, domain.ErrMalformedEnvelope))
		return
	}
	h.handle(w, r, evt)
}

// SNS accepts a native SNS HTTP(S) subscription delivery.
func (h *EventHandler) SNS(w http.ResponseWriter, r *http.Request) {
	var msg snsHTTPMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid SNS message")
		return
	}
	if hdr := r.Header.Get(snsMessageTypeHeader); hdr != "" && hdr != msg.Type {
		writeError(w, http.StatusBadRequest, "message type header does not match body")
		return
	}

	switch msg.Type {
	case snsTypeNotification:
		h.handle(w, r, toSNSEvent(msg))
	case snsTypeSubscriptionConf:
		if h.confirmer == nil {
			writeError(w, http.StatusNotImplemented, "subscription confirmation is not configured")
			return
		}
		arn, err := h.confirmer.ConfirmSubscription(r.Context(), msg.TopicArn, msg.Token)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		h.log.InfoContext(r.Context(), "confirmed subscription", "topic_arn", msg.TopicArn, "subscription_arn", arn)
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "subscription confirmed"})
	case snsTypeUnsubscribeConf:
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "unsubscribed"})
	default:
		writeError(w, http.StatusBadRequest, "unknown SNS message type")
	}
}

func (h *EventHandler) handle(w http.ResponseWriter, r *http.Request, evt events.SNSEvent) {
	log := h.log.With("invocation_id", id.New())
	out, err := h.svc.Handle(logger.WithContext(r.Context(), log), evt)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OutcomeEnvelope{
		MessageID:  out.MessageID,
		DocumentID: out.DocumentID,
		Duplicate:  out.Duplicate,
		Result:     out.Result,
	})
}

// toSNSEvent wraps an HTTP delivery into the one-record envelope Lambda uses.
func toSNSEvent(msg snsHTTPMessage) events.SNSEvent {
	ts, _ := time.Parse(time.RFC3339, msg.Timestamp)
	return events.SNSEvent{Records: []events.SNSEventRecord{{
		EventSource:  "aws:sns",
		EventVersion: "1.0",
		SNS: events.SNSEntity{
			Type:      msg.Type,
			MessageID: msg.MessageID,
			TopicArn:  msg.TopicArn,
			Subject:   msg.Subject,
			Message:   msg.Message,
			Timestamp: ts,
		},
	}}}
}
