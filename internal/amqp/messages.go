package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"wealthway/internal/core"
	"wealthway/internal/events"
)

// TransactionEventMessage is the wire form of an events.TransactionEvent.
// MessageID lets consumers drop redelivered duplicates.
type TransactionEventMessage struct {
	MessageID   string           `json:"message_id"`
	Kind        events.Kind      `json:"kind"`
	Transaction core.Transaction `json:"transaction"`
	Timestamp   time.Time        `json:"timestamp"`
}

// NewTransactionEventMessage wraps an event in a message with a fresh ID.
func NewTransactionEventMessage(e events.TransactionEvent) *TransactionEventMessage {
	ts := e.At
	if ts.IsZero() {
		ts = time.Now()
	}
	return &TransactionEventMessage{
		MessageID:   uuid.NewString(),
		Kind:        e.Kind,
		Transaction: e.Transaction,
		Timestamp:   ts,
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
