package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/logger"
	"github.com/segmentio/kafka-go"
)

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// auditEvent is the payload published for every mutating operation.
type auditEvent struct {
	EventID   string `json:"event_id"`
	Type      string `json:"type"`
	UserID    int64  `json:"user_id"`
	EntityID  int64  `json:"entity_id"`
	Timestamp int64  `json:"timestamp"`
}

// publishEvent publishes an audit event to Kafka. Publishing is best-effort:
// a missing writer or a broker error never fails the request.
func publishEvent(ctx context.Context, w KafkaWriter, eventType string, userID, entityID int64) {
	if w == nil {
		return
	}

	evt := auditEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		EntityID:  entityID,
		Timestamp: time.Now().Unix(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		logger.Log.Errorw("failed to marshal audit event", "type", eventType, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.EventID),
		Value: data,
	}

	if err := w.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish audit event", "type", eventType, "error", err)
	} else {
		logger.Log.Infow("audit event published", "type", eventType, "entity_id", entityID)
	}
}
