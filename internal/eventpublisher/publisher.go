// Package eventpublisher publishes recorded transfer attempts.
package eventpublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-petr/basic-bank/internal/domain"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// TransferRecorded is the event sent for every stored ledger record.
type TransferRecorded struct {
	EventID    uuid.UUID             `json:"event_id"`
	RecordID   int64                 `json:"record_id"`
	FromName   string                `json:"from_name"`
	ToName     string                `json:"to_name"`
	Amount     int64                 `json:"amount"`
	Status     domain.TransferStatus `json:"status"`
	OccurredAt time.Time             `json:"occurred_at"`
}

// NewTransferRecorded builds the event for rec with a fresh event id.
func NewTransferRecorded(rec domain.TransferRecord) TransferRecorded {
	return TransferRecorded{
		EventID:    uuid.New(),
		RecordID:   rec.ID,
		FromName:   rec.FromName,
		ToName:     rec.ToName,
		Amount:     rec.Amount,
		Status:     rec.Status,
		OccurredAt: rec.CreatedAt,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka writes TransferRecorded events to a kafka topic.
type Kafka struct {
	writer messageWriter
}

// NewKafka returns a Kafka publisher writing to topic on brokers.
func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish sends rec as a TransferRecorded event keyed by the sender's name.
func (p *Kafka) Publish(ctx context.Context, rec domain.TransferRecord) error {
	data, err := json.Marshal(NewTransferRecorded(rec))
	if err != nil {
		return fmt.Errorf("encode transfer event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.FromName),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("write transfer event: %w", err)
	}

	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Kafka) Close() error {
	return p.writer.Close()
}

// Noop drops every event. It is used when no brokers are configured.
type Noop struct{}

// Publish does nothing.
func (Noop) Publish(context.Context, domain.TransferRecord) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }
