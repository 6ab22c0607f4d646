package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ia-papeleria/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher streams catalog events to Kafka, keyed by product id so each
// product's events stay ordered on one partition.
type Publisher struct {
	writer  messageWriter
	timeout time.Duration
}

func NewPublisher(brokers []string, topic string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            3,
		WriteTimeout:           10 * time.Second,
	}
	return newPublisher(w)
}

func newPublisher(w messageWriter) *Publisher {
	return &Publisher{writer: w, timeout: 10 * time.Second}
}

func (p *Publisher) NotifySale(ctx context.Context, ev model.SaleEvent) {
	if err := p.publish(ctx, model.EventSaleRecorded, ev.ProductID.String(), ev.EventID.String(), ev); err != nil {
		log.Error().Err(err).Str("product", ev.ProductName).Msg("Failed to publish sale event")
	}
}

func (p *Publisher) NotifyStock(ctx context.Context, ev model.StockEvent) {
	if err := p.publish(ctx, ev.Action, ev.ProductID.String(), ev.EventID.String(), ev); err != nil {
		log.Error().Err(err).Str("product", ev.Name).Msg("Failed to publish stock event")
	}
}

func (p *Publisher) publish(ctx context.Context, eventType, key, eventID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
			{Key: "event-id", Value: []byte(eventID)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().Str("event_type", eventType).Str("key", key).Msg("Published event")
	return nil
}

func (p *Publisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}
