// Package stream publishes executed trades to Kafka for downstream
// consumers (tickers, analytics, risk).
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"matchbook/internal/book"

	"github.com/segmentio/kafka-go"
)

// Publisher writes trade events to a Kafka topic, keyed by symbol so a
// single instrument's trades stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// PublishTrades sends one message per trade.
func (p *Publisher) PublishTrades(ctx context.Context, trades []book.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	msgs, err := messages(trades)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish trades: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

func messages(trades []book.Trade) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(trades))
	for _, t := range trades {
		value, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal trade %d: %w", t.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(t.Symbol),
			Value: value,
		})
	}
	return msgs, nil
}
