// Package kafka publishes booking events to a Kafka topic, keyed by booking id
// so that every event of one booking lands on the same partition.
package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"sharedcab/internal/core/ports"
	"sharedcab/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

const writeTimeout = 2 * time.Second

var _ ports.EventPublisher = (*Publisher)(nil)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer MessageWriter
}

// NewPublisher writes to topic on the comma-separated brokers list.
func NewPublisher(brokers, topic string) (*Publisher, error) {
	if strings.TrimSpace(brokers) == "" {
		return nil, errs.NewValueIsRequiredError("kafka brokers")
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errs.NewValueIsRequiredError("kafka topic")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return NewPublisherWithWriter(w), nil
}

func NewPublisherWithWriter(w MessageWriter) *Publisher {
	return &Publisher{writer: w}
}

func (p *Publisher) Publish(ctx context.Context, event ports.BookingEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.BookingID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	})
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
