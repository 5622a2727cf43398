package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/internal/config"
)

// kafkaWriter is the slice of kafka.Writer the publisher needs; tests inject
// a recording fake here.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer kafkaWriter
}

// NewKafkaPublisher returns a Publisher writing to the configured events
// topic. Events for the same transaction key the same partition, preserving
// their relative order.
func NewKafkaPublisher(cfg config.KafkaConfig) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.EventsTopic,
		Balancer:     &kafka.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireAll,
	}
	return &kafkaPublisher{writer: writer}
}

// NewPublisherWithWriter wires a custom writer, used by tests.
func NewPublisherWithWriter(writer kafkaWriter) Publisher {
	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("encode event %s: %w", event.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.Source),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "source", Value: []byte(event.Source)},
				{Key: "detail-type", Value: []byte(event.DetailType)},
			},
		})
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type kafkaConsumer struct {
	reader *kafka.Reader
}

// NewKafkaConsumer returns a Consumer reading the events topic as part of the
// configured consumer group.
func NewKafkaConsumer(cfg config.KafkaConfig) Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.EventsTopic,
		GroupID: cfg.GroupID,
	})
	return &kafkaConsumer{reader: reader}
}

func (c *kafkaConsumer) Fetch(ctx context.Context) (Message, error) {
	raw, err := c.reader.FetchMessage(ctx)
	if err != nil {
		return Message{}, err
	}

	var event domain.Event
	if err := json.Unmarshal(raw.Value, &event); err != nil {
		// Undecodable payloads still carry a commit token so the caller
		// can skip past them.
		return Message{raw: raw}, domain.WrapError(domain.ErrCodeInvalid, "decode event", err)
	}
	return Message{Event: event, raw: raw}, nil
}

func (c *kafkaConsumer) Commit(ctx context.Context, msg Message) error {
	raw, ok := msg.raw.(kafka.Message)
	if !ok {
		return nil
	}
	return c.reader.CommitMessages(ctx, raw)
}

func (c *kafkaConsumer) Close() error {
	return c.reader.Close()
}
