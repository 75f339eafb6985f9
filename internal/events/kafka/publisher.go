package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"parkly/internal/domain"
	"parkly/internal/events"
)

// Publisher mirrors dispatched domain events onto a kafka topic for external
// consumers. Records are keyed by aggregate id so per-aggregate ordering
// survives partitioning.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Publisher{client: client, topic: topic, logger: logger}, nil
}

// EnsureTopic creates the topic if the cluster does not have it yet.
func (p *Publisher) EnsureTopic(ctx context.Context, partitions int32) error {
	admin := kadm.NewClient(p.client)
	_, err := admin.CreateTopic(ctx, partitions, -1, nil, p.topic)
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("ensure topic %s: %w", p.topic, err)
	}
	return nil
}

func (p *Publisher) Publish(ctx context.Context, evts ...domain.Event) error {
	for _, event := range evts {
		payload, err := events.Encode(event)
		if err != nil {
			return err
		}
		record := &kgo.Record{
			Topic: p.topic,
			Key:   []byte(event.AggregateID()),
			Value: payload,
			Headers: []kgo.RecordHeader{
				{Key: "event_name", Value: []byte(event.EventName())},
			},
		}
		if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
			return fmt.Errorf("produce %s: %w", event.EventName(), err)
		}
	}
	return nil
}

func (p *Publisher) Close() {
	p.client.Close()
}
