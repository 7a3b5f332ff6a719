package events

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"ms-booking/internal/config"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

// Sink writes an encoded message to a topic. *kafka.Producer satisfies it.
type Sink interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// KafkaPublisher routes listing events to one topic per entity kind,
// keyed by entity so all events for one record stay ordered.
type KafkaPublisher struct {
	sink   Sink
	topics config.TopicConfig
}

func NewKafkaPublisher(sink Sink, topics config.TopicConfig) *KafkaPublisher {
	return &KafkaPublisher{sink: sink, topics: topics}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event models.ListingEvent) error {
	topic, err := p.topicFor(event.Entity)
	if err != nil {
		return err
	}
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	key := fmt.Sprintf("%s-%d", event.Entity, event.EntityID)
	return p.sink.Publish(ctx, topic, []byte(key), event)
}

func (p *KafkaPublisher) topicFor(entity string) (string, error) {
	switch entity {
	case "venue":
		return p.topics.Venues, nil
	case "artist":
		return p.topics.Artists, nil
	case "show":
		return p.topics.Shows, nil
	default:
		return "", fmt.Errorf("no topic for entity %q", entity)
	}
}

// LogPublisher records events in the log when Kafka is disabled.
type LogPublisher struct {
	Logger *logger.Logger
}

func (p LogPublisher) Publish(_ context.Context, event models.ListingEvent) error {
	p.Logger.Debug("EVENTS", fmt.Sprintf("%s %s id=%d", event.Entity, event.Action, event.EntityID))
	return nil
}

type Publisher interface {
	Publish(ctx context.Context, event models.ListingEvent) error
}

// Recorder observes publish outcomes. *metrics.Metrics satisfies it.
type Recorder interface {
	EventPublished(entity string, err error)
}

// Counted reports every publish attempt of Next to Recorder.
type Counted struct {
	Next     Publisher
	Recorder Recorder
}

func (c Counted) Publish(ctx context.Context, event models.ListingEvent) error {
	err := c.Next.Publish(ctx, event)
	c.Recorder.EventPublished(event.Entity, err)
	return err
}

// Fanout delivers each event to every publisher in order and returns the first error.
// All publishers see the same EventID.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event models.ListingEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	var first error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
