package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Activity is the message published for every recorded activity log entry.
type Activity struct {
	ID         int       `json:"id"`
	UserID     *int      `json:"userId"`
	Activity   string    `json:"activity"`
	EntityType string    `json:"entityType"`
	EntityID   *int      `json:"entityId"`
	Timestamp  time.Time `json:"timestamp"`
}

// Key follows the "<entity>.<id>" convention so consumers can partition by entity.
func (a Activity) Key() string {
	if a.EntityID == nil {
		return a.EntityType
	}
	return fmt.Sprintf("%s.%d", a.EntityType, *a.EntityID)
}

type Publisher interface {
	Publish(ctx context.Context, a Activity) error
	Close() error
}

// Nop drops every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Activity) error { return nil }
func (Nop) Close() error                            { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher writes asynchronously to topic; delivery failures are logged, not returned.
func NewKafkaPublisher(brokers []string, topic string, log zerolog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		BatchTimeout:           50 * time.Millisecond,
		Completion: func(msgs []kafka.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("messages", len(msgs)).Msg("activity publish failed")
			}
		},
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, a Activity) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(a.Key()),
		Value: payload,
		Time:  a.Timestamp,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
