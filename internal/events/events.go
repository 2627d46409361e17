// Package events publishes domain events after their rows commit.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	UserRegistered = "user.registered"
	PostCreated    = "post.created"
	CommentCreated = "comment.created"
)

// Event is the JSON payload written to the topic. ID is the id of the created entity.
type Event struct {
	Type      string    `json:"type"`
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Publisher is fire-and-forget: implementations log failures instead of returning them.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Nop drops every event. Used when KAFKA_BROKERS is unset.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

type KafkaPublisher struct {
	w *kafka.Writer
}

// NewKafkaPublisher writes asynchronously to topic; delivery errors are logged by the writer's completion hook.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				slog.Error("events: delivery failed", "count", len(messages), "err", err)
			}
		},
	}
	return &KafkaPublisher{w: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) {
	msg, err := message(e)
	if err != nil {
		slog.Error("events: encode failed", "type", e.Type, "err", err)
		return
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		slog.Error("events: publish failed", "type", e.Type, "id", e.ID, "err", err)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

// message keys events by post so a post and its comments land on one partition, in order.
func message(e Event) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, err
	}
	partitionKey := e.PostID
	if e.Type == PostCreated {
		partitionKey = e.ID
	}
	if e.Type == UserRegistered {
		partitionKey = e.UserID
	}
	return kafka.Message{
		Key:   []byte(strconv.Itoa(partitionKey)),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	}, nil
}
