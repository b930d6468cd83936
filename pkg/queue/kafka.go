package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type KafkaProducer struct {
	writer *kafka.Writer
}

type KafkaConsumer struct {
	reader *kafka.Reader
	logger *logrus.Logger
}

func NewKafkaProducer(brokers []string, topic string) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.Hash{},
		Async:    false,
	}

	return &KafkaProducer{writer: writer}
}

func NewKafkaConsumer(brokers []string, topic, groupID string, logger *logrus.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: 1 * time.Second,
		StartOffset:    kafka.FirstOffset,
	})

	return &KafkaConsumer{reader: reader, logger: logger}
}

// Publish writes value as JSON. Messages with the same key land on the same
// partition.
func (p *KafkaProducer) Publish(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	return p.writer.WriteMessages(ctx, message)
}

// Subscribe feeds decoded events to handler until ctx is cancelled.
// Undecodable messages and handler failures are logged and skipped.
func (c *KafkaConsumer) Subscribe(ctx context.Context, handler func(context.Context, Event) error) error {
	for {
		message, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		event, err := DecodeEvent(message.Value)
		if err != nil {
			c.logger.WithError(err).WithField("offset", message.Offset).Error("Failed to unmarshal message")
			continue
		}

		if err := handler(ctx, event); err != nil {
			c.logger.WithError(err).WithFields(logrus.Fields{
				"type":   event.Type,
				"offset": message.Offset,
			}).Error("Failed to handle message")
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

type EventType string

const (
	EventAuthorRegistered EventType = "author_registered"
	EventFollowCreated    EventType = "follow_created"
	EventFollowDeleted    EventType = "follow_deleted"
	EventPostCreated      EventType = "post_created"
	EventPostDeleted      EventType = "post_deleted"
	EventLikeCreated      EventType = "like_created"
	EventLikeDeleted      EventType = "like_deleted"
	EventMediaCreated     EventType = "media_created"
)

type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func NewEvent(eventType EventType, data interface{}) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return Event{Type: eventType, Timestamp: time.Now(), Data: raw}, nil
}

func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	if event.Type == "" {
		return Event{}, errors.New("event without type")
	}
	return event, nil
}

// Decode unmarshals the event payload into dest.
func (e Event) Decode(dest interface{}) error {
	return json.Unmarshal(e.Data, dest)
}

type AuthorEventData struct {
	AuthorID int64  `json:"author_id"`
	Name     string `json:"name"`
}

type FollowEventData struct {
	FollowerID  int64 `json:"follower_id"`
	FollowingID int64 `json:"following_id"`
}

type PostEventData struct {
	PostID   int64  `json:"post_id"`
	AuthorID int64  `json:"author_id"`
	Content  string `json:"content,omitempty"`
}

type LikeEventData struct {
	PostID int64 `json:"post_id"`
	UserID int64 `json:"user_id"`
}

type MediaEventData struct {
	MediaID int64  `json:"media_id"`
	Hash    string `json:"hash"`
	Link    string `json:"link"`
}
