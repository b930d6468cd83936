package workers

import (
	"context"
	"errors"
	"fmt"

	"github.com/clitter/clitter/pkg/logger"
	"github.com/clitter/clitter/pkg/queue"
	"github.com/sirupsen/logrus"
)

// Subscriber is satisfied by *queue.KafkaConsumer.
type Subscriber interface {
	Subscribe(ctx context.Context, handler func(context.Context, queue.Event) error) error
}

// Invalidator drops cached profiles; *cache.ProfileCache satisfies it.
type Invalidator interface {
	Invalidate(ctx context.Context, authorIDs ...int64) error
}

// EventWorker consumes domain events and drops the cached profiles touched
// by follow changes.
type EventWorker struct {
	consumer Subscriber
	cache    Invalidator
	logger   *logger.Logger
}

func NewEventWorker(consumer Subscriber, cache Invalidator, logger *logger.Logger) *EventWorker {
	return &EventWorker{
		consumer: consumer,
		cache:    cache,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled or the consumer fails.
func (w *EventWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting event worker...")

	err := w.consumer.Subscribe(ctx, w.Handle)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *EventWorker) Handle(ctx context.Context, event queue.Event) error {
	w.logger.WithFields(logrus.Fields{
		"event_type": event.Type,
		"timestamp":  event.Timestamp,
	}).Debug("Processing event")

	switch event.Type {
	case queue.EventFollowCreated, queue.EventFollowDeleted:
		return w.handleFollowChanged(ctx, event)
	case queue.EventAuthorRegistered:
		var data queue.AuthorEventData
		if err := event.Decode(&data); err != nil {
			return fmt.Errorf("invalid %s event data: %w", event.Type, err)
		}
		w.logger.WithFields(logrus.Fields{"author_id": data.AuthorID, "name": data.Name}).Info("Author registered")
		return nil
	case queue.EventPostCreated, queue.EventPostDeleted,
		queue.EventLikeCreated, queue.EventLikeDeleted,
		queue.EventMediaCreated:
		// nothing cached depends on these yet
		return nil
	default:
		w.logger.WithField("event_type", event.Type).Warn("Unknown event type")
		return nil
	}
}

func (w *EventWorker) handleFollowChanged(ctx context.Context, event queue.Event) error {
	var data queue.FollowEventData
	if err := event.Decode(&data); err != nil {
		return fmt.Errorf("invalid %s event data: %w", event.Type, err)
	}
	if data.FollowerID == 0 || data.FollowingID == 0 {
		return fmt.Errorf("missing author ids in %s event", event.Type)
	}

	if err := w.cache.Invalidate(ctx, data.FollowerID, data.FollowingID); err != nil {
		return fmt.Errorf("failed to invalidate profiles: %w", err)
	}

	w.logger.WithFields(logrus.Fields{
		"follower_id":  data.FollowerID,
		"following_id": data.FollowingID,
	}).Info("Profiles invalidated")
	return nil
}
