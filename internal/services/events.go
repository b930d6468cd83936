package services

import (
	"context"
	"strconv"

	"github.com/clitter/clitter/internal/models"
	"github.com/clitter/clitter/pkg/logger"
	"github.com/clitter/clitter/pkg/metrics"
	"github.com/clitter/clitter/pkg/queue"
)

// EventPublisher is satisfied by *queue.KafkaProducer.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// ProfileCache is satisfied by *cache.ProfileCache.
type ProfileCache interface {
	Get(ctx context.Context, authorID int64) (*models.Profile, bool, error)
	Set(ctx context.Context, profile *models.Profile) error
	Invalidate(ctx context.Context, authorIDs ...int64) error
}

// Emitter publishes domain events after a successful commit. Delivery is
// best effort: failures are logged and counted, never returned. A nil
// publisher disables publishing.
type Emitter struct {
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewEmitter(publisher EventPublisher, m *metrics.Metrics, logger *logger.Logger) *Emitter {
	return &Emitter{publisher: publisher, metrics: m, logger: logger}
}

func (e *Emitter) Emit(ctx context.Context, key int64, eventType queue.EventType, data interface{}) {
	if e == nil || e.publisher == nil {
		return
	}

	event, err := queue.NewEvent(eventType, data)
	if err == nil {
		err = e.publisher.Publish(ctx, strconv.FormatInt(key, 10), event)
	}

	result := "ok"
	if err != nil {
		result = "error"
		e.logger.WithError(err).WithField("type", eventType).Error("Failed to publish event")
	}
	if e.metrics != nil {
		e.metrics.EventsPublished.WithLabelValues(string(eventType), result).Inc()
	}
}
