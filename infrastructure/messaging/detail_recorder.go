package messaging

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"thoughtgraph/domain/events"
)

// DetailEventTypes are the events a detail view listens for
var DetailEventTypes = []string{events.TypeSessionDetailRequested, events.TypeIdeaDetailRequested}

// DetailRecorder logs detail requests and keeps the most recent one for
// whatever detail view polls it.
type DetailRecorder struct {
	mu     sync.RWMutex
	last   events.DomainEvent
	logger *zap.Logger
}

// NewDetailRecorder creates a recorder and subscribes it to bus
func NewDetailRecorder(bus *EventBus, logger *zap.Logger) (*DetailRecorder, error) {
	r := &DetailRecorder{logger: logger}
	if err := bus.Subscribe("detail-recorder", r.Handle, DetailEventTypes...); err != nil {
		return nil, err
	}
	return r, nil
}

// Handle records one detail event
func (r *DetailRecorder) Handle(_ context.Context, event events.DomainEvent) error {
	r.mu.Lock()
	r.last = event
	r.mu.Unlock()

	r.logger.Info("detail requested",
		zap.String("eventType", event.GetEventType()),
		zap.String("nodeID", event.GetAggregateID()),
	)
	return nil
}

// Last returns the most recent detail request, if any
func (r *DetailRecorder) Last() (events.DomainEvent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last, r.last != nil
}
