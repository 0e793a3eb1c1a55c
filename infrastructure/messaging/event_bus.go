// Package messaging delivers domain events to in-process handlers.
package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"thoughtgraph/domain/events"
)

const handlerTimeout = 5 * time.Second

// HandlerFunc processes one event
type HandlerFunc func(ctx context.Context, event events.DomainEvent) error

type registration struct {
	name    string
	handler HandlerFunc
}

// EventBus dispatches events to the handlers registered for their type.
// It implements ports.EventPublisher.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]registration
	logger   *zap.Logger
}

// NewEventBus creates a bus with no handlers
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]registration),
		logger:   logger,
	}
}

// Subscribe registers a named handler for the given event types
func (b *EventBus) Subscribe(name string, handler HandlerFunc, eventTypes ...string) error {
	if handler == nil {
		return fmt.Errorf("handler %s cannot be nil", name)
	}
	if len(eventTypes) == 0 {
		return fmt.Errorf("handler %s subscribes to no event types", name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, eventType := range eventTypes {
		if eventType == "" {
			return fmt.Errorf("event type cannot be empty")
		}
		b.handlers[eventType] = append(b.handlers[eventType], registration{name: name, handler: handler})
		b.logger.Debug("registered event handler",
			zap.String("handler", name),
			zap.String("eventType", eventType),
		)
	}
	return nil
}

// Publish runs every handler for the event in registration order. A failing
// handler does not stop the others; an error is returned only when all fail.
func (b *EventBus) Publish(ctx context.Context, event events.DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}
	eventType := event.GetEventType()

	b.mu.RLock()
	handlers := make([]registration, len(b.handlers[eventType]))
	copy(handlers, b.handlers[eventType])
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.logger.Debug("no handlers registered for event type", zap.String("eventType", eventType))
		return nil
	}

	var lastErr error
	failed := 0
	for _, h := range handlers {
		start := time.Now()
		err := b.run(ctx, h, event)
		if err != nil {
			failed++
			lastErr = err
			b.logger.Error("event handler failed",
				zap.String("handler", h.name),
				zap.String("eventType", eventType),
				zap.String("aggregateID", event.GetAggregateID()),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
		}
	}

	if failed == len(handlers) {
		return fmt.Errorf("all handlers failed for event %s: %w", eventType, lastErr)
	}
	return nil
}

func (b *EventBus) run(ctx context.Context, h registration, event events.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %s panicked: %v", h.name, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()
	return h.handler(ctx, event)
}
