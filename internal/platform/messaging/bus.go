package messaging

import (
	"context"
	"log/slog"
	"sync"

	"psephos/internal/shared/events"
)

// Bus is the event fan-out behind the outbox relay. Current implementation
// is in-process publish/subscribe while runtime wiring is finalized for an
// external broker; the relay only depends on the Publish contract.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan events.Envelope
	logger      *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string][]chan events.Envelope),
		logger:      logger,
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, event events.Envelope) error {
	b.mu.RLock()
	subs := append([]chan events.Envelope(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sub <- event:
		default:
			if b.logger != nil {
				b.logger.Warn("dropping event for slow subscriber",
					"event", "bus_publish_drop",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", topic,
					"event_id", event.EventID,
				)
			}
		}
	}

	if b.logger != nil {
		b.logger.Info("event published",
			"event", "bus_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
	}
	return nil
}

// Subscribe returns a buffered channel receiving events for topic. Slow
// consumers drop messages rather than block publishers.
func (b *Bus) Subscribe(topic string, buffer int) <-chan events.Envelope {
	if buffer <= 0 {
		buffer = 64
	}
	ch := make(chan events.Envelope, buffer)
	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()
	return ch
}
