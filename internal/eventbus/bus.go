// Package eventbus is the in-process typed publish/subscribe channel that
// connects the review components. Delivery is synchronous and in registration
// order; a handler that needs to block must hand off to its own goroutine.
package eventbus

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Topic names a class of events
type Topic string

// Event is anything published on the bus
type Event interface {
	Topic() Topic
}

// Handler receives published events
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Stats is a snapshot of bus counters
type Stats struct {
	Published   uint64        `json:"published"`
	Delivered   uint64        `json:"delivered"`
	Subscribers map[Topic]int `json:"subscribers"`
}

// Bus fans events out to subscribers by topic
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]subscription
	nextID uint64
	logger *zap.Logger

	published atomic.Uint64
	delivered atomic.Uint64
}

// New creates an empty bus
func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[Topic][]subscription),
		logger: logger,
	}
}

// Subscribe registers handler for topic and returns a func that removes it.
// Calling the returned func more than once is a no-op.
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(topic, id) })
	}
}

func (b *Bus) unsubscribe(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			// copy so in-flight Publish snapshots stay intact
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			if len(next) == 0 {
				delete(b.subs, topic)
			} else {
				b.subs[topic] = next
			}
			return
		}
	}
}

// Publish delivers event to every current subscriber of its topic.
// A panicking handler is logged and does not stop delivery to the others.
func (b *Bus) Publish(event Event) {
	if event == nil {
		return
	}
	b.mu.RLock()
	subs := b.subs[event.Topic()]
	b.mu.RUnlock()

	b.published.Add(1)
	for _, s := range subs {
		b.deliver(event, s)
	}
}

func (b *Bus) deliver(event Event, s subscription) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("eventbus.handler.panic",
				zap.String("topic", string(event.Topic())),
				zap.Any("recovered", r),
			)
		}
	}()
	s.handler(event)
	b.delivered.Add(1)
}

// Stats returns current counters
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subscribers := make(map[Topic]int, len(b.subs))
	for topic, subs := range b.subs {
		subscribers[topic] = len(subs)
	}
	return Stats{
		Published:   b.published.Load(),
		Delivered:   b.delivered.Load(),
		Subscribers: subscribers,
	}
}
