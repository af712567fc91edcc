package broker

import (
	"context"
	"sync"
	"time"
)

// inMemoryBufferSize matches the Redpanda consumer channel buffer.
const inMemoryBufferSize = 100

// InMemoryBroker is a process-local Broker used by tests, demos and
// single-binary runs that have no Redpanda to talk to. Every subscriber of
// a topic receives every message; consumer groups are not simulated.
type InMemoryBroker struct {
	mu          sync.Mutex
	subscribers map[string][]chan Message // topic -> subscriber channels
	offsets     map[string]int64          // topic -> next offset
	closed      bool
}

// NewInMemoryBroker creates a new InMemoryBroker instance.
func NewInMemoryBroker() *InMemoryBroker {
	return &InMemoryBroker{
		subscribers: make(map[string][]chan Message),
		offsets:     make(map[string]int64),
	}
}

// Publish fans the message out to all current subscribers of the topic.
// A subscriber whose buffer is full misses the message rather than blocking
// the publisher.
func (b *InMemoryBroker) Publish(ctx context.Context, topic string, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	msg := Message{
		Topic:     topic,
		Key:       key,
		Value:     append([]byte(nil), value...),
		Offset:    b.offsets[topic],
		Timestamp: time.Now().UnixMilli(),
	}
	b.offsets[topic]++

	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber channel for the topic.
func (b *InMemoryBroker) Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	ch := make(chan Message, inMemoryBufferSize)
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	return ch, nil
}

// Close closes all subscriber channels. Further publishes and subscribes
// return ErrClosed.
func (b *InMemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, subs := range b.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	b.subscribers = make(map[string][]chan Message)
	return nil
}
