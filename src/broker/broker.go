// Package broker defines the report bus interface and its implementations.
// The pipeline publishes one message per analyzed build; the archive agent
// and any other interested consumer subscribe to the reports topic.
package broker

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a broker after Close.
var ErrClosed = errors.New("broker is closed")

// Broker abstracts message publishing and consumption.
type Broker interface {
	// Publish sends a message to a topic with a key for partitioning.
	// The in-memory broker ignores the key; Redpanda/Kafka uses it for
	// partition assignment.
	Publish(ctx context.Context, topic string, key string, value []byte) error

	// Subscribe returns a channel for consuming messages from a topic.
	// groupID coordinates consumer groups in Kafka; the in-memory broker
	// fans every message out to all subscribers regardless of group.
	Subscribe(ctx context.Context, topic string, groupID string) (<-chan Message, error)

	// Close shuts down the broker connection gracefully.
	Close() error
}

// Message represents a consumed message from a broker.
type Message struct {
	Topic     string
	Key       string
	Value     []byte
	Offset    int64
	Partition int32
	// Timestamp is the message time in epoch milliseconds.
	Timestamp int64
}
