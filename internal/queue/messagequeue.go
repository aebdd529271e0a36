package queue

// Publisher is the write side of the message queue. Services that record
// event-document writes only need this.
type Publisher interface {
	Publish(queueName string, body []byte) error
}

// MessageQueue defines the interface for message queue services.
type MessageQueue interface {
	Publisher
	// Consume blocks, invoking handler for every message delivered on the queue.
	Consume(queueName string, handler func(body []byte)) error
	Close() error
}

// EventChangesQueue is the queue every event-document write is published to
// and the notifier consumes from.
const EventChangesQueue = "event-changes"
