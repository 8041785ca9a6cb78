package dispatch

import "errors"

var (
	// ErrQueueNotFound means the symbol has no queue. Queues exist for
	// exactly the registered instrument set, so hitting this from the
	// ingress path indicates a registry/queue mismatch.
	ErrQueueNotFound = errors.New("queue not found")

	// ErrQueueFull is the backpressure signal: the instrument's queue is at
	// capacity and the producer is rejected rather than blocked.
	ErrQueueFull = errors.New("queue full")

	// ErrUnknownTarget means the signal's declared name is not a registered
	// instrument at all.
	ErrUnknownTarget = errors.New("unknown target symbol")

	// ErrNoQueueAvailable means neither the target symbol nor the URL-path
	// symbol resolves to a queue.
	ErrNoQueueAvailable = errors.New("no queue available")

	// Delivery outcome classification.
	ErrDeliveryTimeout    = errors.New("delivery timeout")
	ErrDeliveryConnection = errors.New("connection error")
	ErrDeliveryUnexpected = errors.New("unexpected delivery error")
)
