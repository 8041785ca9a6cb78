package dispatch

import (
	"context"
	"sort"

	"signalrelay/internal/platform/models"
)

// QueueManager owns one FIFO channel per registered instrument. Producers
// are the ingress handlers; each queue has exactly one consumer, the
// instrument's worker. The queue set is fixed at construction.
type QueueManager struct {
	queues map[string]chan *models.Envelope
}

func NewQueueManager(symbols []string, capacity int) *QueueManager {
	if capacity <= 0 {
		capacity = 256
	}

	qm := &QueueManager{queues: make(map[string]chan *models.Envelope, len(symbols))}
	for _, symbol := range symbols {
		qm.queues[symbol] = make(chan *models.Envelope, capacity)
	}
	return qm
}

// Put enqueues without blocking. A full queue rejects the producer with
// ErrQueueFull so the ingress can surface backpressure to the caller.
func (qm *QueueManager) Put(symbol string, env *models.Envelope) error {
	q, ok := qm.queues[symbol]
	if !ok {
		return ErrQueueNotFound
	}

	select {
	case q <- env:
		return nil
	default:
		return ErrQueueFull
	}
}

// Get blocks until an item is available or ctx is cancelled.
func (qm *QueueManager) Get(ctx context.Context, symbol string) (*models.Envelope, error) {
	q, ok := qm.queues[symbol]
	if !ok {
		return nil, ErrQueueNotFound
	}

	select {
	case env := <-q:
		return env, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Has reports whether the symbol owns a queue.
func (qm *QueueManager) Has(symbol string) bool {
	_, ok := qm.queues[symbol]
	return ok
}

// Symbols returns the queue owners in sorted order.
func (qm *QueueManager) Symbols() []string {
	symbols := make([]string, 0, len(qm.queues))
	for symbol := range qm.queues {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// ActiveCount is the number of non-empty queues at the instant of the
// call. Advisory only.
func (qm *QueueManager) ActiveCount() int {
	n := 0
	for _, q := range qm.queues {
		if len(q) > 0 {
			n++
		}
	}
	return n
}

func (qm *QueueManager) Len() int {
	return len(qm.queues)
}
