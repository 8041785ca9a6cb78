package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"signalrelay/internal/engine/targets"
	"signalrelay/internal/platform/config"
	"signalrelay/internal/platform/models"
)

// Coordinator owns the dispatch pipeline: it starts one worker per
// registered instrument, routes accepted signals to their queue and drains
// the workers at shutdown.
type Coordinator struct {
	registry *targets.Registry
	queues   *QueueManager
	records  Recorder
	sender   Sender
	interval time.Duration
	grace    time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// AcceptResult describes where an accepted signal went.
type AcceptResult struct {
	TargetSymbol string
	QueueSymbol  string
	Webhook      string
	ReceivedAt   time.Time
}

func NewCoordinator(registry *targets.Registry, queues *QueueManager,
	records Recorder, sender Sender, cfg config.DispatchConfig) *Coordinator {
	interval := cfg.RateLimitInterval
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	grace := cfg.ShutdownGrace
	if grace <= 0 {
		grace = 5 * time.Second
	}

	return &Coordinator{
		registry: registry,
		queues:   queues,
		records:  records,
		sender:   sender,
		interval: interval,
		grace:    grace,
	}
}

// Start launches one worker per queued instrument.
func (c *Coordinator) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	for _, symbol := range c.queues.Symbols() {
		worker := NewWorker(symbol, c.queues, c.registry, c.records, c.sender, c.interval)
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			worker.Run(ctx)
		}()
	}

	log.Info().Int("instruments", c.queues.Len()).Msg("dispatch workers started")
}

// Stop cancels the workers and waits up to the grace period for in-flight
// deliveries. Items still queued after that are discarded.
func (c *Coordinator) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().Msg("dispatch workers drained")
	case <-time.After(c.grace):
		log.Warn().Dur("grace", c.grace).Msg("shutdown grace expired, abandoning queued signals")
	}
}

// Route resolves the queue a signal should ride on: the target symbol's
// queue if it has one, otherwise the URL-path symbol's queue, otherwise
// ErrNoQueueAvailable.
func (c *Coordinator) Route(targetSymbol, pathSymbol string) (string, error) {
	target := targets.Normalize(targetSymbol)
	if c.queues.Has(target) {
		return target, nil
	}

	path := targets.Normalize(pathSymbol)
	if path != "" && c.queues.Has(path) {
		return path, nil
	}

	return "", fmt.Errorf("%w for symbol: %s", ErrNoQueueAvailable, target)
}

// Accept takes a validated signal through acceptance: a "received" row is
// written first, then the signal is routed and enqueued. Routing or
// enqueue failures get a paired "error" row so no request goes untraced.
// pathSymbol is empty for the universal ingress endpoint.
func (c *Coordinator) Accept(pathSymbol string, signal *models.TradingSignal,
	payload json.RawMessage) (*AcceptResult, error) {

	target := targets.Normalize(signal.Name)
	resolved, ok := c.registry.Resolve(target)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTarget, target)
	}

	receivedAt := time.Now()

	logSymbol := "universal"
	if pathSymbol != "" {
		logSymbol = targets.Normalize(pathSymbol)
	}

	c.append(&models.DeliveryRecord{
		Symbol:    logSymbol,
		Name:      target,
		Data:      string(payload),
		Status:    models.StatusReceived,
		CreatedAt: receivedAt.UnixMilli(),
	})

	queueSymbol, err := c.Route(target, pathSymbol)
	if err != nil {
		c.appendError(logSymbol, target, payload, receivedAt, err.Error())
		return nil, err
	}

	env := &models.Envelope{
		TargetSymbol: target,
		QueueSymbol:  queueSymbol,
		Payload:      payload,
		ReceivedAt:   receivedAt,
	}
	if err := c.queues.Put(queueSymbol, env); err != nil {
		c.appendError(logSymbol, target, payload, receivedAt, err.Error())
		return nil, err
	}

	log.Info().
		Str("target", target).
		Str("queue", queueSymbol).
		Str("side", signal.Side).
		Msg("signal accepted")

	return &AcceptResult{
		TargetSymbol: target,
		QueueSymbol:  queueSymbol,
		Webhook:      resolved.URL,
		ReceivedAt:   receivedAt,
	}, nil
}

// ActiveQueues reports how many queues currently hold items.
func (c *Coordinator) ActiveQueues() int {
	return c.queues.ActiveCount()
}

func (c *Coordinator) append(rec *models.DeliveryRecord) {
	if err := c.records.Insert(rec); err != nil {
		log.Error().Err(err).Str("status", rec.Status).Msg("failed to append signal log row")
	}
}

func (c *Coordinator) appendError(symbol, name string, payload json.RawMessage,
	receivedAt time.Time, msg string) {
	c.append(&models.DeliveryRecord{
		Symbol:       symbol,
		Name:         name,
		Data:         string(payload),
		Status:       models.StatusError,
		CreatedAt:    receivedAt.UnixMilli(),
		ResponseText: &msg,
	})
}
