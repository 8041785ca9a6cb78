package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"signalrelay/internal/engine/targets"
	"signalrelay/internal/platform/models"
)

// Recorder appends rows to the signal log.
type Recorder interface {
	Insert(rec *models.DeliveryRecord) error
}

// Sender delivers a payload to a webhook URL.
type Sender interface {
	Send(ctx context.Context, url string, payload []byte) (int, string, error)
}

// Worker drains one instrument's queue. It is the queue's only consumer,
// and lastSent is touched by nobody else, so the worker needs no locks.
type Worker struct {
	symbol   string
	queues   *QueueManager
	registry *targets.Registry
	records  Recorder
	sender   Sender
	interval time.Duration
	lastSent time.Time
	log      zerolog.Logger
}

func NewWorker(symbol string, queues *QueueManager, registry *targets.Registry,
	records Recorder, sender Sender, interval time.Duration) *Worker {
	return &Worker{
		symbol:   symbol,
		queues:   queues,
		registry: registry,
		records:  records,
		sender:   sender,
		interval: interval,
		log:      log.With().Str("symbol", symbol).Logger(),
	}
}

// Run loops until ctx is cancelled. An item already dequeued when shutdown
// starts is processed to completion; the coordinator's grace period bounds
// how long that is waited for.
func (w *Worker) Run(ctx context.Context) {
	w.log.Debug().Msg("worker started")

	for {
		env, err := w.queues.Get(ctx, w.symbol)
		if err != nil {
			if ctx.Err() != nil {
				w.log.Debug().Msg("worker stopped")
			} else {
				w.log.Error().Err(err).Msg("queue read failed")
			}
			return
		}
		w.handle(env)
	}
}

// handle processes one envelope. A panic while processing becomes an error
// row with best-effort fields, so one bad item cannot stall the queue.
func (w *Worker) handle(env *models.Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			w.log.Error().Interface("panic", rec).Msg("recovered while processing signal")
			w.recordError(env, fmt.Sprintf("Unexpected Error: %v", rec))
		}
	}()

	w.process(env)
}

func (w *Worker) process(env *models.Envelope) {
	w.waitInterval()

	name := targets.Normalize(env.TargetSymbol)
	target, ok := w.registry.Resolve(name)
	if !ok || !target.Valid {
		msg := fmt.Sprintf("no valid webhook for '%s' (url: '%s')", name, target.URL)
		w.log.Warn().Str("name", name).Msg("dropping signal without delivery attempt")
		w.recordError(env, msg)
		return
	}

	w.log.Info().Str("name", name).Str("url", target.URL).Msg("delivering signal")

	code, excerpt, err := w.sender.Send(context.Background(), target.URL, env.Payload)
	sentAt := time.Now()
	w.lastSent = sentAt

	if err != nil {
		w.log.Error().Err(err).Str("name", name).Msg("delivery failed")
		w.recordError(env, err.Error())
		return
	}

	status := models.StatusSent
	if code != 200 {
		status = models.StatusError
		w.log.Warn().Int("status_code", code).Str("name", name).Msg("downstream rejected signal")
	} else {
		w.log.Info().Int("status_code", code).Str("name", name).Msg("signal delivered")
	}

	sentAtMs := sentAt.UnixMilli()
	rec := &models.DeliveryRecord{
		Symbol:       w.symbol,
		Name:         name,
		Data:         string(env.Payload),
		Status:       status,
		CreatedAt:    env.ReceivedAt.UnixMilli(),
		SentAt:       &sentAtMs,
		ResponseCode: &code,
		ResponseText: &excerpt,
	}
	if err := w.records.Insert(rec); err != nil {
		w.log.Error().Err(err).Msg("failed to log delivery outcome")
	}
}

// waitInterval enforces the minimum gap between deliveries for this
// instrument. The gap applies after failed attempts too, to shield the
// downstream target from bursts.
func (w *Worker) waitInterval() {
	if w.lastSent.IsZero() {
		return
	}
	if wait := w.interval - time.Since(w.lastSent); wait > 0 {
		time.Sleep(wait)
	}
}

func (w *Worker) recordError(env *models.Envelope, msg string) {
	rec := &models.DeliveryRecord{
		Symbol:       w.symbol,
		Name:         targets.Normalize(env.TargetSymbol),
		Data:         string(env.Payload),
		Status:       models.StatusError,
		CreatedAt:    env.ReceivedAt.UnixMilli(),
		ResponseText: &msg,
	}
	if err := w.records.Insert(rec); err != nil {
		w.log.Error().Err(err).Msg("failed to log delivery error")
	}
}
