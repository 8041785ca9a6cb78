package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"signalrelay/internal/engine/targets"
	"signalrelay/internal/platform/repositories"
)

// QueueObserver exposes the coordinator's active-queue count.
type QueueObserver interface {
	ActiveQueues() int
}

type HealthHandler struct {
	registry *targets.Registry
	queues   QueueObserver
	repo     *repositories.SignalRepository
}

func NewHealthHandler(registry *targets.Registry, queues QueueObserver,
	repo *repositories.SignalRepository) *HealthHandler {
	return &HealthHandler{registry: registry, queues: queues, repo: repo}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string)

	status := "healthy"
	if err := h.repo.Ping(); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		status = "degraded"
	} else {
		checks["database"] = "healthy"
	}

	placeholders := len(h.registry.PlaceholderTargets())

	response := struct {
		Status              string            `json:"status"`
		Timestamp           int64             `json:"timestamp"`
		InstrumentsLoaded   int               `json:"instruments_loaded"`
		QueuesActive        int               `json:"queues_active"`
		PlaceholderWebhooks int               `json:"placeholder_webhooks"`
		ValidWebhooks       int               `json:"valid_webhooks"`
		Checks              map[string]string `json:"checks"`
	}{
		Status:              status,
		Timestamp:           time.Now().UnixMilli(),
		InstrumentsLoaded:   h.registry.Len(),
		QueuesActive:        h.queues.ActiveQueues(),
		PlaceholderWebhooks: placeholders,
		ValidWebhooks:       h.registry.Len() - placeholders,
		Checks:              checks,
	}

	statusCode := http.StatusOK
	if status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
