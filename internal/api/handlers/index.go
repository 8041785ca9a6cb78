package handlers

import (
	"encoding/json"
	"net/http"

	"signalrelay/internal/engine/targets"
)

type IndexHandler struct {
	registry *targets.Registry
}

func NewIndexHandler(registry *targets.Registry) *IndexHandler {
	return &IndexHandler{registry: registry}
}

func (h *IndexHandler) Info(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"message":           "Signal relay for outbound trading webhooks",
		"version":           "1.0",
		"total_instruments": h.registry.Len(),
		"endpoints": map[string]string{
			"universal_webhook":   "POST /webhook",
			"webhook_with_symbol": "POST /webhook/{symbol}",
			"test_webhook":        "POST /test-webhook/{symbol}",
			"logs_json":           "GET /logs/{symbol}",
			"logs_html":           "GET /logs/{symbol}/html",
			"webhooks_list":       "GET /webhooks",
			"instruments_list":    "GET /instruments",
			"stats":               "GET /stats",
			"health_check":        "GET /health",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
