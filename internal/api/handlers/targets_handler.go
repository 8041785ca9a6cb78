package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "signalrelay/internal/api/context"
	"signalrelay/internal/engine/dispatch"
	"signalrelay/internal/engine/targets"
	apierrors "signalrelay/internal/pkg/errors"
	"signalrelay/internal/platform/models"
)

type TargetsHandler struct {
	registry *targets.Registry
	sender   dispatch.Sender
}

func NewTargetsHandler(registry *targets.Registry, sender dispatch.Sender) *TargetsHandler {
	return &TargetsHandler{registry: registry, sender: sender}
}

func (h *TargetsHandler) ListWebhooks(w http.ResponseWriter, r *http.Request) {
	valid := h.registry.ValidTargets()
	placeholder := h.registry.PlaceholderTargets()

	response := map[string]interface{}{
		"total_instruments":          h.registry.Len(),
		"valid_webhooks_count":       len(valid),
		"placeholder_webhooks_count": len(placeholder),
		"valid_webhooks":             valid,
		"placeholder_webhooks":       placeholder,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (h *TargetsHandler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	instruments := h.registry.Instruments()

	response := map[string]interface{}{
		"total":       len(instruments),
		"instruments": instruments,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// TestWebhook sends a canned order document straight to the symbol's
// target, bypassing the queue. Connectivity probe, not part of the
// delivery pipeline.
func (h *TargetsHandler) TestWebhook(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	symbol := params.ByName("symbol")

	target, ok := h.registry.Resolve(symbol)
	if !ok {
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeNotFound,
			"Symbol not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if !target.Valid {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": "Webhook URL is a placeholder",
			"url":   target.URL,
		})
		return
	}

	payload, err := json.Marshal(testSignal(target.Symbol))
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal,
			"Failed to build test payload", nil)
		return
	}

	code, excerpt, err := h.sender.Send(r.Context(), target.URL, payload)
	if err != nil {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": err.Error(),
			"url":   target.URL,
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status_code": code,
		"response":    excerpt,
		"url":         target.URL,
		"success":     code == 200,
	})
}

func testSignal(symbol string) *models.TradingSignal {
	return &models.TradingSignal{
		Name:   symbol,
		Secret: "test_secret",
		Side:   "buy",
		Symbol: symbol,
		Open: models.OpenOrder{
			Enabled:    true,
			AmountType: "sumUsd",
			Amount:     "6",
		},
		DCA: models.DCAOrder{
			AmountType:  "sumUsd",
			Amount:      "6",
			CheckProfit: false,
		},
		Close: models.CloseOrder{
			Action: "decrease",
			Decrease: models.CloseDecrease{
				Type:   "posAmountPct",
				Amount: "1",
			},
			CheckProfit: true,
		},
		SL: models.SLConfig{
			Update: false,
		},
	}
}
