package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "signalrelay/internal/api/context"
	"signalrelay/internal/engine/dispatch"
	"signalrelay/internal/engine/targets"
	apierrors "signalrelay/internal/pkg/errors"
	"signalrelay/internal/pkg/validator"
	"signalrelay/internal/platform/models"
)

// maxSignalBody caps the ingress body size. Real alert payloads are a few
// hundred bytes.
const maxSignalBody = 1 << 20

type SignalHandler struct {
	coord    *dispatch.Coordinator
	registry *targets.Registry
}

func NewSignalHandler(coord *dispatch.Coordinator, registry *targets.Registry) *SignalHandler {
	return &SignalHandler{coord: coord, registry: registry}
}

type acceptedResponse struct {
	Status       string `json:"status"`
	URLSymbol    string `json:"url_symbol,omitempty"`
	TargetSymbol string `json:"target_symbol"`
	QueueSymbol  string `json:"queue_symbol"`
	Queued       bool   `json:"queued"`
	Webhook      string `json:"webhook"`
	Timestamp    int64  `json:"timestamp"`
}

// Universal accepts a signal and resolves the instrument from the payload's
// name field.
func (h *SignalHandler) Universal(w http.ResponseWriter, r *http.Request) {
	h.process(w, r, "")
}

// WithSymbol is the legacy ingress shape with the instrument in the URL;
// the path symbol serves as the routing fallback.
func (h *SignalHandler) WithSymbol(w http.ResponseWriter, r *http.Request) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	h.process(w, r, params.ByName("symbol"))
}

func (h *SignalHandler) process(w http.ResponseWriter, r *http.Request, pathSymbol string) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSignalBody))
	if err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput,
			"Failed to read request body", nil)
		return
	}

	var signal models.TradingSignal
	if err := json.Unmarshal(body, &signal); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput,
			"Invalid signal document", err.Error())
		return
	}

	if err := validator.ValidateSignal(&signal); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeInvalidInput,
			err.Error(), nil)
		return
	}

	result, err := h.coord.Accept(pathSymbol, &signal, body)
	if err != nil {
		h.writeAcceptError(w, &signal, err)
		return
	}

	resp := acceptedResponse{
		Status:       "accepted",
		URLSymbol:    pathSymbol,
		TargetSymbol: result.TargetSymbol,
		QueueSymbol:  result.QueueSymbol,
		Queued:       true,
		Webhook:      result.Webhook,
		Timestamp:    result.ReceivedAt.UnixMilli(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *SignalHandler) writeAcceptError(w http.ResponseWriter, signal *models.TradingSignal, err error) {
	switch {
	case errors.Is(err, dispatch.ErrUnknownTarget):
		instruments := h.registry.Instruments()
		sample := instruments
		if len(sample) > 10 {
			sample = sample[:10]
		}
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrCodeUnknownTarget,
			"Unknown target symbol '"+targets.Normalize(signal.Name)+"'",
			map[string]interface{}{
				"supported_symbols_sample": sample,
				"total_supported":          len(instruments),
			})
	case errors.Is(err, dispatch.ErrNoQueueAvailable):
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrCodeNoQueueAvailable,
			err.Error(), nil)
	case errors.Is(err, dispatch.ErrQueueFull):
		apierrors.WriteError(w, http.StatusServiceUnavailable, apierrors.ErrCodeQueueFull,
			"Queue is full, signal rejected", nil)
	default:
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal,
			"Failed to accept signal", nil)
	}
}
