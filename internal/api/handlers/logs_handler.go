package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	apiContext "signalrelay/internal/api/context"
	apierrors "signalrelay/internal/pkg/errors"
	"signalrelay/internal/platform/models"
	"signalrelay/internal/platform/repositories"
)

const statsSample = 1000

type LogsHandler struct {
	repo         *repositories.SignalRepository
	defaultLimit int
}

func NewLogsHandler(repo *repositories.SignalRepository, defaultLimit int) *LogsHandler {
	if defaultLimit <= 0 {
		defaultLimit = 20
	}
	return &LogsHandler{repo: repo, defaultLimit: defaultLimit}
}

type logRow struct {
	*models.DeliveryRecord
	CreatedAtReadable string `json:"created_at_readable,omitempty"`
	SentAtReadable    string `json:"sent_at_readable,omitempty"`
}

func (h *LogsHandler) query(r *http.Request) ([]logRow, string, error) {
	params := r.Context().Value(apiContext.Params).(httprouter.Params)
	symbol := params.ByName("symbol")

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	records, err := h.repo.List(symbol, limit)
	if err != nil {
		return nil, symbol, err
	}

	rows := make([]logRow, 0, len(records))
	for _, rec := range records {
		row := logRow{DeliveryRecord: rec}
		row.CreatedAtReadable = time.UnixMilli(rec.CreatedAt).Format(time.RFC3339)
		if rec.SentAt != nil {
			row.SentAtReadable = time.UnixMilli(*rec.SentAt).Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	return rows, symbol, nil
}

func (h *LogsHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, _, err := h.query(r)
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal,
			"Error retrieving logs", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

var logsTemplate = template.Must(template.New("logs").Parse(`<!DOCTYPE html>
<html>
<head>
	<title>Signal Logs - {{.Symbol}}</title>
	<style>
		body { font-family: Arial, sans-serif; margin: 20px; background-color: #f5f5f5; }
		.container { max-width: 1400px; margin: 0 auto; background: white; padding: 20px; border-radius: 8px; }
		h2 { color: #333; border-bottom: 2px solid #007bff; padding-bottom: 10px; }
		table { border-collapse: collapse; width: 100%; margin-top: 20px; font-size: 14px; }
		th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; }
		th { background: #f8f9fa; }
		.status-sent { color: #28a745; }
		.status-error { color: #dc3545; }
	</style>
</head>
<body>
<div class="container">
	<h2>Signal Logs - {{.Symbol}}</h2>
	<table>
		<tr><th>ID</th><th>Symbol</th><th>Name</th><th>Status</th><th>Received</th><th>Sent</th><th>Code</th><th>Response</th></tr>
		{{range .Rows}}
		<tr>
			<td>{{.ID}}</td>
			<td>{{.Symbol}}</td>
			<td>{{.Name}}</td>
			<td class="status-{{.Status}}">{{.Status}}</td>
			<td>{{.CreatedAtReadable}}</td>
			<td>{{.SentAtReadable}}</td>
			<td>{{if .ResponseCode}}{{.ResponseCode}}{{end}}</td>
			<td>{{if .ResponseText}}{{.ResponseText}}{{end}}</td>
		</tr>
		{{end}}
	</table>
</div>
</body>
</html>`))

func (h *LogsHandler) HTML(w http.ResponseWriter, r *http.Request) {
	rows, symbol, err := h.query(r)
	if err != nil {
		http.Error(w, "Error retrieving logs: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	logsTemplate.Execute(w, struct {
		Symbol string
		Rows   []logRow
	}{Symbol: symbol, Rows: rows})
}

func (h *LogsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	byStatus, bySymbol, err := h.repo.StatusCounts(statsSample)
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrCodeInternal,
			"Error computing stats", err.Error())
		return
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}

	response := map[string]interface{}{
		"total_signals":       total,
		"status_distribution": byStatus,
		"symbol_distribution": bySymbol,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
