package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"signalrelay/internal/platform/models"
	"signalrelay/internal/platform/repositories"
)

func setupLogsHandler(t *testing.T) (*LogsHandler, *repositories.SignalRepository) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := repositories.NewSignalRepository(db)
	if err := repo.InitSchema(); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	return NewLogsHandler(repo, 20), repo
}

func seedRow(t *testing.T, repo *repositories.SignalRepository, symbol, status string, createdAt int64) {
	t.Helper()
	rec := &models.DeliveryRecord{
		Symbol:    symbol,
		Name:      symbol,
		Data:      `{"name":"` + symbol + `"}`,
		Status:    status,
		CreatedAt: createdAt,
	}
	if status == models.StatusSent {
		sentAt := createdAt + 300
		code := 200
		text := "ok"
		rec.SentAt = &sentAt
		rec.ResponseCode = &code
		rec.ResponseText = &text
	}
	if err := repo.Insert(rec); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}
}

func getLogs(h func(http.ResponseWriter, *http.Request), symbol, query string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/logs/"+symbol+query, nil)
	h(w, withSymbolParam(r, symbol))
	return w
}

func TestLogsHandler_List(t *testing.T) {
	h, repo := setupLogsHandler(t)

	seedRow(t, repo, "BOMEUSDT", models.StatusReceived, 1700000000000)
	seedRow(t, repo, "BOMEUSDT", models.StatusSent, 1700000001000)
	seedRow(t, repo, "MEWUSDT", models.StatusError, 1700000002000)

	w := getLogs(h.List, "BOMEUSDT", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for BOMEUSDT, got %d", len(rows))
	}

	// Newest first
	if rows[0]["status"] != models.StatusSent || rows[1]["status"] != models.StatusReceived {
		t.Errorf("unexpected ordering: %v then %v", rows[0]["status"], rows[1]["status"])
	}
	if rows[0]["created_at_readable"] == "" {
		t.Error("expected human-readable timestamp alongside the raw one")
	}
	if rows[0]["sent_at_readable"] == nil || rows[0]["sent_at_readable"] == "" {
		t.Error("expected readable sent_at on a delivered row")
	}
	if _, present := rows[1]["sent_at_readable"]; present {
		t.Error("received row should omit sent_at_readable")
	}
}

func TestLogsHandler_ListAll(t *testing.T) {
	h, repo := setupLogsHandler(t)

	seedRow(t, repo, "BOMEUSDT", models.StatusReceived, 1)
	seedRow(t, repo, "MEWUSDT", models.StatusReceived, 2)

	w := getLogs(h.List, "all", "")
	var rows []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &rows)
	if len(rows) != 2 {
		t.Errorf("expected all rows, got %d", len(rows))
	}
}

func TestLogsHandler_LimitClamped(t *testing.T) {
	h, repo := setupLogsHandler(t)

	for i := 0; i < 10; i++ {
		seedRow(t, repo, "BOMEUSDT", models.StatusReceived, int64(i))
	}

	tests := []struct {
		query    string
		expected int
	}{
		{"?limit=5", 5},
		{"?limit=0", 1},
		{"?limit=-3", 1},
		{"", 10}, // default limit 20 covers everything
		{"?limit=notanumber", 10},
	}

	for _, tt := range tests {
		w := getLogs(h.List, "BOMEUSDT", tt.query)
		var rows []map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &rows)
		if len(rows) != tt.expected {
			t.Errorf("query %q: expected %d rows, got %d", tt.query, tt.expected, len(rows))
		}
	}
}

func TestLogsHandler_HTML(t *testing.T) {
	h, repo := setupLogsHandler(t)

	seedRow(t, repo, "BOMEUSDT", models.StatusSent, 1700000000000)

	w := getLogs(h.HTML, "BOMEUSDT", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML content type, got %s", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, "BOMEUSDT") || !strings.Contains(body, "status-sent") {
		t.Error("rendered page missing expected row content")
	}
}

func TestLogsHandler_Stats(t *testing.T) {
	h, repo := setupLogsHandler(t)

	seedRow(t, repo, "BOMEUSDT", models.StatusSent, 1)
	seedRow(t, repo, "BOMEUSDT", models.StatusSent, 2)
	seedRow(t, repo, "MEWUSDT", models.StatusError, 3)

	w := httptest.NewRecorder()
	h.Stats(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["total_signals"] != float64(3) {
		t.Errorf("expected total 3, got %v", resp["total_signals"])
	}

	byStatus := resp["status_distribution"].(map[string]interface{})
	if byStatus[models.StatusSent] != float64(2) || byStatus[models.StatusError] != float64(1) {
		t.Errorf("unexpected status distribution: %v", byStatus)
	}
	bySymbol := resp["symbol_distribution"].(map[string]interface{})
	if bySymbol["BOMEUSDT"] != float64(2) {
		t.Errorf("unexpected symbol distribution: %v", bySymbol)
	}
}
