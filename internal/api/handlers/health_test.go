package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"signalrelay/internal/platform/repositories"
)

type staticQueues int

func (s staticQueues) ActiveQueues() int { return int(s) }

func TestHealthHandler_Check(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := repositories.NewSignalRepository(db)
	h := NewHealthHandler(handlerRegistry(), staticQueues(2), repo)

	w := httptest.NewRecorder()
	h.Check(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("expected healthy, got %v", resp["status"])
	}
	if resp["instruments_loaded"] != float64(3) || resp["queues_active"] != float64(2) {
		t.Errorf("unexpected counts: %v", resp)
	}
	if resp["placeholder_webhooks"] != float64(1) || resp["valid_webhooks"] != float64(2) {
		t.Errorf("unexpected webhook split: %v", resp)
	}

	checks := resp["checks"].(map[string]interface{})
	if checks["database"] != "healthy" {
		t.Errorf("expected healthy database check, got %v", checks["database"])
	}
}

func TestHealthHandler_DegradedOnDatabaseFailure(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.Close() // ping will fail

	repo := repositories.NewSignalRepository(db)
	h := NewHealthHandler(handlerRegistry(), staticQueues(0), repo)

	w := httptest.NewRecorder()
	h.Check(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "degraded" {
		t.Errorf("expected degraded, got %v", resp["status"])
	}
}
