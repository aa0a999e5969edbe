package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/change-calculator/internal/api"
	"github.com/eugenenazirov/change-calculator/internal/change"
	"github.com/eugenenazirov/change-calculator/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewMemoryStorage()
	calc := change.New()
	handler := api.NewHandler(calc, store)
	logger := zaptest.NewLogger(t)
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	tillPayload := map[string]any{"denominations": []map[string]int64{
		{"value": 20, "quantity": 1},
		{"value": 1, "quantity": 10},
		{"value": 14, "quantity": 5},
	}}
	payload, _ := json.Marshal(tillPayload)
	rec = performRequest(t, handler, http.MethodPut, "/api/till", payload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from till update, got %d", rec.Code)
	}

	body, _ := json.Marshal(map[string]any{"amount": 28, "dispense": true})
	rec = performRequest(t, handler, http.MethodPost, "/api/change", body, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from change, got %d", rec.Code)
	}

	var response struct {
		Change     []change.Denomination `json:"change"`
		TotalItems int64                 `json:"totalItems"`
		Till       []change.Denomination `json:"till"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.TotalItems != 2 || change.Sum(response.Change) != 28 {
		t.Fatalf("unexpected change %v", response.Change)
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/till", nil, nil)
	var till struct {
		TotalCash  int64 `json:"totalCash"`
		TotalItems int64 `json:"totalItems"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&till); err != nil {
		t.Fatalf("decode till: %v", err)
	}
	if till.TotalCash != 100-28 || till.TotalItems != 14 {
		t.Fatalf("unexpected till after dispense: %+v", till)
	}

	// 100 is more than the till holds after dispensing
	body, _ = json.Marshal(map[string]any{"amount": 100})
	rec = performRequest(t, handler, http.MethodPost, "/api/change", body, jsonHeaders)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 from change, got %d", rec.Code)
	}
}
