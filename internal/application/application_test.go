package application

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/change-calculator/internal/change"
	"github.com/eugenenazirov/change-calculator/internal/config"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	cfg.InitialTill = []change.Denomination{{Value: 400, Quantity: 1}, {Value: 150, Quantity: 2}}
	logger := zaptest.NewLogger(t)

	app, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	till, err := app.storage.GetTill()
	if err != nil {
		t.Fatalf("GetTill returned error: %v", err)
	}
	want := []change.Denomination{{Value: 150, Quantity: 2}, {Value: 400, Quantity: 1}}
	if got := till.Denominations(); !slices.Equal(got, want) {
		t.Fatalf("expected till %v, got %v", want, got)
	}
	if app.server == nil || app.server.Handler == nil {
		t.Fatalf("expected server and root handler to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
}

func TestNewServesMetrics(t *testing.T) {
	app, err := New(baseTestConfig(":0"), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/change", strings.NewReader(`{"amount": 3}`))
	rec := httptest.NewRecorder()
	app.Server().Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from change, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	app.Server().Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `change_calculator_solve_outcomes_total{outcome="solved",source="till"} 1`) {
		t.Fatalf("expected solve outcome in metrics output")
	}
}

func TestNewAppliesSearchNodeBudget(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.SearchNodeBudget = 1
	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	body := `{"amount": 10000, "denominations": [{"value": 1, "quantity": 10000}, {"value": 2, "quantity": 5000}, {"value": 5, "quantity": 2000}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/change", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.Server().Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 once the search budget is spent, got %d", rec.Code)
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestNewReturnsErrorForInvalidTill(t *testing.T) {
	cfg := baseTestConfig(":0")
	cfg.InitialTill = []change.Denomination{{Value: 5, Quantity: -1}}

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for invalid till")
	}
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		Port:                 port,
		InitialTill:          []change.Denomination{{Value: 1, Quantity: 10}, {Value: 2, Quantity: 10}},
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
		MaxDenominations:     8,
		SearchNodeBudget:     1_000_000,
		LogLevel:             "info",
	}
}
