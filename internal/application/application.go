package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/eugenenazirov/change-calculator/internal/api"
	"github.com/eugenenazirov/change-calculator/internal/change"
	"github.com/eugenenazirov/change-calculator/internal/config"
	"github.com/eugenenazirov/change-calculator/internal/metrics"
	"github.com/eugenenazirov/change-calculator/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	logger  *zap.Logger
	server  *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if err := store.SetTill(cfg.InitialTill); err != nil {
		return nil, fmt.Errorf("failed to apply initial till: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	calc := change.New(change.WithNodeBudget(cfg.SearchNodeBudget))
	handler := api.NewHandler(calc, store,
		api.WithMetrics(m),
		api.WithLogger(logger),
		api.WithMaxDenominations(cfg.MaxDenominations),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	server := NewServer(cfg, BuildRootHandler(apiRouter, metricsHandler))

	return &App{
		storage: store,
		logger:  logger,
		server:  server,
	}, nil
}

// BuildRootHandler routes API requests and exposes Prometheus metrics.
func BuildRootHandler(apiHandler, metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("GET /metrics", metricsHandler)
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		till, _ := a.storage.GetTill()
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.Int("denominations", till.Len()),
			zap.Int64("till_total_cash", till.TotalCash()),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
