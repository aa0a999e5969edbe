package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/change-calculator/internal/change"
	"github.com/eugenenazirov/change-calculator/internal/metrics"
	"github.com/eugenenazirov/change-calculator/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	defaultMaxDenominations = 16
	maxCoinChangeAmount     = 10_000

	sourceTill    = "till"
	sourceRequest = "request"
	sourceCoins   = "coins"
)

// Handler wires calculator and storage dependencies into HTTP handlers.
type Handler struct {
	calculator change.Solver
	storage    storage.Storage
	metrics    *metrics.Metrics
	logger     *zap.Logger

	clock            func() time.Time
	maxDenominations int

	mu            sync.RWMutex
	tillUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMetrics records calculation outcomes in m.
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithLogger sets the logger used for per-calculation debug logs.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMaxDenominations caps how many denominations a request may carry.
func WithMaxDenominations(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxDenominations = n
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(calc change.Solver, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		calculator: calc,
		storage:    store,
		logger:     zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
		maxDenominations: defaultMaxDenominations,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.tillUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetTill(w http.ResponseWriter, r *http.Request) {
	_ = r
	till, err := h.storage.GetTill()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.tillResponse(till, ""))
}

func (h *Handler) handlePutTill(w http.ResponseWriter, r *http.Request) {
	var req tillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Denominations) > h.maxDenominations {
		writeError(w, http.StatusBadRequest, "Invalid till", fmt.Sprintf("at most %d denominations are allowed", h.maxDenominations))
		return
	}

	if err := h.storage.SetTill(req.Denominations); err != nil {
		if errors.Is(err, storage.ErrInvalidTill) {
			writeError(w, http.StatusBadRequest, "Invalid till", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markTillUpdated()

	till, err := h.storage.GetTill()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.tillResponse(till, "Till updated successfully"))
}

func (h *Handler) handleChange(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	source := sourceTill
	denominations := req.Denominations
	if denominations != nil {
		source = sourceRequest
		if req.Dispense {
			writeError(w, http.StatusBadRequest, "Invalid request", "dispense is only supported when giving change from the till")
			return
		}
		if len(denominations) > h.maxDenominations {
			writeError(w, http.StatusBadRequest, "Invalid request", fmt.Sprintf("at most %d denominations are allowed", h.maxDenominations))
			return
		}
	} else {
		till, err := h.storage.GetTill()
		if err != nil {
			writeInternalError(w, err)
			return
		}
		denominations = till.Denominations()
	}

	start := time.Now()
	result, calcErr := h.calculator.MakeChange(req.Amount, denominations)
	elapsed := time.Since(start)

	h.metrics.ObserveSolve(outcomeOf(calcErr), source, elapsed)
	h.logger.Debug("change calculated",
		zap.Int64("amount", req.Amount),
		zap.String("source", source),
		zap.String("outcome", outcomeOf(calcErr)),
		zap.Duration("duration", elapsed),
		zap.String("request_id", requestIDFromContext(r.Context())),
	)

	if calcErr != nil {
		writeChangeError(w, req.Amount, calcErr)
		return
	}

	resp := changeResponse{
		Amount:            req.Amount,
		Change:            result,
		TotalItems:        change.Count(result),
		TotalValue:        change.Sum(result),
		CalculationTimeMs: elapsed.Milliseconds(),
	}

	if req.Dispense {
		remaining, err := h.storage.Dispense(result)
		if err != nil {
			if errors.Is(err, storage.ErrInsufficientStock) {
				writeError(w, http.StatusConflict, "Till changed", err.Error(), "Retry the request against the current till")
				return
			}
			writeInternalError(w, err)
			return
		}
		h.markTillUpdated()
		h.metrics.AddDispensed(resp.TotalItems)
		resp.Dispensed = true
		resp.Till = remaining.Denominations()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCoinChange(w http.ResponseWriter, r *http.Request) {
	var req coinChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.Amount < 0 || req.Amount > maxCoinChangeAmount {
		writeError(w, http.StatusBadRequest, "Invalid request", fmt.Sprintf("amount must be between 0 and %d", maxCoinChangeAmount))
		return
	}
	if len(req.Coins) > h.maxDenominations {
		writeError(w, http.StatusBadRequest, "Invalid request", fmt.Sprintf("at most %d coins are allowed", h.maxDenominations))
		return
	}

	start := time.Now()
	result, calcErr := h.calculator.MakeChange(int64(req.Amount), change.UnlimitedDenominations(req.Coins, req.Amount))
	h.metrics.ObserveSolve(outcomeOf(calcErr), sourceCoins, time.Since(start))

	minItems := int64(-1)
	switch {
	case calcErr == nil:
		minItems = change.Count(result)
	case errors.Is(calcErr, change.ErrSearchBudgetExceeded):
		writeChangeError(w, int64(req.Amount), calcErr)
		return
	}

	writeJSON(w, http.StatusOK, coinChangeResponse{
		Amount:   req.Amount,
		MinItems: minItems,
	})
}

func (h *Handler) tillResponse(till change.Wallet, message string) tillResponse {
	return tillResponse{
		Denominations: till.Denominations(),
		TotalCash:     till.TotalCash(),
		TotalItems:    till.TotalItems(),
		UpdatedAt:     h.currentTillUpdatedAt(),
		Message:       message,
	}
}

func (h *Handler) currentTillUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tillUpdatedAt
}

func (h *Handler) markTillUpdated() {
	h.mu.Lock()
	h.tillUpdatedAt = h.clock()
	h.mu.Unlock()
}

func writeChangeError(w http.ResponseWriter, amount int64, err error) {
	switch {
	case errors.Is(err, change.ErrInvalidDenomination), errors.Is(err, change.ErrNegativeTarget):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, change.ErrInsufficientFunds):
		writeError(w, http.StatusUnprocessableEntity, "Insufficient funds", err.Error(), "Top up the till or request a smaller amount")
	case errors.Is(err, change.ErrInfeasible):
		suggestion := fmt.Sprintf("Add smaller denominations or more items so that %d can be made exactly", amount)
		writeError(w, http.StatusUnprocessableEntity, "Cannot give exact change", err.Error(), suggestion)
	case errors.Is(err, change.ErrSearchBudgetExceeded):
		writeError(w, http.StatusUnprocessableEntity, "Search too large", err.Error(), "Request a smaller amount or supply fewer denominations")
	default:
		writeInternalError(w, err)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSolved
	case errors.Is(err, change.ErrInvalidDenomination):
		return metrics.OutcomeInvalidDenomination
	case errors.Is(err, change.ErrNegativeTarget):
		return metrics.OutcomeNegativeTarget
	case errors.Is(err, change.ErrInsufficientFunds):
		return metrics.OutcomeInsufficientFunds
	case errors.Is(err, change.ErrInfeasible):
		return metrics.OutcomeInfeasible
	case errors.Is(err, change.ErrSearchBudgetExceeded):
		return metrics.OutcomeBudgetExceeded
	default:
		return metrics.OutcomeError
	}
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type tillRequest struct {
	Denominations []change.Denomination `json:"denominations"`
}

type changeRequest struct {
	Amount        int64                 `json:"amount"`
	Denominations []change.Denomination `json:"denominations"`
	Dispense      bool                  `json:"dispense"`
}

type coinChangeRequest struct {
	Coins  []int `json:"coins"`
	Amount int   `json:"amount"`
}

type changeResponse struct {
	Amount            int64                 `json:"amount"`
	Change            []change.Denomination `json:"change"`
	TotalItems        int64                 `json:"totalItems"`
	TotalValue        int64                 `json:"totalValue"`
	CalculationTimeMs int64                 `json:"calculationTimeMs"`
	Dispensed         bool                  `json:"dispensed"`
	Till              []change.Denomination `json:"till,omitempty"`
}

type coinChangeResponse struct {
	Amount   int   `json:"amount"`
	MinItems int64 `json:"minItems"`
}

type tillResponse struct {
	Denominations []change.Denomination `json:"denominations"`
	TotalCash     int64                 `json:"totalCash"`
	TotalItems    int64                 `json:"totalItems"`
	UpdatedAt     time.Time             `json:"updatedAt"`
	Message       string                `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
