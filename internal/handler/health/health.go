package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a plain function to Checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// Gauge reports a live count included in the health response, e.g. the
// number of games held in memory.
type Gauge func() int

type Handler struct {
	checks map[string]Checker
	gauges map[string]Gauge
	logger *slog.Logger
}

func NewHandler(logger *slog.Logger, checks map[string]Checker, gauges map[string]Gauge) *Handler {
	return &Handler{checks: checks, gauges: gauges, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

// CheckResult is the outcome of one dependency check.
type CheckResult struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs"`
}

// Response is the body returned by the health endpoint.
type Response struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
	Gauges map[string]int         `json:"gauges,omitempty"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := Response{
		Status: "ok",
		Checks: make(map[string]CheckResult, len(h.checks)),
	}
	status := http.StatusOK

	for name, c := range h.checks {
		start := time.Now()
		err := c.Check(ctx)
		res := CheckResult{Status: "ok", LatencyMS: time.Since(start).Milliseconds()}
		if err != nil {
			h.logger.Error("health check failed", "name", name, "error", err)
			res.Status = "error"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
		resp.Checks[name] = res
	}

	if len(h.gauges) > 0 {
		resp.Gauges = make(map[string]int, len(h.gauges))
		for name, g := range h.gauges {
			resp.Gauges[name] = g()
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
