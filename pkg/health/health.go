package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/storeline/products/pkg/httputil"
)

// Checker reports whether one dependency is usable.
type Checker func(ctx context.Context) error

// Status is the state of a component or of the service as a whole.
type Status string

const (
	StatusUp       Status = "up"
	StatusDegraded Status = "degraded"
	StatusDown     Status = "down"
)

const checkTimeout = 5 * time.Second

// Response is the body of both health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one checker.
type CheckResult struct {
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

type check struct {
	fn       Checker
	critical bool
}

// Handler serves liveness and readiness endpoints.
type Handler struct {
	mu     sync.RWMutex
	checks map[string]check
}

// NewHandler creates a Handler with no checks.
func NewHandler() *Handler {
	return &Handler{checks: make(map[string]check)}
}

// Register adds a critical check. A failing critical check makes the service
// not ready (503).
func (h *Handler) Register(name string, fn Checker) {
	h.add(name, fn, true)
}

// RegisterOptional adds a check whose failure only degrades readiness. The
// endpoint still answers 200.
func (h *Handler) RegisterOptional(name string, fn Checker) {
	h.add(name, fn, false)
}

func (h *Handler) add(name string, fn Checker, critical bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check{fn: fn, critical: critical}
}

// LivenessHandler answers 200 while the process is serving.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, Response{Status: StatusUp, Timestamp: time.Now().UTC()})
	}
}

// ReadinessHandler runs every registered check concurrently.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		h.mu.RLock()
		checks := make(map[string]check, len(h.checks))
		for name, c := range h.checks {
			checks[name] = c
		}
		h.mu.RUnlock()

		var (
			mu      sync.Mutex
			wg      sync.WaitGroup
			results = make(map[string]CheckResult, len(checks))
			overall = StatusUp
		)
		for name, c := range checks {
			wg.Add(1)
			go func(name string, c check) {
				defer wg.Done()
				err := c.fn(ctx)

				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					results[name] = CheckResult{Status: StatusUp}
					return
				}
				results[name] = CheckResult{Status: StatusDown, Error: err.Error()}
				switch {
				case c.critical:
					overall = StatusDown
				case overall == StatusUp:
					overall = StatusDegraded
				}
			}(name, c)
		}
		wg.Wait()

		status := http.StatusOK
		if overall == StatusDown {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, Response{
			Status:    overall,
			Timestamp: time.Now().UTC(),
			Checks:    results,
		})
	}
}
