package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pagesmith/pagesmith/internal/adapter/otel"
	"github.com/pagesmith/pagesmith/internal/domain/task"
	"github.com/pagesmith/pagesmith/internal/logger"
	"github.com/pagesmith/pagesmith/internal/service"
)

// HealthInfo is the static service state reported by the health endpoint.
type HealthInfo struct {
	Providers   []string `json:"providers"`
	GitHubOwner string   `json:"github_owner"`
	// Degraded is true when no generation provider has a credential and
	// every build falls through to placeholder content.
	Degraded bool `json:"degraded"`
}

// Handlers bundles the HTTP handlers with their dependencies.
type Handlers struct {
	secret     string
	pipeline   *service.PipelineService
	dispatcher *service.Dispatcher
	metrics    *otel.Metrics
	health     HealthInfo
}

// NewHandlers creates the handler set. metrics may be nil.
func NewHandlers(secret string, p *service.PipelineService, d *service.Dispatcher, m *otel.Metrics, health HealthInfo) *Handlers {
	return &Handlers{
		secret:     secret,
		pipeline:   p,
		dispatcher: d,
		metrics:    m,
		health:     health,
	}
}

// HandleTask accepts a round-1 build request. The response acknowledges
// receipt only; all processing happens asynchronously.
func (h *Handlers) HandleTask(w http.ResponseWriter, r *http.Request) {
	h.accept(w, r, "build", func(ctx context.Context, taskID string, req task.Request) {
		h.pipeline.Build(ctx, taskID, req)
	}, nil)
}

// HandleRevise accepts a round-2+ revision request against the repository
// created by the original build with the same task and nonce.
func (h *Handlers) HandleRevise(w http.ResponseWriter, r *http.Request) {
	h.accept(w, r, "revise", func(ctx context.Context, taskID string, req task.Request) {
		h.pipeline.Revise(ctx, taskID, req)
	}, (*task.Request).ValidateRevision)
}

func (h *Handlers) accept(
	w http.ResponseWriter,
	r *http.Request,
	kind string,
	run func(ctx context.Context, taskID string, req task.Request),
	extraCheck func(*task.Request) error,
) {
	req, ok := readJSON[task.Request](w, r)
	if !ok {
		return
	}

	// Secret comparison happens before any validation so that probing
	// requests learn nothing about the expected payload shape.
	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.secret)) != 1 {
		writeError(w, http.StatusUnauthorized, "Invalid secret")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if extraCheck != nil {
		if err := extraCheck(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	taskID := uuid.New().String()
	job := service.Job{
		TaskID: taskID,
		Run: func(ctx context.Context) {
			run(logger.WithTaskID(ctx, taskID), taskID, req)
		},
	}
	if err := h.dispatcher.Enqueue(job); err != nil {
		if errors.Is(err, service.ErrQueueFull) || errors.Is(err, service.ErrDispatcherClosed) {
			writeError(w, http.StatusServiceUnavailable, "server is busy, please retry later")
			return
		}
		slog.Error("failed to enqueue task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.metrics != nil {
		h.metrics.TasksAccepted.Add(r.Context(), 1)
	}
	slog.Info("task accepted", "task_id", taskID, "kind", kind, "task", req.Task, "round", req.Round)

	writeJSON(w, http.StatusOK, task.Ack{
		Status:  "accepted",
		Message: "Task received and processing started",
		TaskID:  taskID,
	})
}

// HandlePing is a trivial liveness probe.
func (h *Handlers) HandlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "pong",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleHealth reports readiness and the configured generation chain.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"service":      "pagesmith",
		"providers":    h.health.Providers,
		"github_owner": h.health.GitHubOwner,
		"degraded":     h.health.Degraded,
	})
}

// HandleListTasks is a placeholder: task state is not persisted, so there
// is nothing to list.
func (h *Handlers) HandleListTasks(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotImplemented, "task listing is not supported")
}

// HandleGetTask is a placeholder: task state is not persisted.
func (h *Handlers) HandleGetTask(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotImplemented, "task lookup is not supported")
}
