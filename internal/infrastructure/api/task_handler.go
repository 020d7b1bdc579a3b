package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"contentboost-shopify-layer/internal/application"
	"contentboost-shopify-layer/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// TaskHandler serves the bulk optimization endpoints.
type TaskHandler struct {
	bulk   *application.BulkService
	logger zerolog.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(bulk *application.BulkService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{bulk: bulk, logger: logger}
}

type bulkRequest struct {
	Type     string  `json:"type"`
	Provider string  `json:"provider"`
	ItemIDs  []int64 `json:"item_ids"`
}

// Create handles POST /api/optimizations/bulk
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: invalid request body", domain.ErrValidation))
		return
	}

	task, err := h.bulk.Enqueue(r.Context(), shop, domain.TaskType(req.Type), req.Provider, req.ItemIDs)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusAccepted, task)
}

// Get handles GET /api/optimizations/{id}
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())
	task, err := h.bulk.GetTask(r.Context(), shop, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// List handles GET /api/optimizations
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())
	tasks, err := h.bulk.ListTasks(r.Context(), shop)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})
}

// Events handles GET /api/optimizations/{id}/events, streaming task progress
// as server-sent events until the task reaches a terminal state or the client
// disconnects.
func (h *TaskHandler) Events(w http.ResponseWriter, r *http.Request) {
	shop := domain.GetShopDomainFromContext(r.Context())
	taskID := chi.URLParam(r, "id")

	if _, err := h.bulk.GetTask(r.Context(), shop, taskID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, h.logger, fmt.Errorf("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	channel := h.bulk.Subscribe(r.Context(), shop, taskID)
	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-channel.Events:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
			if event.State == domain.TaskCompleted || event.State == domain.TaskFailed {
				return
			}
		}
	}
}
