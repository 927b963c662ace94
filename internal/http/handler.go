package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Tracker interface {
	LastSeen(userID string) (time.Time, bool)
	Len() int
}

type TickTrigger interface {
	Trigger(ctx context.Context) bool
}

type Handler struct {
	tracked Tracker
	ticks   TickTrigger
	now     func() time.Time
	log     *zap.Logger
}

func NewHandler(tracked Tracker, ticks TickTrigger, now func() time.Time, log *zap.Logger) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{tracked: tracked, ticks: ticks, now: now, log: log}
}

type HealthResponse struct {
	Status       string `json:"status"`
	TrackedUsers int    `json:"tracked_users"`
}

type InactivityResponse struct {
	UserID            string     `json:"user_id"`
	Tracked           bool       `json:"tracked"`
	LastSeen          *time.Time `json:"last_seen,omitempty"`
	InactivitySeconds int64      `json:"inactivity_seconds"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", TrackedUsers: h.tracked.Len()})
}

// GetInactivity reports how long the user's cart has been idle without
// touching the stored observation.
func (h *Handler) GetInactivity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		h.respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "user id is required"})
		return
	}

	resp := InactivityResponse{UserID: userID}
	if seen, ok := h.tracked.LastSeen(userID); ok {
		resp.Tracked = true
		resp.LastSeen = &seen
		if elapsed := h.now().Sub(seen); elapsed > 0 {
			resp.InactivitySeconds = int64(elapsed / time.Second)
		}
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) TriggerTick(w http.ResponseWriter, r *http.Request) {
	if !h.ticks.Trigger(r.Context()) {
		h.respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "scheduler is shutting down"})
		return
	}
	h.respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Warn("failed to encode response", zap.Error(err))
	}
}
