package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/livecue-backend/internal/domain"
	"github.com/heartmarshall/livecue-backend/internal/service/activity"
	"github.com/heartmarshall/livecue-backend/internal/transport/middleware"
)

type auditLister interface {
	List(ctx context.Context, account domain.AccountID, limit int) ([]domain.AuditEntry, error)
}

type activityService interface {
	History(ctx context.Context, account domain.AccountID, limit int) ([]domain.ActivityEntry, error)
	Stats(ctx context.Context, account domain.AccountID) (activity.Stats, error)
}

// HistoryHandler serves the audit trail and the dispatch history.
type HistoryHandler struct {
	audits   auditLister
	activity activityService
	log      *slog.Logger
}

// NewHistoryHandler creates a HistoryHandler.
func NewHistoryHandler(audits auditLister, activity activityService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{audits: audits, activity: activity, log: logger.With("handler", "history")}
}

type auditResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	IPAddress string    `json:"ip_address"`
}

type activityResponse struct {
	ID        int64          `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

type statsResponse struct {
	TodayTriggers int `json:"today_triggers"`
}

// Audits handles GET /api/audits?limit=.
func (h *HistoryHandler) Audits(w http.ResponseWriter, r *http.Request) {
	account, err := middleware.AccountFromCtx(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	entries, err := h.audits.List(r.Context(), account, queryLimit(r))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]auditResponse, len(entries))
	for i, e := range entries {
		resp[i] = auditResponse{
			ID:        e.ID.String(),
			Timestamp: e.Timestamp,
			Action:    e.Action.String(),
			Details:   e.Details,
			IPAddress: e.IPAddress,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Logs handles GET /api/logs/history?limit=.
func (h *HistoryHandler) Logs(w http.ResponseWriter, r *http.Request) {
	account, err := middleware.AccountFromCtx(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	entries, err := h.activity.History(r.Context(), account, queryLimit(r))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := make([]activityResponse, len(entries))
	for i, e := range entries {
		resp[i] = activityResponse{
			ID:        e.ID,
			Timestamp: e.CreatedAt,
			Level:     e.Level.String(),
			Message:   e.Message,
			Details:   e.Details,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Stats handles GET /api/stats.
func (h *HistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	account, err := middleware.AccountFromCtx(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	stats, err := h.activity.Stats(r.Context(), account)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{TodayTriggers: stats.TodayTriggers})
}
