package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/livecue-backend/internal/domain"
	"github.com/heartmarshall/livecue-backend/internal/transport/middleware"
)

type configService interface {
	Get(ctx context.Context, account domain.AccountID) ([]domain.LinkConfig, domain.AlarmConfig, error)
	ReplaceLinks(ctx context.Context, account domain.AccountID, links []domain.LinkConfig) error
	ReplaceAlarmConfig(ctx context.Context, account domain.AccountID, cfg domain.AlarmConfig) error
}

// ConfigHandler serves link and alarm configuration.
type ConfigHandler struct {
	svc configService
	log *slog.Logger
}

// NewConfigHandler creates a ConfigHandler.
func NewConfigHandler(svc configService, logger *slog.Logger) *ConfigHandler {
	return &ConfigHandler{svc: svc, log: logger.With("handler", "config")}
}

type statusResponse struct {
	Status string `json:"status"`
}

// GetLinks handles GET /api/config.
func (h *ConfigHandler) GetLinks(w http.ResponseWriter, r *http.Request) {
	account, err := middleware.AccountFromCtx(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	links, _, err := h.svc.Get(r.Context(), account)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, links)
}

// SaveLinks handles POST /api/config. The body replaces the whole list.
func (h *ConfigHandler) SaveLinks(w http.ResponseWriter, r *http.Request) {
	account, err := middleware.AccountFromCtx(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var links []domain.LinkConfig
	if err := json.NewDecoder(r.Body).Decode(&links); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if links == nil {
		links = []domain.LinkConfig{}
	}

	if err := h.svc.ReplaceLinks(r.Context(), account, links); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

// GetAlarm handles GET /api/alarm-config.
func (h *ConfigHandler) GetAlarm(w http.ResponseWriter, r *http.Request) {
	account, err := middleware.AccountFromCtx(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	_, alarm, err := h.svc.Get(r.Context(), account)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, alarm)
}

// SaveAlarm handles POST /api/alarm-config.
func (h *ConfigHandler) SaveAlarm(w http.ResponseWriter, r *http.Request) {
	account, err := middleware.AccountFromCtx(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	var alarm domain.AlarmConfig
	if err := json.NewDecoder(r.Body).Decode(&alarm); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.ReplaceAlarmConfig(r.Context(), account, alarm); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}
