package handlers

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/invoicer/httpx"
	"github.com/diewo77/invoicer/internal/db"
	"github.com/diewo77/invoicer/internal/flash"
)

// SystemHandler serves schema initialisation and health checks.
type SystemHandler struct {
	Deps
	conn *gorm.DB
	// migrate applies the schema; main binds it to the configured strategy.
	migrate func(context.Context) error
}

func NewSystemHandler(deps Deps, conn *gorm.DB, migrate func(context.Context) error) *SystemHandler {
	return &SystemHandler{Deps: deps, conn: conn, migrate: migrate}
}

// InitDB: GET /initdb creates any missing tables and returns to the dashboard.
func (h *SystemHandler) InitDB(w http.ResponseWriter, r *http.Request) {
	if err := h.migrate(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.flash(w, r, flash.TypeSuccess, "flash.db_initialized")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Health: GET /health reports the process is up.
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Healthz: GET /healthz also checks the database.
func (h *SystemHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := db.Ping(r.Context(), h.conn); err != nil {
		h.Logger.Warn(h.Logger.WithField(r.Context(), "error", err.Error()), "health.db_unavailable")
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
