// Package handlers implements the HTML (and JSON) endpoints of the invoicer.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/diewo77/invoicer/httpx"
	"github.com/diewo77/invoicer/i18n"
	"github.com/diewo77/invoicer/internal/flash"
	"github.com/diewo77/invoicer/internal/logger"
	"github.com/diewo77/invoicer/internal/middleware"
	"github.com/diewo77/invoicer/internal/services"
	"github.com/diewo77/invoicer/view"
)

// Deps are the shared handles passed to every handler.
type Deps struct {
	Logger *logger.Logger
	View   *view.Renderer
	Flash  *flash.Store
}

func (d Deps) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	d.renderStatus(w, r, http.StatusOK, name, data)
}

func (d Deps) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if err := d.View.RenderStatus(w, r, status, name, data); err != nil {
		d.Logger.Error(r.Context(), "view.render_failed", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// fail maps store errors to a response: missing records are 404, anything
// else is logged and answered with 500.
func (d Deps) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, services.ErrNotFound) {
		d.notFound(w, r)
		return
	}
	d.Logger.Error(r.Context(), "request.failed", err)
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (d Deps) notFound(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	http.NotFound(w, r)
}

// flash queues a translated notice; a session failure only costs the notice.
func (d Deps) flash(w http.ResponseWriter, r *http.Request, typ, code string, args ...any) {
	if d.Flash == nil {
		return
	}
	msg := i18n.Tf(middleware.LangFrom(r), code, args...)
	if err := d.Flash.Add(w, r, typ, msg); err != nil {
		d.Logger.Warn(d.Logger.WithField(r.Context(), "error", err.Error()), "flash.save_failed")
	}
}

// pathID reads the {id} route parameter. ok is false for anything that is
// not a positive integer.
func pathID(r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
