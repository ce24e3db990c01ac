package http

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ordercli/internal/errors"
	"ordercli/internal/files"
)

// LocalFilesInterface defines the staging area operations the handlers need
type LocalFilesInterface interface {
	ListDownloads() ([]files.FileInfo, error)
	ListExports() ([]files.FileInfo, error)
	RemoveExport(name string) error
}

// ExportsHandler serves the rendered outputs sitting in the exports
// directory
type ExportsHandler struct {
	local  LocalFilesInterface
	logger *slog.Logger
}

// NewExportsHandler creates a new exports handler
func NewExportsHandler(local LocalFilesInterface, logger *slog.Logger) *ExportsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportsHandler{
		local:  local,
		logger: logger.With(slog.String("component", "exports_handler")),
	}
}

// Routes returns the exports routes
func (h *ExportsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Delete("/{name}", h.Remove)

	return r
}

// List handles GET /api/exports
func (h *ExportsHandler) List(w http.ResponseWriter, r *http.Request) {
	exports, err := h.local.ListExports()
	if err != nil {
		renderServiceError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"exports": exports,
		"count":   len(exports),
	})
}

// Remove handles DELETE /api/exports/{name}
func (h *ExportsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.local.RemoveExport(name); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.NotFoundError("export")))
			return
		}
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.ErrValidation("name", err.Error())))
		return
	}

	render.NoContent(w, r)
}
