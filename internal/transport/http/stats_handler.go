package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "ordercli/internal/errors"
)

// StatsHandler serves the per-selection aggregation endpoint
type StatsHandler struct {
	service StatsServiceInterface
	logger  *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service StatsServiceInterface, logger *slog.Logger) *StatsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsHandler{
		service: service,
		logger:  logger.With(slog.String("component", "stats_handler")),
	}
}

// Routes returns the stats routes
func (h *StatsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.Summarize)
	return r
}

// Summarize handles GET /api/stats?files=a.csv,b.csv&supplier=slug.
// The supplier parameter is optional; with it the total is compared
// against the supplier's minimum order amount.
func (h *StatsHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("files")
	if raw == "" {
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.ErrValidation("files", "At least one file name is required")))
		return
	}

	var files []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			files = append(files, name)
		}
	}
	if len(files) == 0 {
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.ErrValidation("files", "At least one file name is required")))
		return
	}

	summary, err := h.service.Summarize(r.Context(), r.URL.Query().Get("supplier"), files)
	if err != nil {
		renderServiceError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, summary)
}
