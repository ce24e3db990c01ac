package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ordercli/internal/engine"
	apierrors "ordercli/internal/errors"
	"ordercli/internal/store"
)

// SupplierHandler serves the supplier catalogue and per-mode
// transformation profiles
type SupplierHandler struct {
	service SupplierServiceInterface
	logger  *slog.Logger
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(service SupplierServiceInterface, logger *slog.Logger) *SupplierHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SupplierHandler{
		service: service,
		logger:  logger.With(slog.String("component", "supplier_handler")),
	}
}

// Routes returns the supplier routes
func (h *SupplierHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Post("/", h.Create)

	r.Route("/{slug}", func(r chi.Router) {
		r.Use(h.SupplierCtx)
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)

		r.Route("/profiles/{mode}", func(r chi.Router) {
			r.Use(h.ModeCtx)
			r.Get("/", h.GetProfile)
			r.Put("/", h.UpdateProfile)
		})
	})

	return r
}

// SupplierCtx validates the slug parameter
func (h *SupplierHandler) SupplierCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "slug") == "" {
			render.Render(w, r, apierrors.NewErrorResponse(
				apierrors.ErrValidation("slug", "Supplier slug is required")))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ModeCtx validates the mode parameter against the known consumer modes
func (h *SupplierHandler) ModeCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !engine.Mode(chi.URLParam(r, "mode")).Valid() {
			render.Render(w, r, apierrors.NewErrorResponse(
				apierrors.ErrValidation("mode", "Mode must be display, print or export")))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// List handles GET /api/suppliers
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.List(r.Context())
	if err != nil {
		renderServiceError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"suppliers": suppliers,
		"count":     len(suppliers),
	})
}

// Get handles GET /api/suppliers/{slug}
func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.service.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		renderServiceError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, supplier)
}

// Create handles POST /api/suppliers
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var supplier store.Supplier
	if err := render.DecodeJSON(r.Body, &supplier); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	if supplier.Slug == "" || supplier.Name == "" {
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.ErrValidation("slug", "Slug and name are required")))
		return
	}

	if err := h.service.Create(r.Context(), &supplier); err != nil {
		renderServiceError(w, r, h.logger, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, supplier)
}

// Delete handles DELETE /api/suppliers/{slug}
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		renderServiceError(w, r, h.logger, err)
		return
	}

	render.NoContent(w, r)
}

// GetProfile handles GET /api/suppliers/{slug}/profiles/{mode}
func (h *SupplierHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	mode := engine.Mode(chi.URLParam(r, "mode"))

	profile, err := h.service.GetProfile(r.Context(), slug, mode)
	if err != nil {
		renderServiceError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"supplier": slug,
		"mode":     mode,
		"profile":  profile,
	})
}

// UpdateProfile handles PUT /api/suppliers/{slug}/profiles/{mode}
func (h *SupplierHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	mode := engine.Mode(chi.URLParam(r, "mode"))

	var profile engine.Profile
	if err := render.DecodeJSON(r.Body, &profile); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	profile.Mode = mode

	if err := profile.Validate(); err != nil {
		renderServiceError(w, r, h.logger, err)
		return
	}

	if err := h.service.UpdateProfile(r.Context(), slug, mode, profile); err != nil {
		renderServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "profile updated",
		slog.String("supplier", slug),
		slog.String("mode", string(mode)))

	render.JSON(w, r, map[string]interface{}{
		"supplier": slug,
		"mode":     mode,
		"profile":  profile,
	})
}
