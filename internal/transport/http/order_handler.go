package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"ordercli/internal/engine"
	apierrors "ordercli/internal/errors"
	"ordercli/internal/operations"
	"ordercli/internal/services"
)

// operationModes maps the operation names the UI posts to consumer
// modes. Preview runs the display profile without writing a file.
var operationModes = map[string]engine.Mode{
	"preview": engine.ModeDisplay,
	"print":   engine.ModePrint,
	"export":  engine.ModeExport,
}

// OrderHandler serves the remote file listing and the processing
// operations
type OrderHandler struct {
	orders    OrderServiceInterface
	suppliers SupplierServiceInterface
	manager   *operations.Manager
	logger    *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderServiceInterface, suppliers SupplierServiceInterface,
	manager *operations.Manager, logger *slog.Logger) *OrderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderHandler{
		orders:    orders,
		suppliers: suppliers,
		manager:   manager,
		logger:    logger.With(slog.String("component", "order_handler")),
	}
}

// FileRoutes returns the remote file routes
func (h *OrderHandler) FileRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.ListFiles)
	r.Post("/refresh", h.RefreshFiles)

	return r
}

// OperationRoutes returns the processing operation routes
func (h *OrderHandler) OperationRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/{operation}", h.RunOperation)
	r.Get("/{id}", h.GetOperation)

	return r
}

// RefreshFiles handles POST /api/files/refresh
func (h *OrderHandler) RefreshFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.orders.RefreshFiles(r.Context())
	if err != nil {
		renderServiceError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"files": files,
		"count": len(files),
	})
}

// ListFiles handles GET /api/files. An optional supplier query
// parameter filters the listing to that supplier's file patterns.
func (h *OrderHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("supplier")

	if slug == "" {
		files := h.orders.ListFiles(nil)
		render.JSON(w, r, map[string]interface{}{"files": files, "count": len(files)})
		return
	}

	supplier, err := h.suppliers.Get(r.Context(), slug)
	if err != nil {
		renderServiceError(w, r, h.logger, err)
		return
	}

	files := h.orders.ListFiles(supplier)
	render.JSON(w, r, map[string]interface{}{
		"supplier": slug,
		"files":    files,
		"count":    len(files),
	})
}

// RunOperation handles POST /api/operations/{operation} for preview,
// print and export. The run goes through the operations manager so
// WebSocket clients see progress; the response carries the final state
// and the pipeline result.
func (h *OrderHandler) RunOperation(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "operation")
	mode, ok := operationModes[name]
	if !ok {
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.ErrValidation("operation", "Operation must be preview, print or export")))
		return
	}

	var req services.ProcessRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	req.Mode = mode

	if req.Supplier == "" || len(req.Files) == 0 {
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.ErrValidation("files", "Supplier and at least one file are required")))
		return
	}

	step := &processStep{orders: h.orders, req: req}
	state, err := h.manager.Run(r.Context(), name, []operations.Step{step})
	if err != nil {
		renderServiceError(w, r, h.logger, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"operation": state.Snapshot(),
		"result":    step.result,
	})
}

// GetOperation handles GET /api/operations/{id}
func (h *OrderHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	state, ok := h.manager.Get(chi.URLParam(r, "id"))
	if !ok {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.NotFoundError("operation")))
		return
	}

	render.JSON(w, r, state.Snapshot())
}

// processStep runs one pipeline request as an operation step
type processStep struct {
	orders OrderServiceInterface
	req    services.ProcessRequest
	result *services.ProcessResult
}

func (s *processStep) ID() string   { return "process" }
func (s *processStep) Name() string { return "Process supplier files" }

func (s *processStep) Execute(ctx context.Context, state *operations.State) error {
	result, err := s.orders.Process(ctx, s.req)
	if err != nil {
		return err
	}
	s.result = result

	state.Set("supplier", s.req.Supplier)
	state.Set("files_read", result.FilesRead)
	if result.OutputPath != "" {
		state.Set("output_path", result.OutputPath)
	}
	return nil
}
