package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "ordercli/internal/errors"
	"ordercli/internal/infrastructure"
)

// Problem is an RFC 7807 problem details response
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Trace  string `json:"trace_id,omitempty"`
}

func writeProblem(w http.ResponseWriter, problem Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	json.NewEncoder(w).Encode(problem)
}

// NewErrorResponder creates the handler-level error writer: it logs
// the error and maps it to a problem response.
func NewErrorResponder(logger *slog.Logger) func(w http.ResponseWriter, r *http.Request, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request, err error) {
		ctx := r.Context()
		traceID := infrastructure.GetTraceID(ctx)

		logger.ErrorContext(ctx, "request error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)

		writeProblem(w, MapErrorToProblem(err, traceID))
	}
}

// MapErrorToProblem converts application errors to problem details.
// The mapping mirrors how each condition is meant to reach the user:
// an empty result and an invalid profile are the user's inputs, an
// unreachable file server is upstream.
func MapErrorToProblem(err error, traceID string) Problem {
	var srcErr *apperrors.SourceReadError

	switch {
	case errors.Is(err, apperrors.ErrSupplierUnknown):
		return Problem{
			Type:   "/errors/supplier-not-found",
			Title:  "Supplier Not Found",
			Status: http.StatusNotFound,
			Detail: err.Error(),
			Trace:  traceID,
		}
	case errors.Is(err, apperrors.ErrEmptyResult):
		return Problem{
			Type:   "/errors/empty-result",
			Title:  "Empty Result",
			Status: http.StatusUnprocessableEntity,
			Detail: "The selected files produced no rows",
			Trace:  traceID,
		}
	case errors.Is(err, apperrors.ErrInvalidProfile):
		return Problem{
			Type:   "/errors/invalid-profile",
			Title:  "Invalid Profile",
			Status: http.StatusBadRequest,
			Detail: err.Error(),
			Trace:  traceID,
		}
	case errors.Is(err, apperrors.ErrNoFilesSucceeded), errors.As(err, &srcErr):
		return Problem{
			Type:   "/errors/source-unavailable",
			Title:  "Source Files Unavailable",
			Status: http.StatusBadGateway,
			Detail: err.Error(),
			Trace:  traceID,
		}
	case apperrors.IsType(err, apperrors.ErrTypeTransport):
		return Problem{
			Type:   "/errors/transport-failure",
			Title:  "File Server Unreachable",
			Status: http.StatusBadGateway,
			Detail: err.Error(),
			Trace:  traceID,
		}
	case apperrors.IsType(err, apperrors.ErrTypeValidation):
		return Problem{
			Type:   "/errors/validation-failed",
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: err.Error(),
			Trace:  traceID,
		}
	}

	return Problem{
		Type:   "/errors/internal-server-error",
		Title:  "Internal Server Error",
		Status: http.StatusInternalServerError,
		Detail: "An unexpected error occurred",
		Trace:  traceID,
	}
}
