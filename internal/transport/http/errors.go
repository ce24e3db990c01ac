package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "ordercli/internal/errors"
)

// renderServiceError translates a service layer error into the API
// error vocabulary and renders it. Unclassified errors become a 500
// without leaking their message.
func renderServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var srcErr *apierrors.SourceReadError
	var valErrs validator.ValidationErrors

	apiErr := apierrors.ErrInternalServer

	switch {
	case errors.Is(err, apierrors.ErrSupplierUnknown):
		apiErr = apierrors.ErrSupplierNotFound
	case errors.Is(err, apierrors.ErrEmptyResult):
		apiErr = apierrors.ErrEmptyResultSet
	case errors.Is(err, apierrors.ErrInvalidProfile):
		apiErr = apierrors.InvalidRequestWithError(err)
	case errors.Is(err, apierrors.ErrNoFilesSucceeded):
		apiErr = apierrors.TransportError("download", err)
	case errors.As(err, &srcErr):
		apiErr = apierrors.TransportError("read", err)
	case errors.As(err, &valErrs):
		apiErr = apierrors.NewValidationError(err.Error())
	case apierrors.IsType(err, apierrors.ErrTypeTransport):
		apiErr = apierrors.TransportError("remote", err)
	case apierrors.IsType(err, apierrors.ErrTypeValidation):
		apiErr = apierrors.NewValidationError(err.Error())
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}

	render.Render(w, r, apierrors.NewErrorResponse(apiErr))
}
