package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
}

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found", "honda")
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
	assert.Equal(t, "SUPPLIER_NOT_FOUND", err.ErrorCode)
	assert.Equal(t, "honda", err.Details)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrEmptyResultSet)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"error_code":"EMPTY_RESULT"`)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}

func TestSourceReadError(t *testing.T) {
	cause := fmt.Errorf("undecodable bytes")
	err := NewSourceReadError("orders-13-11.csv", cause)

	assert.Contains(t, err.Error(), "orders-13-11.csv")
	assert.ErrorIs(t, err, cause)

	var sre *SourceReadError
	require.True(t, errors.As(fmt.Errorf("download: %w", err), &sre))
	assert.Equal(t, "orders-13-11.csv", sre.Filename)
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("cannot persist supplier", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsType(err, ErrTypeStorage))
	assert.False(t, IsType(err, ErrTypeTransport))
	assert.Contains(t, err.Error(), "STORAGE")
}

func TestAppError_WithContext(t *testing.T) {
	err := NewTransportError("download failed", nil).WithContext("file", "a.csv")
	assert.Equal(t, "a.csv", err.Context["file"])
}

func TestSentinels(t *testing.T) {
	wrapped := fmt.Errorf("compose: %w", ErrEmptyResult)
	assert.ErrorIs(t, wrapped, ErrEmptyResult)
	assert.NotErrorIs(t, wrapped, ErrNoFilesSucceeded)
}
