package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		want     string
	}{
		{
			name:     "without cause",
			appError: NewAppValidationError("workers must be positive"),
			want:     "[VALIDATION] workers must be positive",
		},
		{
			name:     "with cause",
			appError: NewLoadError("open workbook", errors.New("zip: not a valid zip file")),
			want:     "[LOAD] open workbook: zip: not a valid zip file",
		},
		{
			name:     "not found",
			appError: NewNotFoundError("sheet Application"),
			want:     "[NOT_FOUND] sheet Application not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.appError.Error())
		})
	}
}

func TestAppError_Detail(t *testing.T) {
	err := NewLoadError("open workbook", errors.New("unexpected EOF"))
	assert.Equal(t, "open workbook: unexpected EOF", err.Detail())

	err = NewExtractionError("units locator panicked", nil)
	assert.Equal(t, "units locator panicked", err.Detail())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewNetworkError("download failed", cause)

	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("fetch: %w", err)
	var appErr *AppError
	require.ErrorAs(t, wrapped, &appErr)
	assert.Equal(t, ErrTypeNetwork, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("bad cell", nil).
		WithContext("sheet", "Application").
		WithContext("row", 12)

	assert.Equal(t, "Application", err.Context["sheet"])
	assert.Equal(t, 12, err.Context["row"])

	bare := &AppError{Type: ErrTypeStorage, Message: "write report"}
	bare.WithContext("path", "summary_output.csv")
	assert.Equal(t, "summary_output.csv", bare.Context["path"])
}

func TestIsType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		typ  ErrorType
		want bool
	}{
		{"direct match", NewConfigError("bad yaml", nil), ErrTypeConfig, true},
		{"wrapped match", fmt.Errorf("load: %w", NewLoadError("x", nil)), ErrTypeLoad, true},
		{"type mismatch", NewStorageError("x", nil), ErrTypeLoad, false},
		{"plain error", errors.New("plain"), ErrTypeLoad, false},
		{"nil", nil, ErrTypeLoad, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsType(tt.err, tt.typ))
		})
	}
}
