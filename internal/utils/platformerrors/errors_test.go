package platformerrors

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError_CarriesRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	err := NewError(ctx, LayerDomain, ErrorTypeNotFound, "media not found", nil, "media-get-not-found")

	assert.Equal(t, "req-123", err.GetRequestID())
	assert.Equal(t, "media-get-not-found", err.GetUUID())
	assert.Equal(t, ErrorTypeNotFound, err.GetErrorType())
	assert.Contains(t, err.Error(), "media not found")
}

func TestAsError_PreservesTypeAndCode(t *testing.T) {
	ctx := context.Background()
	inner := NewError(ctx, LayerRepository, ErrorTypeDatabaseError, "insert failed", errors.New("boom"), "media-create-db")

	wrapped := AsError(ctx, LayerDomain, inner, "create media")
	require.NotNil(t, wrapped)
	assert.Equal(t, ErrorTypeDatabaseError, wrapped.Type)
	assert.Equal(t, "media-create-db", wrapped.UUID)
	assert.True(t, errors.Is(wrapped, inner))

	foreign := AsError(ctx, LayerDomain, errors.New("plain"), "something")
	assert.Equal(t, ErrorTypeInternal, foreign.Type)

	assert.Nil(t, AsError(ctx, LayerDomain, nil, "nothing"))
}

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  int
	}{
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeConflict, http.StatusConflict},
		{ErrorTypeForbidden, http.StatusForbidden},
		{ErrorTypeUnauthorized, http.StatusUnauthorized},
		{ErrorTypeStorage, http.StatusBadGateway},
		{ErrorTypeNotImplemented, http.StatusNotImplemented},
		{ErrorTypeDatabaseError, http.StatusInternalServerError},
		{ErrorType("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorTypeToHTTPStatus(tt.errorType))
		})
	}
}

func TestTypeOf(t *testing.T) {
	err := NewError(context.Background(), LayerDomain, ErrorTypeForbidden, "nope", nil, "x")
	assert.Equal(t, ErrorTypeForbidden, TypeOf(err))
	assert.Equal(t, ErrorTypeInternal, TypeOf(errors.New("plain")))
	assert.True(t, IsErrorType(err, ErrorTypeForbidden))
	assert.False(t, IsErrorType(errors.New("plain"), ErrorTypeForbidden))
}
