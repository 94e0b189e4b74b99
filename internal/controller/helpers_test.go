package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
)

func TestWriteError_SentinelMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"order not found", domainErrors.ErrOrderNotFound, http.StatusNotFound, "not_found"},
		{"product not found", domainErrors.ErrProductNotFound, http.StatusNotFound, "not_found"},
		{"out of stock", domainErrors.ErrOutOfStock, http.StatusBadRequest, "out_of_stock"},
		{"invalid signature", domainErrors.ErrInvalidSignature, http.StatusUnauthorized, "invalid_signature"},
		{"malformed content", domainErrors.ErrMalformedContent, http.StatusBadRequest, "invalid_content"},
		{"amount mismatch", domainErrors.ErrAmountMismatch, http.StatusBadRequest, "amount_mismatch"},
		{"state conflict", domainErrors.ErrInvalidStateTransition, http.StatusConflict, "invalid_state_transition"},
		{"code assignment", domainErrors.ErrCodeAssignment, http.StatusInternalServerError, "fulfillment_failed"},
		{"forbidden", domainErrors.ErrForbidden, http.StatusForbidden, "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestWriteError_WrappedSentinel(t *testing.T) {
	err := domainErrors.NewDomainError("pool_empty", "no codes left", domainErrors.ErrOutOfStock)

	w := httptest.NewRecorder()
	writeError(w, err)

	// Wrapped sentinels still hit the mapping table.
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWriteError_ValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, domainErrors.NewValidationError("product_id", "must be a valid UUID"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "validation_error", resp.Code)
}

func TestWriteError_UnknownError_Opaque(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "internal_error", resp.Code)
	// Internal details never leak to clients.
	assert.Equal(t, "internal server error", resp.Error)
}
