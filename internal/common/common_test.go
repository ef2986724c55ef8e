package common_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/invoice-engine/internal/common"
)

func TestWriteErrorEnvelope(t *testing.T) {
	base := errors.New("boom")
	appErr := common.NewAppError("NOT_FOUND", "invoice not found", http.StatusNotFound, base).
		WithDetails(map[string]string{"number": "INV-9"})
	wrapped := fmt.Errorf("lookup: %w", appErr)

	rec := httptest.NewRecorder()
	common.WriteError(rec, wrapped)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Error common.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "NOT_FOUND", body.Error.Code)
	require.Equal(t, "invoice not found", body.Error.Message)
	require.ErrorIs(t, wrapped, base)
}

func TestWriteErrorHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	common.WriteError(rec, errors.New("secret detail"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "secret detail")
}

func TestDataEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	common.Data(rec, http.StatusOK, map[string]int{"pages": 2})
	require.JSONEq(t, `{"data":{"pages":2}}`, rec.Body.String())
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	require.Equal(t, "192.0.2.10", common.ClientIP(req))

	req.Header.Set("X-Real-IP", "192.0.2.20")
	require.Equal(t, "192.0.2.20", common.ClientIP(req))

	req.Header.Set("X-Forwarded-For", "192.0.2.30, 10.0.0.1")
	require.Equal(t, "192.0.2.30", common.ClientIP(req))
}

func TestSha256Hex(t *testing.T) {
	require.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", common.Sha256Hex(nil))
}
