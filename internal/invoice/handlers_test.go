package invoice

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type errorResponse struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func newTestRouter(store Store) http.Handler {
	handler := NewHandler(HandlerConfig{Service: NewService(ServiceConfig{Store: store})})
	r := chi.NewRouter()
	r.Route("/api/v1", handler.Routes)
	return r
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerRender(t *testing.T) {
	router := newTestRouter(nil)
	rec := doJSON(t, router, http.MethodPost, "/api/v1/invoices/render", sampleInvoice())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "INV-001", resp.Data.InvoiceNumber)
	require.Equal(t, "6,611.12", resp.Data.FirstPage.Summary.GrandTotal)
	require.Equal(t, "Six Thousand Six Hundred Eleven Rupees and Twelve Paisa", resp.Data.TotalInWords)
}

func TestHandlerRenderAcceptsRawPayload(t *testing.T) {
	payload := `{
		"invoiceNumber": "INV-7",
		"invoiceDate": "2024-04-01",
		"customerBillTo": {"name": "A", "address": "B", "gstNumber": "C"},
		"items": [{"id": "1", "name": "Tile", "price": "99.50", "quantity": 2, "hsnCode": "6907"}],
		"gstRate": 18,
		"packaging": 0,
		"transportationAndOthers": "0",
		"showPcsInQty": true
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/render", bytes.NewBufferString(payload))
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2 Pcs", resp.Data.FirstPage.Rows[0].QuantityLabel)
	require.Equal(t, "234.82", resp.Data.FirstPage.Summary.GrandTotal)
}

func TestHandlerRenderRejectsInvalidInvoice(t *testing.T) {
	inv := sampleInvoice()
	inv.BillTo.Name = ""
	rec := doJSON(t, newTestRouter(nil), http.MethodPost, "/api/v1/invoices/render", inv)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "INVALID_INVOICE", resp.Error.Code)
	require.Contains(t, string(resp.Error.Details), "customerBillTo.name")

	inv = sampleInvoice()
	inv.Items[0].Quantity = -2
	rec = doJSON(t, newTestRouter(nil), http.MethodPost, "/api/v1/invoices/render", inv)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "RANGE_VIOLATION", resp.Error.Code)
}

func TestHandlerRenderMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/render", bytes.NewBufferString(`{"invoiceNumber":`))
	rec := httptest.NewRecorder()
	newTestRouter(nil).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "BAD_REQUEST", resp.Error.Code)
}

func TestHandlerValidate(t *testing.T) {
	inv := sampleInvoice()
	inv.Total = decPtr("1")
	rec := doJSON(t, newTestRouter(nil), http.MethodPost, "/api/v1/invoices/validate", inv)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Valid      bool        `json:"valid"`
			Violations []Violation `json:"violations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Data.Valid)
	require.Len(t, resp.Data.Violations, 1)
	require.Equal(t, CodeTotalMismatch, resp.Data.Violations[0].Code)
	require.Equal(t, SeverityWarning, resp.Data.Violations[0].Severity)
}

func TestHandlerRenderStored(t *testing.T) {
	store := &stubStore{invoices: map[string]Invoice{"INV-001": sampleInvoice()}}
	router := newTestRouter(store)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/invoices/INV-001/render", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/invoices/INV-404/render", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, newTestRouter(nil), http.MethodGet, "/api/v1/invoices/INV-001/render", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlerWords(t *testing.T) {
	router := newTestRouter(nil)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/amounts/words?amount=118000", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Amount string `json:"amount"`
			Words  string `json:"words"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "118000.00", resp.Data.Amount)
	require.Equal(t, "One Lakh Eighteen Thousand Rupees", resp.Data.Words)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/amounts/words?amount=abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/amounts/words?amount=-5", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
