package invoice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/invoice-engine/internal/common"
	"github.com/noah-isme/invoice-engine/internal/words"
)

// Handler exposes invoice endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// Routes mounts the invoice endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/invoices/render", h.Render)
	r.Post("/invoices/validate", h.Validate)
	r.Get("/invoices/{number}/render", h.RenderStored)
	r.Get("/amounts/words", h.Words)
}

// Render handles POST /api/v1/invoices/render.
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "invoice service not configured", nil)
		return
	}
	inv, err := decodeInvoice(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	result, err := h.service.Render(r.Context(), inv)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, result)
}

// Validate handles POST /api/v1/invoices/validate.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "invoice service not configured", nil)
		return
	}
	inv, err := decodeInvoice(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	result := h.service.Validate(r.Context(), inv)
	common.Data(w, http.StatusOK, map[string]any{
		"valid":      result.Valid(),
		"violations": result.Violations,
	})
}

// RenderStored handles GET /api/v1/invoices/{number}/render.
func (h *Handler) RenderStored(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "invoice service not configured", nil)
		return
	}
	result, err := h.service.RenderStored(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, result)
}

// Words handles GET /api/v1/amounts/words?amount=.
func (h *Handler) Words(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "invoice service not configured", nil)
		return
	}
	raw := strings.TrimSpace(r.URL.Query().Get("amount"))
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "amount must be a decimal number", map[string]any{"amount": raw})
		return
	}
	text, err := h.service.Words(amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.Data(w, http.StatusOK, map[string]any{
		"amount": amount.StringFixed(2),
		"words":  text,
	})
}

func decodeInvoice(r *http.Request) (Invoice, error) {
	var inv Invoice
	if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return inv, common.NewAppError("PAYLOAD_TOO_LARGE", "request body too large", http.StatusRequestEntityTooLarge, err)
		}
		return inv, common.NewAppError("BAD_REQUEST", "invalid invoice payload", http.StatusBadRequest, err)
	}
	return inv, nil
}

// toAppError maps engine errors onto the HTTP error envelope.
func toAppError(err error) *common.AppError {
	if appErr, ok := common.AsAppError(err); ok {
		return appErr
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		code, message := "INVALID_INVOICE", "invoice is missing required fields"
		if errors.Is(err, ErrRangeViolation) {
			code, message = "RANGE_VIOLATION", "invoice contains out-of-range values"
		}
		return common.NewAppError(code, message, http.StatusUnprocessableEntity, err).
			WithDetails(map[string]any{"violations": verr.Violations})
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return common.NewAppError("NOT_FOUND", "invoice not found", http.StatusNotFound, err)
	case errors.Is(err, ErrStoreUnavailable):
		return common.NewAppError("STORE_UNAVAILABLE", "stored invoices are not available", http.StatusServiceUnavailable, err)
	case errors.Is(err, words.ErrNegativeAmount), errors.Is(err, words.ErrAmountTooLarge), errors.Is(err, ErrRangeViolation):
		return common.NewAppError("RANGE_VIOLATION", err.Error(), http.StatusUnprocessableEntity, err)
	}
	return common.NewAppError("INTERNAL", "internal error", http.StatusInternalServerError, err)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	appErr := toAppError(err)
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		appErr.Details = map[string]any{"offset": syntaxErr.Offset}
	}
	common.WriteError(w, appErr)
}
