package security

import (
	"net/http"

	"github.com/noah-isme/invoice-engine/internal/common"
)

// BodyLimit caps request payloads. Declared oversize bodies are refused up
// front; chunked bodies are wrapped so the decoder sees *http.MaxBytesError.
type BodyLimit struct {
	Max int64
}

// Middleware rejects oversize requests with 413 PAYLOAD_TOO_LARGE.
func (b BodyLimit) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.Max <= 0 || r.Body == nil || r.Body == http.NoBody {
			next.ServeHTTP(w, r)
			return
		}
		if r.ContentLength > b.Max {
			common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large", map[string]any{"limitBytes": b.Max})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, b.Max)
		next.ServeHTTP(w, r)
	})
}
