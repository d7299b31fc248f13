// Package requestid assigns each request a correlation ID, honoring an
// incoming X-Request-ID header so IDs survive proxy hops.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"crivo/pkg/requestcontext"
)

const header = "X-Request-ID"

// Middleware places the request ID in the context and echoes it back in the
// response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(header)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(header, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
