package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/helixml/fundmatch/internal/log"
)

// CorrelationHeader carries the request ID back to the client.
const CorrelationHeader = "X-Request-Id"

// Correlation copies chi's request ID into the log context so every record
// logged while serving the request carries it. It must run after
// middleware.RequestID.
func Correlation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := middleware.GetReqID(r.Context())
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set(CorrelationHeader, id)
		next.ServeHTTP(w, r.WithContext(log.WithCorrelationID(r.Context(), id)))
	})
}
