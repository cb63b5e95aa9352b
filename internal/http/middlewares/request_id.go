package middlewares

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dropDatabas3/authcore/internal/observability/logger"
)

const requestIDHeader = "X-Request-Id"

// WithRequestID asigna un request ID (o respeta el entrante), lo propaga en
// el contexto, en el response header y en el logger scoped del request.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get(requestIDHeader)
			if rid == "" {
				rid = uuid.NewString()
			}

			ctx := setRequestID(r.Context(), rid)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.RequestID(rid)))

			w.Header().Set(requestIDHeader, rid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
