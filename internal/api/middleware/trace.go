package middleware

import (
	"log/slog"
	"net/http"

	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/api/shared"
	"github.com/XavierTanMT/IS212---Software-Project-Management-sub001/internal/platform/logger"
)

// TraceMiddleware tags each request with a trace id and stores a logger
// carrying that id in the request context. Apply it before any middleware
// that logs.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			w.Header().Set("X-Trace-Id", traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
