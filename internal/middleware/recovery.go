package middleware

import (
	"net/http"
	"runtime"

	"factify/internal/response"
	"factify/internal/services"

	"go.uber.org/zap"
)

// Recovery middleware catches panics, logs the stack and returns a masked
// JSON error instead of letting the connection die.
func Recovery(builder *response.Builder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := make([]byte, 8192)
					stack = stack[:runtime.Stack(stack, false)]

					requestLogger := GetRequestLogger(r.Context())
					requestLogger.Error("Panic recovered",
						zap.Any("panic", rec),
						zap.ByteString("stack", stack),
					)

					builder.WriteError(w, r, services.NewInternalError("request failed"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
