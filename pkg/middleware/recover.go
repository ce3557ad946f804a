package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/JaimeStill/intake/pkg/handlers"
)

// Recover returns middleware that converts a panic in a downstream handler
// into a 500 response carrying the panic value as its detail.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error(
					"panic recovered",
					"method", r.Method,
					"uri", r.URL.RequestURI(),
					"stack", string(debug.Stack()),
				)
				handlers.RespondDetail(
					w, logger,
					http.StatusInternalServerError,
					fmt.Sprint(rec),
					fmt.Errorf("panic: %v", rec),
				)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
