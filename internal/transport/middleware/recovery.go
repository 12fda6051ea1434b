package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/core/events"
)

// Recovery turns a panic into a 500 response. The panic value is logged and
// published as an unexpected error but never sent to the client.
func Recovery(logger *slog.Logger, publisher events.Publisher) func(http.Handler) http.Handler {
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

				logger.ErrorContext(r.Context(), "panic recovered",
					"error", rec,
					"method", r.Method,
					"url", r.URL.String(),
					"stack", string(debug.Stack()))

				err := fmt.Errorf("panic: %v", rec)
				events.Emit(r.Context(), publisher, logger,
					events.NewUnexpectedErrorEvent(r.Method+" "+r.URL.Path, err))

				status, body := internal.NewInternalError("internal server error", err).ToHTTPResponse()
				writeJSON(w, status, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
