package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/oklog/ulid/v2"
)

// Recoverer is a middleware that recovers from panics. The panic is logged
// with its stack and the client receives a 500 carrying the same error_id.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				errorID := ulid.Make().String()
				logger.Error("panic recovered",
					slog.String("error_id", errorID),
					slog.String("request_id", GetRequestID(r.Context())),
					slog.Any("panic", rvr),
					slog.String("stack", string(debug.Stack())),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":    "An internal error occurred",
					"code":     "INTERNAL_ERROR",
					"error_id": errorID,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
