package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/txfeed/pkg/logger"
)

// maxErrorBody caps how much of an error response is kept for the log line.
const maxErrorBody = 4 << 10

// errorBody records the first maxErrorBody bytes written after a 4xx/5xx status.
type errorBody struct {
	chimiddleware.WrapResponseWriter
	body []byte
}

func (e *errorBody) Write(b []byte) (int, error) {
	if e.Status() >= http.StatusBadRequest {
		if room := maxErrorBody - len(e.body); room > 0 {
			e.body = append(e.body, b[:min(room, len(b))]...)
		}
	}
	return e.WrapResponseWriter.Write(b)
}

// errorMessage returns the "error" field of a JSON error payload.
func (e *errorBody) errorMessage() string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(e.body, &payload) != nil {
		return ""
	}
	return payload.Error
}

// RequestLogger logs one line per request. Requests to quietPaths
// (health and scrape endpoints) are logged at debug unless they fail.
func RequestLogger(log *logger.Logger, quietPaths ...string) func(next http.Handler) http.Handler {
	quiet := make(map[string]struct{}, len(quietPaths))
	for _, p := range quietPaths {
		quiet[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			if reqID := chimiddleware.GetReqID(r.Context()); reqID != "" {
				w.Header().Set(chimiddleware.RequestIDHeader, reqID)
				r = r.WithContext(logger.ContextWithRequestID(r.Context(), reqID))
			}
			rec := &errorBody{WrapResponseWriter: chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)}

			next.ServeHTTP(rec, r)

			status := rec.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", rec.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			}
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				attrs = append(attrs, "route", rctx.RoutePattern())
			}
			if msg := rec.errorMessage(); msg != "" {
				attrs = append(attrs, "error", msg)
			}

			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			default:
				if _, ok := quiet[r.URL.Path]; ok {
					level = slog.LevelDebug
				}
			}
			log.WithContext(r.Context()).Log(r.Context(), level, "HTTP request", attrs...)
		})
	}
}
