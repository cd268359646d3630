package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

const (
	requestIDHeader            = "X-Request-ID"
	requestUserKey  contextKey = "requestUser"
)

// requestUser carries the authenticated username back out to RequestLogger,
// which runs before StaffUser has set the claims.
type requestUser struct {
	name string
}

func recordRequestUser(ctx context.Context, username string) {
	if u, ok := ctx.Value(requestUserKey).(*requestUser); ok {
		u.name = username
	}
}

// RequestLogger logs each request's start and completion with its status and
// duration. Mount it ahead of StaffUser so rejected requests are logged too.
// The request id comes from chi's RequestID middleware, the X-Request-ID
// header, or a fresh uuid, in that order, and is echoed on the response.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())
			if reqID == "" {
				reqID = r.Header.Get(requestIDHeader)
			}
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)
			logger.Info("request started",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", reqID,
				"remote_ip", r.RemoteAddr,
			)

			user := &requestUser{}
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestUserKey, user)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"request_id", reqID,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if user.name != "" {
				attrs = append(attrs, "username", user.name)
			}
			if status >= http.StatusInternalServerError {
				logger.Error("request completed", attrs...)
				return
			}
			logger.Info("request completed", attrs...)
		})
	}
}
