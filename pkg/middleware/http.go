package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

// TraceID returns the request trace id stored by Logging, or "".
func TraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging logs every request with its trace id. Cloud Run style
// X-Cloud-Trace-Context headers are honoured.
func Logging(log logger.ZapLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := r.Header.Get("X-Cloud-Trace-Context")
		if idx := strings.IndexByte(traceID, '/'); idx != -1 {
			traceID = traceID[:idx]
		}
		if traceID == "" {
			traceID = uuid.NewString()
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), traceIDKey, traceID)))

		log.Info("request completed",
			zap.String("trace_id", traceID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
		)
	})
}
