package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const actorKey contextKey = "actor"

const SystemActor = "system"

// WithActor stores who is performing the request. Authentication itself
// happens upstream; the gateway forwards the user id in X-User-ID.
func WithActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := strings.TrimSpace(r.Header.Get("X-User-ID"))
		if actor != "" {
			r = r.WithContext(context.WithValue(r.Context(), actorKey, actor))
		}
		next.ServeHTTP(w, r)
	})
}

// GetActor returns the acting user, or SystemActor when none was forwarded.
func GetActor(ctx context.Context) string {
	if val, ok := ctx.Value(actorKey).(string); ok && val != "" {
		return val
	}
	return SystemActor
}
