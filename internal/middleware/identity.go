package middleware

import (
	"context"
	"net/http"
)

type ctxKey int

const userIDKey ctxKey = iota

// UserIDHeader carries the caller's id, set by the auth gateway after token
// verification. Authentication itself happens outside this service.
const UserIDHeader = "X-User-ID"

// Identity extracts the caller's user id into the request context. Requests
// without one proceed; handlers that require a user reject them.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := r.Header.Get(UserIDHeader)
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uid)))
	})
}

// WithUserID returns a context carrying the user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the caller's user id, or "" when unauthenticated.
func UserID(ctx context.Context) string {
	uid, _ := ctx.Value(userIDKey).(string)
	return uid
}
