package middleware

import "context"

type contextKey string

const (
	ctxPrincipal contextKey = "principal"
	ctxUserID    contextKey = "user_id"
)

// PrincipalFromContext returns the authenticated email, or "".
func PrincipalFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxPrincipal).(string); ok {
		return v
	}
	return ""
}

// UserIDFromContext returns the authenticated user id, or 0.
func UserIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxUserID).(int64); ok {
		return v
	}
	return 0
}

// WithPrincipal injects the authenticated email into the context.
func WithPrincipal(ctx context.Context, email string, userID int64) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxPrincipal, email)
	return context.WithValue(ctx, ctxUserID, userID)
}
