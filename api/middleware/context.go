package middleware

import "context"

type contextKey string

const (
	ctxAdminID   contextKey = "admin_id"
	ctxRole      contextKey = "admin_role"
	ctxSessionID contextKey = "session_id"
)

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func AdminIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxAdminID)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

// SessionIDFromContext returns the access token's jti, which keys the Redis
// session.
func SessionIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxSessionID)
}

// WithAdmin injects the authenticated admin into the context.
func WithAdmin(ctx context.Context, adminID, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxAdminID, adminID)
	return context.WithValue(ctx, ctxRole, role)
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}
