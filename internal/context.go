package internal

import (
	"context"
	"time"

	"github.com/frahmantamala/grievance-management/internal/core/user"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// ContextWithUser stores the authenticated requester.
func ContextWithUser(ctx context.Context, identity *user.Identity) context.Context {
	return context.WithValue(ctx, ContextUserKey, identity)
}

// UserFromContext returns the requester set by the auth middleware.
func UserFromContext(ctx context.Context) (*user.Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	identity, ok := ctx.Value(ContextUserKey).(*user.Identity)
	return identity, ok && identity != nil
}

func UserIDFromContext(ctx context.Context) string {
	if identity, ok := UserFromContext(ctx); ok {
		return identity.ID
	}
	return ""
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
