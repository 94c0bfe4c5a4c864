package identity

import (
	"context"
	"net/http"
	"strings"

	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

// Header carries the caller identity set by the authenticating proxy.
const Header = "X-Identity"

type identityCtxKey struct{}

// FromContext retrieves the caller identity from context. Anonymous callers get "".
func FromContext(ctx context.Context) string {
	if identity, ok := ctx.Value(identityCtxKey{}).(string); ok {
		return identity
	}
	return ""
}

// WithIdentity stores the caller identity in context.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// Middleware extracts the caller identity from request headers.
type Middleware struct {
	logger *zap.Logger
}

// New creates a new identity middleware.
func New(logger *zap.Logger) *Middleware {
	return &Middleware{
		logger: logger.Named("identity_middleware"),
	}
}

// AsRESTMiddleware returns a bunrouter middleware handler that stores the caller identity.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		identity := strings.TrimSpace(req.Header.Get(Header))

		m.logger.Debug("Resolved caller",
			zap.String("identity", identity),
			zap.String("method", req.Method),
			zap.String("route", req.Route()))

		return next(w, req.WithContext(WithIdentity(req.Context(), identity)))
	}
}
