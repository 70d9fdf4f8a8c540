package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const identityKey = "request_identity"

// RequestIdentity annotates one request with the outcome of identity
// resolution. It lives in the request's locals and is never persisted.
type RequestIdentity struct {
	ClerkID  string
	Resolved bool
}

// Middleware classifies request paths as public or protected and, for
// protected paths, resolves the caller's identity. It never rejects a
// request itself; handlers that need identity reject its absence.
type Middleware struct {
	verifier    *Verifier
	publicPaths []string
	logger      *zap.Logger
}

// NewMiddleware constructs middleware with the given public path list.
func NewMiddleware(verifier *Verifier, publicPaths []string, logger *zap.Logger) *Middleware {
	if len(publicPaths) == 0 {
		publicPaths = []string{"/health"}
	}
	return &Middleware{verifier: verifier, publicPaths: publicPaths, logger: logger}
}

// Handle annotates the request and always passes it along the chain.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	path := c.Path()

	if m.isPublic(path) {
		m.logger.Debug("skipping auth for public path", zap.String("path", path))
		return c.Next()
	}

	clerkID, resolved := m.verifier.TryResolve(c.Context(), bearerToken(c))
	c.Locals(identityKey, &RequestIdentity{ClerkID: clerkID, Resolved: resolved})
	m.logger.Debug("identity resolution attempted",
		zap.String("path", path),
		zap.Bool("resolved", resolved),
	)

	return c.Next()
}

// isPublic checks exact matches first, then prefixes. Two prefix carve-outs:
// an /api/ path only matches /api/ entries, and /users/me never matches the
// bare root entry.
func (m *Middleware) isPublic(path string) bool {
	for _, public := range m.publicPaths {
		if path == public {
			return true
		}
	}
	for _, public := range m.publicPaths {
		if strings.HasPrefix(path, "/api/") && !strings.HasPrefix(public, "/api/") {
			continue
		}
		if path == "/users/me" && public == "/" {
			continue
		}
		if strings.HasPrefix(path, public) {
			return true
		}
	}
	return false
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// IdentityFromContext retrieves the request's identity annotation.
func IdentityFromContext(c *fiber.Ctx) (*RequestIdentity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*RequestIdentity)
	return identity, ok
}

// ClerkIDFromContext returns the resolved identity provider user id, if any.
func ClerkIDFromContext(c *fiber.Ctx) (string, bool) {
	identity, ok := IdentityFromContext(c)
	if !ok || !identity.Resolved {
		return "", false
	}
	return identity.ClerkID, true
}
