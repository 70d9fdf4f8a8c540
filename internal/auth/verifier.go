package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/profile-service/internal/clerk"
	apperrors "github.com/spec-kit/profile-service/pkg/util"
)

// IdentityClient is the slice of the Clerk API the verifier depends on.
type IdentityClient interface {
	GetUser(ctx context.Context, userID string) (*clerk.User, error)
}

// Verifier resolves bearer tokens to identity provider user ids.
//
// The token signature is never checked: the payload is decoded as-is and the
// subject claim is trusted once a live provider lookup confirms the user
// exists. Existence is not possession of a signed credential, so a forged
// token naming a real user would pass. Inherited behavior, kept on purpose;
// see DESIGN.md.
type Verifier struct {
	client IdentityClient
	issuer string
	logger *zap.Logger
}

// NewVerifier constructs a Verifier. issuer may be empty; when set, tokens
// carrying a different iss claim are logged but still accepted.
func NewVerifier(client IdentityClient, issuer string, logger *zap.Logger) *Verifier {
	return &Verifier{client: client, issuer: issuer, logger: logger}
}

// Resolve is the strict form: any failure surfaces an authentication error.
// Exactly one provider lookup is made per call; results are never cached.
func (v *Verifier) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperrors.NewUnauthorized("missing authentication token")
	}

	claims, err := ExtractClaims(token)
	if err != nil {
		v.logger.Debug("token decode failed", zap.Error(err))
		return "", apperrors.NewUnauthorized("invalid token format")
	}
	if claims.Subject == "" {
		v.logger.Debug("token has no subject claim")
		return "", apperrors.NewUnauthorized("invalid token: missing user id")
	}
	if v.issuer != "" && claims.Issuer != "" && claims.Issuer != v.issuer {
		v.logger.Warn("token issuer mismatch",
			zap.String("issuer", claims.Issuer),
			zap.String("expected_issuer", v.issuer),
		)
	}

	if _, err := v.client.GetUser(ctx, claims.Subject); err != nil {
		if errors.Is(err, clerk.ErrUserNotFound) {
			v.logger.Debug("subject unknown to identity provider", zap.String("clerk_id", claims.Subject))
			return "", apperrors.NewUnauthorized("user not found")
		}
		v.logger.Error("identity provider lookup failed", zap.String("clerk_id", claims.Subject), zap.Error(err))
		return "", apperrors.NewUnauthorized("error verifying user")
	}

	return claims.Subject, nil
}

// TryResolve is the lenient form: the same failure conditions report an
// unresolved identity instead of an error.
func (v *Verifier) TryResolve(ctx context.Context, token string) (string, bool) {
	clerkID, err := v.Resolve(ctx, token)
	if err != nil {
		return "", false
	}
	return clerkID, true
}
