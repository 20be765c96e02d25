package api

import (
	"context"
	"errors"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shopfront/shopfront-server/internal/auth"
	"github.com/shopfront/shopfront-server/internal/domain"
	domainerrors "github.com/shopfront/shopfront-server/internal/errors"
)

// bearerSecurity marks an operation as requiring an access token in the
// OpenAPI document.
var bearerSecurity = []map[string][]string{{"bearer": {}}}

// authenticateRequest validates the Authorization header and returns the
// user and token claims.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, *auth.AccessClaims, error) {
	if authHeader == "" {
		return nil, nil, huma.Error401Unauthorized("Missing authorization header")
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return nil, nil, huma.Error401Unauthorized("Invalid authorization header format")
	}

	user, claims, err := s.services.Auth.VerifyAccessToken(ctx, token)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUnauthenticated) {
			return nil, nil, huma.Error401Unauthorized("Invalid or expired token")
		}
		return nil, nil, err
	}

	return user, claims, nil
}

// authenticateAndRequireAdmin validates the token and requires the admin
// role.
func (s *Server) authenticateAndRequireAdmin(ctx context.Context, authHeader string) (*domain.User, error) {
	user, _, err := s.authenticateRequest(ctx, authHeader)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin() {
		return nil, domainerrors.Forbidden("Admin access required")
	}

	return user, nil
}
