package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's profile",
		Tags:        []string{"Users"},
		Security:    bearerSecurity,
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCurrentUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/users/me",
		Summary:     "Delete account",
		Description: "Deletes the authenticated user together with their cart and sessions",
		Tags:        []string{"Users"},
		Security:    bearerSecurity,
	}, s.handleDeleteCurrentUser)
}

// AuthenticatedInput carries only the access token.
type AuthenticatedInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps a user response for Huma.
type UserOutput struct {
	Body UserResponse
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *AuthenticatedInput) (*UserOutput, error) {
	user, _, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUser(user)}, nil
}

func (s *Server) handleDeleteCurrentUser(ctx context.Context, input *AuthenticatedInput) (*MessageOutput, error) {
	user, _, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Auth.DeleteAccount(ctx, user.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Account deleted"}}, nil
}
