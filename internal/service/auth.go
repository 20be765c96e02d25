package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopfront/shopfront-server/internal/auth"
	"github.com/shopfront/shopfront-server/internal/domain"
	domainerrors "github.com/shopfront/shopfront-server/internal/errors"
	"github.com/shopfront/shopfront-server/internal/id"
	"github.com/shopfront/shopfront-server/internal/store"
	"github.com/shopfront/shopfront-server/internal/validation"
)

// AuthService handles accounts and authentication. Session bookkeeping is
// delegated to SessionService.
type AuthService struct {
	store          store.Store
	tokenService   *auth.TokenService
	sessionService *SessionService
	validator      *validation.Validator
	hashParams     auth.Argon2Params
	logger         *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	sessionService *SessionService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:          store,
		tokenService:   tokenService,
		sessionService: sessionService,
		validator:      validator,
		hashParams:     auth.DefaultArgon2Params,
		logger:         logger,
	}
}

// SetHashParams changes the argon2id cost used for new hashes. Existing
// hashes are upgraded on the next successful login.
func (s *AuthService) SetHashParams(p auth.Argon2Params) {
	s.hashParams = p
}

// RegisterRequest contains the data for a new customer account.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name,omitempty" validate:"max=100"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token to rotate.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse contains the authenticated user and their tokens.
type AuthResponse struct {
	User *domain.User `json:"user"`
	SessionResponse
}

// Register creates a customer account and signs it in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest, client ClientInfo) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.DisplayName, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("Failed to record first login", "user_id", user.ID, "error", err)
	}

	session, err := s.sessionService.CreateSession(ctx, user, client)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email)

	return &AuthResponse{User: user, SessionResponse: *session}, nil
}

// Login verifies credentials and opens a new session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, client ClientInfo) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same answer as a wrong password.
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	if auth.NeedsRehash(user.PasswordHash, s.hashParams) {
		if hash, err := auth.HashPasswordWithParams(req.Password, s.hashParams); err == nil {
			user.PasswordHash = hash
		}
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("Failed to update last login time", "user_id", user.ID, "error", err)
	}

	session, err := s.sessionService.CreateSession(ctx, user, client)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)

	return &AuthResponse{User: user, SessionResponse: *session}, nil
}

// RefreshTokens rotates a refresh token.
func (s *AuthService) RefreshTokens(ctx context.Context, req RefreshRequest, client ClientInfo) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	session, user, err := s.sessionService.RefreshSession(ctx, req.RefreshToken, client)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, SessionResponse: *session}, nil
}

// Logout revokes a session, invalidating its refresh token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessionService.DeleteSession(ctx, sessionID)
}

// VerifyAccessToken validates a bearer token and loads its user. Every
// failure is Unauthenticated.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthenticated("invalid or expired access token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, domainerrors.Unauthenticated("account no longer exists").WithCause(err)
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	return user, claims, nil
}

// GetCurrentUser returns the signed-in user's account.
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, translateStoreError(err, "user not found")
	}
	return user, nil
}

// DeleteAccount closes an account. The cart with its lines and every
// session go in the same transaction.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		cart, err := tx.GetCartByUser(ctx, userID)
		switch {
		case err == nil:
			if err := tx.DeleteCart(ctx, cart.ID); err != nil {
				return fmt.Errorf("delete cart: %w", err)
			}
		case !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("get cart: %w", err)
		}

		if err := tx.DeleteUserSessions(ctx, userID); err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
		if err := tx.DeleteUser(ctx, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return translateStoreError(err, "user not found")
	}

	s.logger.Info("Account deleted", "user_id", userID)
	return nil
}

// EnsureAdmin makes sure an administrator with email exists. An existing
// customer with that email is promoted; the password is only used when the
// account is created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.IsAdmin() {
			return user, nil
		}
		user.Role = domain.RoleAdmin
		user.Touch()
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("promote user: %w", err)
		}
		s.logger.Info("User promoted to admin", "user_id", user.ID)
		return user, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.validator.Validate(RegisterRequest{Email: email, Password: password}); err != nil {
		return nil, err
	}
	user, err = s.createUser(ctx, email, password, "Administrator", domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Admin account created", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, email, password, displayName string, role domain.Role) (*domain.User, error) {
	passwordHash, err := auth.HashPasswordWithParams(password, s.hashParams)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Entity:       domain.Entity{ID: userID},
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
		DisplayName:  strings.TrimSpace(displayName),
		Role:         role,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, domainerrors.AlreadyExists("email already in use").WithCause(err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
