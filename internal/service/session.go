package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopfront/shopfront-server/internal/auth"
	"github.com/shopfront/shopfront-server/internal/domain"
	domainerrors "github.com/shopfront/shopfront-server/internal/errors"
	"github.com/shopfront/shopfront-server/internal/id"
	"github.com/shopfront/shopfront-server/internal/store"
)

// ClientInfo describes the caller of an auth request. It is recorded on the
// session for display and auditing.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// SessionResponse contains session tokens and metadata.
type SessionResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // seconds until the access token expires
	SessionID    string `json:"session_id"`
}

// SessionService manages refresh-token sessions.
type SessionService struct {
	store        store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewSessionService creates a new session management service.
func NewSessionService(store store.Store, tokenService *auth.TokenService, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// CreateSession stores a new session for user and returns its tokens.
func (s *SessionService) CreateSession(ctx context.Context, user *domain.User, client ClientInfo) (*SessionResponse, error) {
	refreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.tokenService.RefreshTokenDuration()),
		CreatedAt:        now,
		LastSeenAt:       now,
		IPAddress:        client.IPAddress,
		UserAgent:        client.UserAgent,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	accessToken, err := s.tokenService.GenerateAccessToken(user, sessionID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return s.response(accessToken, refreshToken, sessionID), nil
}

// RefreshSession rotates the refresh token of the session it belongs to and
// issues a new access token. The presented token stops working.
func (s *SessionService) RefreshSession(ctx context.Context, refreshToken string, client ClientInfo) (*SessionResponse, *domain.User, error) {
	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		return nil, nil, domainerrors.TokenExpired("invalid or expired refresh token").WithCause(err)
	}

	if session.IsExpired() {
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, nil, domainerrors.TokenExpired("invalid or expired refresh token")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		// The account is gone; so is its session.
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, nil, domainerrors.Unauthenticated("account no longer exists").WithCause(err)
	}

	newRefreshToken, err := s.tokenService.GenerateRefreshToken()
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	session.RefreshTokenHash = auth.HashRefreshToken(newRefreshToken)
	session.ExpiresAt = time.Now().UTC().Add(s.tokenService.RefreshTokenDuration())
	session.Touch()
	if client.IPAddress != "" {
		session.IPAddress = client.IPAddress
	}
	if client.UserAgent != "" {
		session.UserAgent = client.UserAgent
	}

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("update session: %w", err)
	}

	accessToken, err := s.tokenService.GenerateAccessToken(user, session.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	return s.response(accessToken, newRefreshToken, session.ID), user, nil
}

// DeleteSession ends a session (logout). Deleting an unknown session is
// not an error.
func (s *SessionService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("delete session: %w", err)
	}

	s.logger.Info("Session deleted", "session_id", sessionID)
	return nil
}

// DeleteExpiredSessions removes all expired sessions.
func (s *SessionService) DeleteExpiredSessions(ctx context.Context) (int, error) {
	count, err := s.store.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	if count > 0 {
		s.logger.Info("Deleted expired sessions", "count", count)
	}
	return count, nil
}

// RunCleanup deletes expired sessions every interval until ctx is done.
func (s *SessionService) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.DeleteExpiredSessions(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("Session cleanup failed", "error", err)
			}
		}
	}
}

func (s *SessionService) response(accessToken, refreshToken, sessionID string) *SessionResponse {
	return &SessionResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokenService.AccessTokenDuration().Seconds()),
		SessionID:    sessionID,
	}
}
