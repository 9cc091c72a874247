package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Anvoria/dashboard/internal/config"
	"github.com/Anvoria/dashboard/internal/domain/session"
	"github.com/Anvoria/dashboard/internal/security"
)

// cleanupTimeout bounds the sweep started after each login.
const cleanupTimeout = 30 * time.Second

// Service handles the password gate and session lifecycle behind the HTTP endpoints.
type Service interface {
	Login(ctx context.Context, password string, meta session.Metadata) (*session.Issued, error)
	Logout(ctx context.Context, rawToken string)
	Info(ctx context.Context, rawToken string) (*session.Info, error)
	RevokeAll(ctx context.Context) (int64, error)
	CleanupExpired(ctx context.Context) int64
}

type service struct {
	sessions session.Service
	secrets  config.Secrets
	cmp      security.Comparator
	// afterLogin runs once a session was created; it must not block.
	afterLogin func()
}

// NewService creates the auth Service. The secrets are copied and never change afterwards.
func NewService(sessions session.Service, secrets config.Secrets) Service {
	s := &service{
		sessions: sessions,
		secrets:  secrets,
		cmp:      security.DigestComparator{},
	}
	s.afterLogin = func() {
		session.CleanupDetached(sessions, cleanupTimeout)
	}
	return s
}

// Login checks password and creates a session. It returns
// ErrPasswordNotConfigured when no credential is set and ErrInvalidPassword on mismatch.
func (s *service) Login(ctx context.Context, password string, meta session.Metadata) (*session.Issued, error) {
	if !s.secrets.PasswordConfigured() {
		return nil, ErrPasswordNotConfigured
	}
	if !s.verifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	issued, err := s.sessions.Create(ctx, meta)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.afterLogin()
	return issued, nil
}

func (s *service) verifyPassword(password string) bool {
	if s.secrets.PasswordHash != "" {
		return security.VerifyPassword(password, s.secrets.PasswordHash)
	}
	return s.cmp.Equal(password, s.secrets.Password)
}

// Logout revokes the session of rawToken. Failures are logged, never returned.
func (s *service) Logout(ctx context.Context, rawToken string) {
	if rawToken == "" {
		return
	}
	if err := s.sessions.Revoke(ctx, rawToken); err != nil {
		slog.Warn("Failed to revoke session on logout", "error", err)
	}
}

func (s *service) Info(ctx context.Context, rawToken string) (*session.Info, error) {
	return s.sessions.Info(ctx, rawToken)
}

func (s *service) RevokeAll(ctx context.Context) (int64, error) {
	return s.sessions.RevokeAll(ctx)
}

func (s *service) CleanupExpired(ctx context.Context) int64 {
	return s.sessions.CleanupExpired(ctx)
}
