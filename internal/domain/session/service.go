package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Anvoria/dashboard/internal/metrics"
	"github.com/Anvoria/dashboard/internal/security"
)

const (
	// Lifetime is fixed at creation; sessions are never extended on use.
	Lifetime = 30 * 24 * time.Hour

	maxUserAgentLength = 512
	maxIPAddressLength = 64
)

// Service interface for session operations
type Service interface {
	Create(ctx context.Context, meta Metadata) (*Issued, error)
	Validate(ctx context.Context, rawToken string) bool
	Revoke(ctx context.Context, rawToken string) error
	RevokeAll(ctx context.Context) (int64, error)
	CleanupExpired(ctx context.Context) int64
	Info(ctx context.Context, rawToken string) (*Info, error)
}

// service struct for session operations
type service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a session Service backed by repo.
func NewService(repo Repository) Service {
	return NewServiceWithClock(repo, time.Now)
}

// NewServiceWithClock creates a Service that reads the current time from now.
func NewServiceWithClock(repo Repository, now func() time.Time) Service {
	return &service{repo: repo, now: now}
}

// Create issues a new token and stores its fingerprint. The raw token is only
// present in the returned value.
func (s *service) Create(ctx context.Context, meta Metadata) (*Issued, error) {
	token, err := security.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &Session{
		Fingerprint: security.Fingerprint(token),
		CreatedAt:   now,
		ExpiresAt:   now.Add(Lifetime),
		IPAddress:   optional(sanitize(meta.IPAddress, maxIPAddressLength)),
		UserAgent:   optional(sanitize(meta.UserAgent, maxUserAgentLength)),
	}

	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &Issued{Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

// Validate reports whether rawToken belongs to a live session. Store errors
// fail closed. An expired row is deleted before returning false.
func (s *service) Validate(ctx context.Context, rawToken string) bool {
	if rawToken == "" {
		return false
	}

	fingerprint := security.Fingerprint(rawToken)
	sess, err := s.repo.FindByFingerprint(ctx, fingerprint)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			slog.Error("Failed to look up session", "error", err)
		}
		return false
	}

	if s.now().After(sess.ExpiresAt) {
		if err := s.repo.DeleteByFingerprint(ctx, fingerprint); err != nil {
			slog.Warn("Failed to delete expired session", "error", err)
		} else {
			metrics.SessionsCleaned.Inc()
		}
		return false
	}

	return true
}

// Revoke deletes the session of rawToken if there is one.
func (s *service) Revoke(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}
	return s.repo.DeleteByFingerprint(ctx, security.Fingerprint(rawToken))
}

// RevokeAll deletes every session, logging out all clients.
func (s *service) RevokeAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}
	slog.Info("All sessions revoked", "deleted", n)
	return n, nil
}

// CleanupExpired deletes sessions past their expiry and returns how many were
// removed. Errors are logged and reported as zero deletions.
func (s *service) CleanupExpired(ctx context.Context) int64 {
	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		slog.Warn("Expired session cleanup failed", "error", err)
		return 0
	}
	if n > 0 {
		metrics.SessionsCleaned.Add(float64(n))
		slog.Debug("Expired sessions cleaned", "deleted", n)
	}
	return n
}

// Info describes the session of rawToken, or returns nil when there is none.
// Unlike Validate it does not delete expired rows.
func (s *service) Info(ctx context.Context, rawToken string) (*Info, error) {
	if rawToken == "" {
		return nil, nil
	}

	sess, err := s.repo.FindByFingerprint(ctx, security.Fingerprint(rawToken))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &Info{
		Active:    sess.ExpiresAt.After(s.now()),
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// sanitize makes client supplied metadata storable in a UTF-8 text column:
// invalid sequences and NUL bytes are dropped and the result is cut to at
// most n bytes on a rune boundary.
func sanitize(v string, n int) string {
	v = strings.ToValidUTF8(v, "")
	v = strings.ReplaceAll(v, "\x00", "")
	if len(v) <= n {
		return v
	}
	for n > 0 && !utf8.RuneStart(v[n]) {
		n--
	}
	return v[:n]
}
