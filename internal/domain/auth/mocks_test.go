package auth

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Anvoria/dashboard/internal/domain/session"
)

// MockSessionService is a mock implementation of session.Service
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context, meta session.Metadata) (*session.Issued, error) {
	args := m.Called(ctx, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Issued), args.Error(1)
}

func (m *MockSessionService) Validate(ctx context.Context, rawToken string) bool {
	return m.Called(ctx, rawToken).Bool(0)
}

func (m *MockSessionService) Revoke(ctx context.Context, rawToken string) error {
	return m.Called(ctx, rawToken).Error(0)
}

func (m *MockSessionService) RevokeAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionService) CleanupExpired(ctx context.Context) int64 {
	return m.Called(ctx).Get(0).(int64)
}

func (m *MockSessionService) Info(ctx context.Context, rawToken string) (*session.Info, error) {
	args := m.Called(ctx, rawToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Info), args.Error(1)
}

// MockAuthService is a mock implementation of the auth Service
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, password string, meta session.Metadata) (*session.Issued, error) {
	args := m.Called(ctx, password, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Issued), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, rawToken string) {
	m.Called(ctx, rawToken)
}

func (m *MockAuthService) Info(ctx context.Context, rawToken string) (*session.Info, error) {
	args := m.Called(ctx, rawToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Info), args.Error(1)
}

func (m *MockAuthService) RevokeAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuthService) CleanupExpired(ctx context.Context) int64 {
	return m.Called(ctx).Get(0).(int64)
}

// fakeThrottle records throttle calls and blocks when blocked is set.
type fakeThrottle struct {
	mu         sync.Mutex
	blocked    bool
	retryAfter time.Duration
	failures   []string
	resets     []string
}

func (f *fakeThrottle) Blocked(_ context.Context, key string) (bool, time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blocked, f.retryAfter
}

func (f *fakeThrottle) Failure(_ context.Context, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, key)
}

func (f *fakeThrottle) Reset(_ context.Context, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, key)
}
