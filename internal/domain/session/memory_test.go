package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// memoryRepository is an in-memory Repository used by the service tests.
type memoryRepository struct {
	mu   sync.Mutex
	rows map[string]Session
	// err, when set, is returned by every operation.
	err error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{rows: make(map[string]Session)}
}

func (m *memoryRepository) Create(_ context.Context, sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.rows[sess.Fingerprint]; ok {
		return ErrDuplicateFingerprint
	}
	m.rows[sess.Fingerprint] = *sess
	return nil
}

func (m *memoryRepository) FindByFingerprint(_ context.Context, fingerprint string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	sess, ok := m.rows[fingerprint]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

func (m *memoryRepository) DeleteByFingerprint(_ context.Context, fingerprint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.rows, fingerprint)
	return nil
}

func (m *memoryRepository) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for fp, sess := range m.rows {
		if sess.ExpiresAt.Before(cutoff) {
			delete(m.rows, fp)
			n++
		}
	}
	return n, nil
}

func (m *memoryRepository) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	n := int64(len(m.rows))
	m.rows = make(map[string]Session)
	return n, nil
}

func (m *memoryRepository) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memoryRepository) get(fingerprint string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.rows[fingerprint]
	return sess, ok
}

func (m *memoryRepository) setExpiry(fingerprint string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.rows[fingerprint]
	sess.ExpiresAt = t
	m.rows[fingerprint] = sess
}

func (m *memoryRepository) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

var errStoreDown = errors.New("connection refused")

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
