package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository is the storage contract for sessions, keyed by fingerprint.
type Repository interface {
	Create(ctx context.Context, sess *Session) error
	FindByFingerprint(ctx context.Context, fingerprint string) (*Session, error)
	DeleteByFingerprint(ctx context.Context, fingerprint string) error
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a gorm backed Repository.
// The db should be opened with TranslateError so duplicate keys can be detected.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, sess *Session) error {
	err := r.db.WithContext(ctx).Create(sess).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateFingerprint
	}
	return err
}

func (r *repository) FindByFingerprint(ctx context.Context, fingerprint string) (*Session, error) {
	var sess Session
	err := r.db.WithContext(ctx).Where("fingerprint = ?", fingerprint).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &sess, nil
}

// DeleteByFingerprint removes a session. Deleting a missing row is not an error.
func (r *repository) DeleteByFingerprint(ctx context.Context, fingerprint string) error {
	return r.db.WithContext(ctx).Where("fingerprint = ?", fingerprint).Delete(&Session{}).Error
}

func (r *repository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", cutoff).Delete(&Session{})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Session{})
	return res.RowsAffected, res.Error
}
