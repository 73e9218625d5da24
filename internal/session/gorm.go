package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"crimetracker/internal/model"
)

// gormStore persists sessions in the application database, so they survive
// process restarts.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore builds a database-backed session store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Create(ctx context.Context, userID uint, ttl time.Duration) (*model.Session, error) {
	now := time.Now()
	sess := model.Session{
		Token:     newToken(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *gormStore) Get(ctx context.Context, token string) (*model.Session, error) {
	var sess model.Session
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(sess.ExpiresAt) {
		_ = s.db.WithContext(ctx).Delete(&model.Session{}, "token = ?", token).Error
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *gormStore) Touch(ctx context.Context, token string, ttl time.Duration) error {
	res := s.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("token = ?", token).
		Update("expires_at", time.Now().Add(ttl))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) Delete(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Delete(&model.Session{}, "token = ?", token).Error
}
