package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"crimetracker/internal/model"
)

// ResetTokenRepository defines persistence operations for password reset tokens.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	FindByTokenID(ctx context.Context, tokenID string) (*model.PasswordResetToken, error)
	// MarkUsed consumes the token. It returns gorm.ErrRecordNotFound when the
	// token was already consumed, so concurrent resets cannot both succeed.
	MarkUsed(ctx context.Context, token *model.PasswordResetToken) error
}

type resetTokenRepository struct {
	db *gorm.DB
}

// NewResetTokenRepository builds a GORM-backed repository.
func NewResetTokenRepository(db *gorm.DB) ResetTokenRepository {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) Create(ctx context.Context, token *model.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *resetTokenRepository) FindByTokenID(ctx context.Context, tokenID string) (*model.PasswordResetToken, error) {
	var token model.PasswordResetToken
	if err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *resetTokenRepository) MarkUsed(ctx context.Context, token *model.PasswordResetToken) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.PasswordResetToken{}).
		Where("token_id = ? AND used_at IS NULL", token.TokenID).
		Update("used_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	token.UsedAt = &now
	return nil
}
