package auth

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "crimetracker/internal/errors"
	"crimetracker/internal/model"
	"crimetracker/internal/repository"
)

type resetClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// ResetTokenService issues and consumes password reset tokens. Tokens are
// signed JWTs carrying the user id; the jti is persisted so each token can be
// consumed exactly once.
type ResetTokenService struct {
	secret []byte
	ttl    time.Duration
	tokens repository.ResetTokenRepository
}

// NewResetTokenService creates a reset token service with the given signing
// secret and token lifetime.
func NewResetTokenService(secret string, ttl time.Duration, tokens repository.ResetTokenRepository) *ResetTokenService {
	return &ResetTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		tokens: tokens,
	}
}

// Issue creates a single-use reset token for the user.
func (s *ResetTokenService) Issue(ctx context.Context, userID uint) (string, error) {
	tokenID := uuid.NewString()
	expiresAt := time.Now().Add(s.ttl)

	claims := &resetClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}

	record := &model.PasswordResetToken{
		TokenID:   tokenID,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	return signed, nil
}

// Consume validates the token and marks it used, returning the owning user
// id. A token consumes successfully at most once; any failure surfaces as
// ErrInvalidResetToken so callers leak nothing about the cause.
func (s *ResetTokenService) Consume(ctx context.Context, tokenString string) (uint, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		log.Printf("reset token rejected: %v", err)
		return 0, apperrors.ErrInvalidResetToken
	}

	record, err := s.tokens.FindByTokenID(ctx, claims.ID)
	if err != nil {
		log.Printf("reset token rejected: unknown token id %s", claims.ID)
		return 0, apperrors.ErrInvalidResetToken
	}
	if record.UsedAt != nil || time.Now().After(record.ExpiresAt) {
		return 0, apperrors.ErrInvalidResetToken
	}

	if err := s.tokens.MarkUsed(ctx, record); err != nil {
		return 0, apperrors.ErrInvalidResetToken
	}

	return claims.UserID, nil
}

func (s *ResetTokenService) parse(tokenString string) (*resetClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &resetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*resetClaims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
