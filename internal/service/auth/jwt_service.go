package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lingua-labs/lingua-api/internal/domain"
)

// JWTService defines operations for managing JWT access tokens.
type JWTService interface {
	// GenerateToken creates a signed access token carrying the user's id,
	// email and role.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken validates the token string and extracts its claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the decoded content of a valid access token.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   domain.Role

	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
