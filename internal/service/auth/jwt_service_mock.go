package auth

import (
	"context"

	"github.com/google/uuid"
)

// MockJWTService is a configurable JWTService for tests. Each method calls
// its corresponding Fn when set, otherwise returns a canned success.
type MockJWTService struct {
	GenerateTokenFn        func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn        func(ctx context.Context, tokenString string) (*Claims, error)
	GenerateRefreshFn      func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*Claims, error)
}

// Ensure MockJWTService implements JWTService interface
var _ JWTService = (*MockJWTService)(nil)

// GenerateToken implements JWTService.GenerateToken.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return "mock-access-token", nil
}

// ValidateToken implements JWTService.ValidateToken.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return &Claims{TokenType: tokenTypeAccess}, nil
}

// GenerateRefreshToken implements JWTService.GenerateRefreshToken.
func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateRefreshFn != nil {
		return m.GenerateRefreshFn(ctx, userID)
	}
	return "mock-refresh-token", nil
}

// ValidateRefreshToken implements JWTService.ValidateRefreshToken.
func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return &Claims{TokenType: tokenTypeRefresh}, nil
}
