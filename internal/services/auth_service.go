package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tenantauth/internal/models"
	"tenantauth/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// AccessTokenTTL is deliberately short: access tokens are stateless and
	// cannot be revoked before expiry.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL bounds how long a stored refresh token stays usable.
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenClaims is the signed payload carried by both token kinds. Access and
// refresh tokens share the shape but are signed with independent secrets.
type TokenClaims struct {
	UserID   string `json:"userId"`
	TenantID string `json:"tenantId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService owns the token lifecycle: issuing pairs, stateless access
// verification, storage-checked refresh rotation and revocation.
type AuthService interface {
	IssuePair(ctx context.Context, user *models.User) (*models.TokenPair, error)
	VerifyAccessToken(tokenString string) (*TokenClaims, error)
	Refresh(ctx context.Context, refreshToken string, tenantID uuid.UUID) (*models.TokenPair, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
	RevokeAllUserTokens(ctx context.Context, tenantID, userID uuid.UUID) error
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

type authService struct {
	tokenRepo     repositories.TokenRepository
	userRepo      repositories.UserRepository
	accessSecret  []byte
	refreshSecret []byte
	logger        *zap.Logger
}

func NewAuthService(tokenRepo repositories.TokenRepository, userRepo repositories.UserRepository, accessSecret, refreshSecret string, logger *zap.Logger) AuthService {
	return &authService{
		tokenRepo:     tokenRepo,
		userRepo:      userRepo,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		logger:        logger,
	}
}

func (s *authService) sign(user *models.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:   user.ID.String(),
		TenantID: user.TenantID.String(),
		Email:    user.Email,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(), // jti, fresh per token
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IssuePair mints an access/refresh pair and persists the refresh token.
func (s *authService) IssuePair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	accessToken, err := s.sign(user, s.accessSecret, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.sign(user, s.refreshSecret, RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		TenantID:  user.TenantID,
		ExpiresAt: time.Now().Add(RefreshTokenTTL),
	}
	if err := s.tokenRepo.Store(ctx, record); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *authService) parse(tokenString string, secret []byte) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyAccessToken is the stateless fast path: signature and expiry only,
// no storage round trip.
func (s *authService) VerifyAccessToken(tokenString string) (*TokenClaims, error) {
	return s.parse(tokenString, s.accessSecret)
}

// Refresh rotates a refresh token. The stored record is consulted first, the
// signature next, then the tenant binding, then the user's status; the final
// delete-and-insert is atomic so a replayed token can never mint a second
// valid pair.
func (s *authService) Refresh(ctx context.Context, refreshToken string, tenantID uuid.UUID) (*models.TokenPair, error) {
	if _, err := s.tokenRepo.Get(ctx, refreshToken); err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	claims, err := s.parse(refreshToken, s.refreshSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TenantID != tenantID.String() {
		s.logger.Warn("refresh token tenant mismatch",
			zap.String("token_tenant_id", claims.TenantID),
			zap.String("request_tenant_id", tenantID.String()),
			zap.String("user_id", claims.UserID),
		)
		return nil, ErrTenantMismatch
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.userRepo.GetByID(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("load user for refresh: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidToken
	}

	accessToken, err := s.sign(user, s.accessSecret, AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	newRefreshToken, err := s.sign(user, s.refreshSecret, RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	replacement := &models.RefreshToken{
		Token:     newRefreshToken,
		UserID:    user.ID,
		TenantID:  user.TenantID,
		ExpiresAt: time.Now().Add(RefreshTokenTTL),
	}
	if err := s.tokenRepo.Rotate(ctx, refreshToken, replacement); err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			// Lost the race against a concurrent use of the same token.
			s.logger.Warn("refresh token replay detected",
				zap.String("user_id", claims.UserID),
				zap.String("tenant_id", claims.TenantID),
			)
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	return &models.TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

func (s *authService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.Delete(ctx, refreshToken)
}

func (s *authService) RevokeAllUserTokens(ctx context.Context, tenantID, userID uuid.UUID) error {
	return s.tokenRepo.DeleteAllForUser(ctx, tenantID, userID)
}

func (s *authService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokenRepo.DeleteExpired(ctx)
}
