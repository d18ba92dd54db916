package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"vidtube/internal/domain"
	"vidtube/pkg/errors"
	"vidtube/pkg/logger"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Service implements the service.AuthService interface with bcrypt credential
// hashing and HS256 JWTs
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	logger        *logger.Logger
}

type tokenClaims struct {
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// NewService creates a new auth service
func NewService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, logger *logger.Logger) *Service {
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		logger:        logger,
	}
}

// HashPassword derives a bcrypt hash from a plaintext password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the stored hash
func (s *Service) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueTokenPair issues a fresh access/refresh token pair. Any signing failure
// is returned explicitly; there is no silent empty result.
func (s *Service) IssueTokenPair(user *domain.User) (*domain.TokenPair, error) {
	now := time.Now()

	accessToken, err := s.sign(tokenClaims{
		Username:  user.Username,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}, s.accessSecret)
	if err != nil {
		return nil, errors.NewInternalError("Failed to issue access token", err)
	}

	refreshToken, err := s.sign(tokenClaims{
		TokenType: tokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}, s.refreshSecret)
	if err != nil {
		return nil, errors.NewInternalError("Failed to issue refresh token", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ValidateAccessToken validates an access token and returns its claims
func (s *Service) ValidateAccessToken(token string) (*domain.AuthClaims, error) {
	claims, err := s.parse(token, s.accessSecret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, errors.NewAuthenticationError("Not an access token")
	}

	return &domain.AuthClaims{
		UserID:   claims.Subject,
		Username: claims.Username,
	}, nil
}

// ValidateRefreshToken validates a refresh token and returns the user ID it
// was issued to
func (s *Service) ValidateRefreshToken(token string) (string, error) {
	claims, err := s.parse(token, s.refreshSecret)
	if err != nil {
		return "", err
	}
	if claims.TokenType != tokenTypeRefresh {
		return "", errors.NewAuthenticationError("Not a refresh token")
	}
	return claims.Subject, nil
}

func (s *Service) sign(claims tokenClaims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *Service) parse(token string, secret []byte) (*tokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		s.logger.WithError(err).Debug("Token validation failed")
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}
	return claims, nil
}
