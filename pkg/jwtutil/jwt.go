package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type tags carried in the claims, used to stop refresh tokens from
// being replayed as access tokens and vice versa.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Config holds signing configuration for both token types
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// AccessClaims represents the JWT claims for API access tokens
type AccessClaims struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// RefreshClaims represents the JWT claims for refresh tokens. The TokenID
// (jti) keys the server-side session record.
type RefreshClaims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"type"`
	TokenID   string `json:"jti"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *Config
}

// New creates a new JWT utility with the given configuration
func New(config *Config) *JWTUtil {
	return &JWTUtil{config: config}
}

// RefreshExpiry exposes the configured refresh token lifetime so callers can
// stamp matching expirations on server-side session records
func (j *JWTUtil) RefreshExpiry() time.Duration {
	if j.config == nil {
		return 0
	}
	return j.config.RefreshExpiry
}

// GenerateAccessToken creates a signed access token carrying user id and role
func (j *JWTUtil) GenerateAccessToken(userID uint, role string, now time.Time) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := AccessClaims{
		UserID:    userID,
		Role:      role,
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.config.AccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.AccessSecret))
}

// GenerateRefreshToken creates a signed refresh token for the given token id
func (j *JWTUtil) GenerateRefreshToken(userID uint, tokenID string, now time.Time) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	claims := RefreshClaims{
		UserID:    userID,
		TokenType: TypeRefresh,
		TokenID:   tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.config.RefreshExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.RefreshSecret))
}

// ValidateAccessToken validates and parses an access token
func (j *JWTUtil) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&AccessClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.AccessSecret), nil
		},
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	// Tokens minted before the type tag was introduced carry no type.
	if claims.TokenType != "" && claims.TokenType != TypeAccess {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateRefreshToken validates and parses a refresh token
func (j *JWTUtil) ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&RefreshClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.RefreshSecret), nil
		},
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid || claims.TokenType != TypeRefresh || claims.TokenID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
