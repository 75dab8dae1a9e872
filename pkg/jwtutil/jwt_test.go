package jwtutil

import (
	"errors"
	"testing"
	"time"
)

// Parsing validates exp against the wall clock, so tokens are minted at real
// time rather than a fixed date.
var testNow = time.Now().UTC()

func testUtil() *JWTUtil {
	return New(&Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 30 * 24 * time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	j := testUtil()

	token, err := j.GenerateAccessToken(42, "dealer", testNow)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := j.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "dealer" {
		t.Errorf("Role = %q, want dealer", claims.Role)
	}
	if claims.TokenType != TypeAccess {
		t.Errorf("TokenType = %q, want %q", claims.TokenType, TypeAccess)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	j := testUtil()

	token, err := j.GenerateRefreshToken(42, "token-id-1", testNow)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	claims, err := j.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("ValidateRefreshToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.TokenID != "token-id-1" {
		t.Errorf("TokenID = %q, want token-id-1", claims.TokenID)
	}
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	j := testUtil()

	access, err := j.GenerateAccessToken(42, "dealer", testNow)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	refresh, err := j.GenerateRefreshToken(42, "token-id-1", testNow)
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	// The two token types are signed with different secrets.
	if _, err := j.ValidateRefreshToken(access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token accepted as refresh: %v", err)
	}
	if _, err := j.ValidateAccessToken(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token accepted as access: %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	j := testUtil()

	issued := time.Now().UTC().Add(-2 * time.Hour)
	token, err := j.GenerateAccessToken(42, "dealer", issued)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	if _, err := j.ValidateAccessToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token err = %v, want ErrInvalidToken", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	j := testUtil()

	if _, err := j.ValidateAccessToken("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token err = %v, want ErrInvalidToken", err)
	}
	if _, err := j.ValidateRefreshToken(""); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty token err = %v, want ErrInvalidToken", err)
	}
}
