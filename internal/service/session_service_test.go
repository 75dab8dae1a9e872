package service

import (
	"errors"
	"testing"
	"time"

	"paintflow-api/internal/model"
	"paintflow-api/pkg/clock"
	"paintflow-api/pkg/jwtutil"
	"paintflow-api/pkg/password"

	"gorm.io/gorm"
)

// JWT signature validation checks expiry against the wall clock, so the
// session clock is pinned near real time rather than the narrative test date.
var sessionNow = time.Now().UTC().Truncate(time.Second)

func testJWT() *jwtutil.JWTUtil {
	return jwtutil.New(&jwtutil.Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 30 * 24 * time.Hour,
	})
}

func newSessionService(t *testing.T) (*SessionService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewSessionService(db, testJWT(), clock.Fixed{Instant: sessionNow}), db
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newSessionService(t)

	user, err := svc.Register("arun@example.com", "s3cret-pass", "Arun Mehta", "9800000000")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Role != model.RoleCustomer {
		t.Errorf("role = %q, want customer", user.Role)
	}

	authed, err := svc.Authenticate("arun@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if authed.ID != user.ID {
		t.Errorf("authenticated user id = %d, want %d", authed.ID, user.ID)
	}
	if authed.LastLogin == nil || !authed.LastLogin.Equal(sessionNow) {
		t.Errorf("last login = %v, want %v", authed.LastLogin, sessionNow)
	}

	if _, err := svc.Authenticate("arun@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Authenticate("nobody@example.com", "s3cret-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newSessionService(t)

	if _, err := svc.Register("arun@example.com", "s3cret-pass", "Arun", ""); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Register("arun@example.com", "other-pass", "Arun Two", ""); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate err = %v, want ErrEmailTaken", err)
	}
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	svc, db := newSessionService(t)

	user, err := svc.Register("arun@example.com", "s3cret-pass", "Arun", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	db.Model(&model.User{}).Where("id = ?", user.ID).Update("is_active", false)

	if _, err := svc.Authenticate("arun@example.com", "s3cret-pass"); !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("disabled account err = %v, want ErrAccountDisabled", err)
	}
}

func TestAuthenticateUpgradesLegacyHash(t *testing.T) {
	svc, db := newSessionService(t)

	legacy, err := password.HashLegacy("old-pass")
	if err != nil {
		t.Fatalf("HashLegacy failed: %v", err)
	}
	user := model.User{Email: "legacy@example.com", PasswordHash: legacy, Role: model.RoleCustomer, IsActive: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	authed, err := svc.Authenticate("legacy@example.com", "old-pass")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if password.NeedsUpgrade(authed.PasswordHash) {
		t.Error("hash was not upgraded after legacy login")
	}

	// The stored hash changed and the old password still works.
	var stored model.User
	db.First(&stored, user.ID)
	if stored.PasswordHash == legacy {
		t.Error("stored hash unchanged")
	}
	if _, err := svc.Authenticate("legacy@example.com", "old-pass"); err != nil {
		t.Fatalf("Authenticate after upgrade failed: %v", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	svc, db := newSessionService(t)

	user, err := svc.Register("arun@example.com", "s3cret-pass", "Arun", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	pair1, err := svc.IssueTokenPair(user)
	if err != nil {
		t.Fatalf("IssueTokenPair failed: %v", err)
	}

	pair2, err := svc.Refresh(pair1.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if pair2.RefreshToken == pair1.RefreshToken {
		t.Error("rotation returned the same refresh token")
	}

	// The rotated-out token is single use.
	if _, err := svc.Refresh(pair1.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("replayed token err = %v, want ErrInvalidToken", err)
	}

	// The successor still works.
	if _, err := svc.Refresh(pair2.RefreshToken); err != nil {
		t.Fatalf("Refresh of successor failed: %v", err)
	}

	// The revoked row points at its replacement.
	var revoked model.RefreshToken
	if err := db.Where("revoked_at IS NOT NULL AND replaced_by_token_id IS NOT NULL").
		First(&revoked).Error; err != nil {
		t.Fatalf("no revoked row with replacement pointer: %v", err)
	}
	var successor model.RefreshToken
	if err := db.Where("token_id = ?", *revoked.ReplacedByTokenID).First(&successor).Error; err != nil {
		t.Errorf("replacement pointer does not resolve: %v", err)
	}
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc, _ := newSessionService(t)

	if _, err := svc.Refresh("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newSessionService(t)

	user, err := svc.Register("arun@example.com", "s3cret-pass", "Arun", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	pair, err := svc.IssueTokenPair(user)
	if err != nil {
		t.Fatalf("IssueTokenPair failed: %v", err)
	}

	if _, err := svc.Refresh(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token used as refresh err = %v, want ErrInvalidToken", err)
	}
}

func TestRevokeBlocksRefresh(t *testing.T) {
	svc, _ := newSessionService(t)

	user, err := svc.Register("arun@example.com", "s3cret-pass", "Arun", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	pair, err := svc.IssueTokenPair(user)
	if err != nil {
		t.Fatalf("IssueTokenPair failed: %v", err)
	}

	if !svc.Revoke(pair.RefreshToken) {
		t.Fatal("Revoke returned false for a live token")
	}
	if svc.Revoke(pair.RefreshToken) {
		t.Error("Revoke returned true for an already revoked token")
	}
	if _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh after revoke err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshDisabledUser(t *testing.T) {
	svc, db := newSessionService(t)

	user, err := svc.Register("arun@example.com", "s3cret-pass", "Arun", "")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	pair, err := svc.IssueTokenPair(user)
	if err != nil {
		t.Fatalf("IssueTokenPair failed: %v", err)
	}

	db.Model(&model.User{}).Where("id = ?", user.ID).Update("is_active", false)

	if _, err := svc.Refresh(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh for disabled user err = %v, want ErrInvalidToken", err)
	}
}
