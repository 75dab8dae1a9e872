package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"paintflow-api/internal/model"
	"paintflow-api/pkg/clock"
	"paintflow-api/pkg/jwtutil"
	"paintflow-api/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService issues, rotates, and revokes access/refresh token pairs.
// Refresh tokens are single use: each rotation revokes the old record and
// links it to its successor, so a replayed token is rejected and the chain
// stays auditable.
type SessionService struct {
	db    *gorm.DB
	jwt   *jwtutil.JWTUtil
	clock clock.Clock
}

// NewSessionService creates the session manager
func NewSessionService(db *gorm.DB, jwt *jwtutil.JWTUtil, clk clock.Clock) *SessionService {
	return &SessionService{db: db, jwt: jwt, clock: clk}
}

// TokenPair is an access/refresh token pair plus the authenticated user
type TokenPair struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         *model.User `json:"user"`
}

func hashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// UserByID loads a user account
func (s *SessionService) UserByID(userID uint) (*model.User, error) {
	var user model.User
	err := s.db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates a new customer account
func (s *SessionService) Register(email, pass, fullName, phone string) (*model.User, error) {
	var existing model.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Phone:        phone,
		Role:         model.RoleCustomer,
		IsActive:     true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies credentials. Both the current bcrypt scheme and the
// legacy PBKDF2 format are accepted; a successful legacy login transparently
// re-hashes into the current scheme.
func (s *SessionService) Authenticate(email, pass string) (*model.User, error) {
	var user model.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !password.Verify(pass, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	now := s.clock.Now()
	updates := map[string]interface{}{"last_login": now}
	if password.NeedsUpgrade(user.PasswordHash) {
		if upgraded, err := password.Hash(pass); err == nil {
			updates["password_hash"] = upgraded
			user.PasswordHash = upgraded
		}
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	user.LastLogin = &now

	return &user, nil
}

// IssueTokenPair mints an access token and a refresh token for the user and
// persists the refresh session record. Only the SHA-256 hash of the raw
// refresh token is stored.
func (s *SessionService) IssueTokenPair(user *model.User) (*TokenPair, error) {
	now := s.clock.Now()
	tokenID := uuid.New().String()

	refreshToken, err := s.jwt.GenerateRefreshToken(user.ID, tokenID, now)
	if err != nil {
		return nil, err
	}

	row := model.RefreshToken{
		UserID:    user.ID,
		TokenID:   tokenID,
		TokenHash: hashRefreshToken(refreshToken),
		CreatedAt: now,
		ExpiresAt: now.Add(s.jwt.RefreshExpiry()),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return nil, err
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Role, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh rotates a refresh token: the old session record is revoked with a
// pointer to its replacement, and a fresh pair is issued. The lookup and
// revocation run in one locked transaction so two concurrent rotations of
// the same token cannot both succeed.
func (s *SessionService) Refresh(rawToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(rawToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	now := s.clock.Now()
	tokenHash := hashRefreshToken(rawToken)

	var user model.User
	var nextRefreshToken string

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var row model.RefreshToken
		err := forUpdate(tx).
			Where("user_id = ? AND token_id = ? AND token_hash = ?", claims.UserID, claims.TokenID, tokenHash).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}
		if !row.IsLive(now) {
			return ErrInvalidToken
		}

		if err := tx.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}

		nextTokenID := uuid.New().String()
		nextRefreshToken, err = s.jwt.GenerateRefreshToken(user.ID, nextTokenID, now)
		if err != nil {
			return err
		}

		row.RevokedAt = &now
		row.ReplacedByTokenID = &nextTokenID
		if err := tx.Save(&row).Error; err != nil {
			return err
		}

		next := model.RefreshToken{
			UserID:    user.ID,
			TokenID:   nextTokenID,
			TokenHash: hashRefreshToken(nextRefreshToken),
			CreatedAt: now,
			ExpiresAt: now.Add(s.jwt.RefreshExpiry()),
		}
		if err := tx.Create(&next).Error; err != nil {
			return err
		}

		return tx.Model(&user).Update("last_login", now).Error
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Role, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: nextRefreshToken,
		User:         &user,
	}, nil
}

// Revoke marks a refresh session revoked (logout). No replacement pointer is
// set. Returns false when the token does not resolve to a live session.
func (s *SessionService) Revoke(rawToken string) bool {
	claims, err := s.jwt.ValidateRefreshToken(rawToken)
	if err != nil {
		return false
	}

	now := s.clock.Now()
	tokenHash := hashRefreshToken(rawToken)
	revoked := false

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var row model.RefreshToken
		err := forUpdate(tx).
			Where("user_id = ? AND token_id = ? AND token_hash = ? AND revoked_at IS NULL",
				claims.UserID, claims.TokenID, tokenHash).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		row.RevokedAt = &now
		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		revoked = true
		return nil
	})
	if err != nil {
		return false
	}
	return revoked
}
