package model

import "time"

// RefreshToken is the server-side session record behind a refresh JWT.
// Only a SHA-256 hash of the raw token is stored; the raw token never
// touches the database. Rows are never deleted: a revoked row keeps its
// ReplacedByTokenID pointer so rotation chains stay auditable and replayed
// tokens can be detected.
type RefreshToken struct {
	ID                uint       `json:"id" gorm:"primaryKey"`
	UserID            uint       `json:"user_id" gorm:"not null;index"`
	TokenID           string     `json:"token_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	TokenHash         string     `json:"-" gorm:"type:varchar(64);uniqueIndex;not null"`
	CreatedAt         time.Time  `json:"created_at"`
	ExpiresAt         time.Time  `json:"expires_at" gorm:"not null"`
	RevokedAt         *time.Time `json:"revoked_at,omitempty"`
	ReplacedByTokenID *string    `json:"replaced_by_token_id,omitempty" gorm:"type:varchar(64)"`
}

// IsLive reports whether the record can still be used for rotation
func (t *RefreshToken) IsLive(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
