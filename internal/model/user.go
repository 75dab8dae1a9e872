package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles served by the API
const (
	RoleAdmin    = "admin"
	RoleDealer   = "dealer"
	RoleCustomer = "customer"
)

// User represents an account that can authenticate against the API
type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Email        string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"type:varchar(255)"`
	FullName     string         `json:"full_name" gorm:"type:varchar(255)"`
	Phone        string         `json:"phone,omitempty" gorm:"type:varchar(20)"`
	Role         string         `json:"role" gorm:"type:varchar(20);default:customer;index"`
	DealerID     *uint          `json:"dealer_id,omitempty" gorm:"index"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	LastLogin    *time.Time     `json:"last_login,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
