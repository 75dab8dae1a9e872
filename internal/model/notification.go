package model

import "time"

// Notification is an in-app message fanned out to users on business events
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"type:varchar(255)"`
	Message   string    `json:"message" gorm:"type:text"`
	Type      string    `json:"type" gorm:"type:varchar(20)"`
	Category  string    `json:"category" gorm:"type:varchar(30);index"`
	Link      string    `json:"link" gorm:"type:varchar(255)"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}
