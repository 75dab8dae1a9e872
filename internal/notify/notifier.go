package notify

import (
	"paintflow-api/internal/model"
	"paintflow-api/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Notifier fans a message out to a set of users. Dispatch is fire-and-forget:
// a failure must never abort the business operation that triggered it, so
// implementations log and swallow errors.
type Notifier interface {
	Notify(userIDs []uint, title, message, msgType, category, link string)
}

// DBNotifier inserts one Notification row per recipient
type DBNotifier struct {
	db *gorm.DB
}

// NewDBNotifier creates a database-backed notifier
func NewDBNotifier(db *gorm.DB) *DBNotifier {
	return &DBNotifier{db: db}
}

// Notify writes notification rows for every recipient
func (n *DBNotifier) Notify(userIDs []uint, title, message, msgType, category, link string) {
	if len(userIDs) == 0 {
		return
	}

	rows := make([]model.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, model.Notification{
			UserID:   id,
			Title:    title,
			Message:  message,
			Type:     msgType,
			Category: category,
			Link:     link,
		})
	}

	if err := n.db.Create(&rows).Error; err != nil {
		logger.GetLogger().Warn("Failed to create notifications",
			zap.String("category", category),
			zap.Int("recipients", len(userIDs)),
			zap.Error(err))
	}
}
