package models

import "time"

type NotificationType string

const (
	NotifyExpenseSubmitted NotificationType = "expense_submitted"
	NotifyExpenseApproved  NotificationType = "expense_approved"
	NotifyExpenseRejected  NotificationType = "expense_rejected"
	NotifyExpensePaid      NotificationType = "expense_paid"
)

// Notification rows are written by the lifecycle handlers; delivery to the
// user (websocket, toast, email) is not this service's concern.
type Notification struct {
	ID        uint             `gorm:"primaryKey"`
	UserID    uint             `gorm:"index;not null"`
	Title     string           `gorm:"size:100;not null"`
	Message   string           `gorm:"size:255;not null"`
	Type      NotificationType `gorm:"size:30;not null"`
	RelatedID string           `gorm:"size:50"` // expense code the notification refers to
	IsRead    bool             `gorm:"default:false"`
	CreatedAt time.Time
}
