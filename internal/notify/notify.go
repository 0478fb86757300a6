package notify

import (
	"floatflow-backend/internal/database"
	"floatflow-backend/internal/models"

	"gorm.io/gorm"
)

// Push writes one notification row. Delivery to the user is someone else's
// job; failures here must not fail the business operation.
func Push(tx *gorm.DB, userID uint, typ models.NotificationType, title, message, relatedID string) error {
	n := models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		RelatedID: relatedID,
	}
	return tx.Create(&n).Error
}

// Approvers returns the users who should hear about a new pending expense at
// a location: all active admin/finance users plus branch users of that
// location.
func Approvers(location string) ([]models.User, error) {
	var users []models.User
	err := database.DB.
		Where("is_active = ? AND (role IN ? OR (role = ? AND branch_location = ?))",
			true,
			[]models.UserRole{models.RoleAdmin, models.RoleFinance},
			models.RoleBranch, location).
		Find(&users).Error
	return users, err
}
