package notify

import (
	"floatflow-backend/internal/auth"
	"floatflow-backend/internal/database"
	"floatflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type NotificationResponse struct {
	ID        uint                    `json:"id"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	RelatedID string                  `json:"related_id"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt string                  `json:"created_at"`
}

// GET /api/notifications - the caller's own notifications, newest first.
func ListNotificationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		var rows []models.Notification
		if err := database.DB.
			Where("user_id = ?", actor.ID).
			Order("created_at DESC").Limit(100).
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list notifications")
		}

		resp := make([]NotificationResponse, 0, len(rows))
		for _, n := range rows {
			resp = append(resp, NotificationResponse{
				ID:        n.ID,
				Title:     n.Title,
				Message:   n.Message,
				Type:      n.Type,
				RelatedID: n.RelatedID,
				IsRead:    n.IsRead,
				CreatedAt: n.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(resp)
	}
}

// POST /api/notifications/:id/read
func MarkReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		id := c.Params("id")

		res := database.DB.Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", id, actor.ID).
			Update("is_read", true)
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update notification")
		}
		if res.RowsAffected == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Notification not found")
		}

		return c.JSON(fiber.Map{"message": "Notification marked read"})
	}
}
