package policy

import (
	"floatflow-backend/internal/database"
	"floatflow-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PolicyResponse struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location,omitempty"`
	AmountLimit *float64 `json:"amount_limit"`
	Currency    string   `json:"currency"`
	IsActive    bool     `json:"is_active"`
	CreatedAt   string   `json:"created_at"`
}

// GET /api/policies - every authenticated role can read the policy set.
// Policy authoring happens outside this service; there is no write endpoint.
func ListPoliciesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []models.Policy
		if err := database.DB.
			Where("is_active = ?", true).
			Order("created_at DESC").
			Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list policies")
		}

		resp := make([]PolicyResponse, 0, len(rows))
		for _, p := range rows {
			resp = append(resp, PolicyResponse{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Category:    p.Category,
				Location:    p.Location,
				AmountLimit: p.AmountLimit,
				Currency:    p.Currency,
				IsActive:    p.IsActive,
				CreatedAt:   p.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(resp)
	}
}
