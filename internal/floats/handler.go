package floats

import (
	"strings"

	"floatflow-backend/internal/audit"
	"floatflow-backend/internal/auth"
	"floatflow-backend/internal/authz"
	"floatflow-backend/internal/database"
	"floatflow-backend/internal/faults"
	"floatflow-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

type CreateFloatRequest struct {
	Code          string  `json:"code" validate:"required"`
	Description   string  `json:"description" validate:"required"`
	Location      string  `json:"location" validate:"required"`
	Currency      string  `json:"currency"`
	InitialAmount float64 `json:"initial_amount" validate:"gt=0"`
	UsedAmount    float64 `json:"used_amount" validate:"gte=0"`
}

type UpdateFloatRequest struct {
	Description   *string  `json:"description"`
	Location      *string  `json:"location"`
	InitialAmount *float64 `json:"initial_amount"`
	UsedAmount    *float64 `json:"used_amount"`
	Version       int64    `json:"version"`
}

type FloatResponse struct {
	ID            uint               `json:"id"`
	Code          string             `json:"code"`
	Description   string             `json:"description"`
	Location      string             `json:"location"`
	Currency      string             `json:"currency"`
	InitialAmount float64            `json:"initial_amount"`
	UsedAmount    float64            `json:"used_amount"`
	Balance       float64            `json:"balance"`
	Status        models.FloatStatus `json:"status"`
	Version       int64              `json:"version"`
	CreatedAt     string             `json:"created_at"`
}

func toResponse(f models.Float) FloatResponse {
	return FloatResponse{
		ID:            f.ID,
		Code:          f.Code,
		Description:   f.Description,
		Location:      f.Location,
		Currency:      f.Currency,
		InitialAmount: f.InitialAmount,
		UsedAmount:    f.UsedAmount,
		Balance:       f.Balance,
		Status:        f.Status,
		Version:       f.Version,
		CreatedAt:     f.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/floats - branch actors only see their own location's floats.
func ListFloatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Float{}).Where("is_active = ?", true)
		if loc := authz.VisibleLocation(actor); loc != "" {
			dbq = dbq.Where("location = ?", loc)
		}

		var rows []models.Float
		if err := dbq.Order("created_at DESC").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list floats")
		}

		resp := make([]FloatResponse, 0, len(rows))
		for _, f := range rows {
			resp = append(resp, toResponse(f))
		}
		return c.JSON(resp)
	}
}

// POST /api/floats (finance or admin, enforced on the route)
func CreateFloatHandler(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateFloatRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.Code = strings.TrimSpace(body.Code)
		if err := validate.Struct(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if body.UsedAmount > body.InitialAmount {
			return faults.ToHTTP(faults.OutOfRange(
				"used amount %.2f exceeds initial amount %.2f", body.UsedAmount, body.InitialAmount))
		}

		var count int64
		database.DB.Model(&models.Float{}).Where("code = ?", body.Code).Count(&count)
		if count > 0 {
			return faults.ToHTTP(faults.Conflict("a float with code %s already exists", body.Code))
		}

		if body.Currency == "" {
			body.Currency = "KES"
		}

		f := Recompute(models.Float{
			Code:          body.Code,
			Description:   body.Description,
			Location:      body.Location,
			Currency:      body.Currency,
			InitialAmount: body.InitialAmount,
			UsedAmount:    body.UsedAmount,
			IsActive:      true,
			CreatedBy:     actor.ID,
		})

		if err := database.DB.Create(&f).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create float")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			Actor:       actor,
			EntityType:  "float",
			EntityID:    f.Code,
			Action:      models.AuditActionCreate,
			Description: "Float created: " + f.Code + " at " + f.Location,
			After:       toResponse(f),
		}); logErr != nil {
			logger.Warn("audit write failed", zap.Error(logErr))
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(f))
	}
}

// PUT /api/floats/:code (finance or admin). Manual amount edits recompute
// balance and status; the update is a compare-and-swap on the version stamp.
func UpdateFloatHandler(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		code := c.Params("code")

		var f models.Float
		if err := database.DB.Where("code = ? AND is_active = ?", code, true).First(&f).Error; err != nil {
			return faults.ToHTTP(faults.NotFound("float %s not found", code))
		}

		var body UpdateFloatRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		before := toResponse(f)

		if body.Description != nil {
			f.Description = strings.TrimSpace(*body.Description)
		}
		if body.Location != nil {
			f.Location = strings.TrimSpace(*body.Location)
		}
		if body.InitialAmount != nil {
			f.InitialAmount = *body.InitialAmount
		}
		if body.UsedAmount != nil {
			f.UsedAmount = *body.UsedAmount
		}
		if f.InitialAmount <= 0 || f.UsedAmount < 0 || f.UsedAmount > f.InitialAmount {
			return faults.ToHTTP(faults.OutOfRange(
				"amounts out of range: initial %.2f, used %.2f", f.InitialAmount, f.UsedAmount))
		}
		f = Recompute(f)

		res := database.DB.Model(&models.Float{}).
			Where("id = ? AND version = ?", f.ID, body.Version).
			Updates(map[string]interface{}{
				"description":    f.Description,
				"location":       f.Location,
				"initial_amount": f.InitialAmount,
				"used_amount":    f.UsedAmount,
				"balance":        f.Balance,
				"status":         f.Status,
				"version":        body.Version + 1,
			})
		if res.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update float")
		}
		if res.RowsAffected == 0 {
			return faults.ToHTTP(faults.Conflict(
				"float %s was modified concurrently, reload and retry", code))
		}
		f.Version = body.Version + 1

		if logErr := audit.WriteLog(audit.LogOptions{
			Actor:       actor,
			EntityType:  "float",
			EntityID:    f.Code,
			Action:      models.AuditActionUpdate,
			Description: "Float updated: " + f.Code,
			Before:      before,
			After:       toResponse(f),
		}); logErr != nil {
			logger.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(toResponse(f))
	}
}

// DELETE /api/floats/:code (finance or admin). Deletion is blocked while any
// expense references the float; otherwise the float is soft-deleted so the
// audit trail keeps pointing at a real row.
func DeleteFloatHandler(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}
		code := c.Params("code")

		var f models.Float
		if err := database.DB.Where("code = ? AND is_active = ?", code, true).First(&f).Error; err != nil {
			return faults.ToHTTP(faults.NotFound("float %s not found", code))
		}

		var expenseCount int64
		database.DB.Model(&models.Expense{}).Where("float_id = ?", f.ID).Count(&expenseCount)
		if expenseCount > 0 {
			return faults.ToHTTP(faults.Conflict(
				"float %s has %d linked expenses, archive it instead", code, expenseCount))
		}

		if err := database.DB.Model(&f).Update("is_active", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete float")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			Actor:       actor,
			EntityType:  "float",
			EntityID:    f.Code,
			Action:      models.AuditActionDelete,
			Description: "Float deleted: " + f.Code,
			Before:      toResponse(f),
		}); logErr != nil {
			logger.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(fiber.Map{"message": "Float deleted"})
	}
}
