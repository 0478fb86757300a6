package expense

import (
	"fmt"
	"time"

	"floatflow-backend/internal/audit"
	"floatflow-backend/internal/auth"
	"floatflow-backend/internal/authz"
	"floatflow-backend/internal/config"
	"floatflow-backend/internal/database"
	"floatflow-backend/internal/faults"
	"floatflow-backend/internal/files"
	"floatflow-backend/internal/floats"
	"floatflow-backend/internal/models"
	"floatflow-backend/internal/notify"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AttachmentResponse struct {
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	FileType         string `json:"file_type"`
	FileSize         int64  `json:"file_size"`
}

type ExpenseResponse struct {
	ID              uint                 `json:"id"`
	Code            string               `json:"code"`
	Date            string               `json:"date"`
	Description     string               `json:"description"`
	Category        string               `json:"category"`
	Amount          float64              `json:"amount"`
	Currency        string               `json:"currency"`
	ExchangeRate    float64              `json:"exchange_rate"`
	AmountKES       float64              `json:"amount_kes"`
	FloatCode       string               `json:"float_code"`
	Location        string               `json:"location"`
	Status          models.ExpenseStatus `json:"status"`
	Receipt         string               `json:"receipt,omitempty"`
	Attachments     []AttachmentResponse `json:"attachments"`
	PolicyViolation bool                 `json:"policy_violation"`
	ViolationReason string               `json:"violation_reason,omitempty"`
	SubmittedBy     uint                 `json:"submitted_by"`
	ApprovedBy      *uint                `json:"approved_by"`
	RejectionReason string               `json:"rejection_reason,omitempty"`
	Version         int64                `json:"version"`
	CreatedAt       string               `json:"created_at"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type transitionRequest struct {
	Version *int64 `json:"version"`
}

func toResponse(e models.Expense) ExpenseResponse {
	atts := make([]AttachmentResponse, 0, len(e.Attachments))
	for _, a := range e.Attachments {
		atts = append(atts, AttachmentResponse{
			Filename:         a.Filename,
			OriginalFilename: a.OriginalFilename,
			FileType:         a.FileType,
			FileSize:         a.FileSize,
		})
	}
	return ExpenseResponse{
		ID:              e.ID,
		Code:            e.Code,
		Date:            e.Date.Format("2006-01-02"),
		Description:     e.Description,
		Category:        e.Category,
		Amount:          e.Amount,
		Currency:        e.Currency,
		ExchangeRate:    e.ExchangeRate,
		AmountKES:       e.BaseAmount(),
		FloatCode:       e.Float.Code,
		Location:        e.Location,
		Status:          e.Status,
		Receipt:         e.Receipt,
		Attachments:     atts,
		PolicyViolation: e.PolicyViolation,
		ViolationReason: e.ViolationReason,
		SubmittedBy:     e.SubmittedBy,
		ApprovedBy:      e.ApprovedBy,
		RejectionReason: e.RejectionReason,
		Version:         e.Version,
		CreatedAt:       e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// GET /api/expenses - branch actors see their location only; everyone else
// sees everything (the auditor read-only, enforced by route gating on the
// mutating endpoints).
func ListExpensesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Expense{}).
			Preload("Float").
			Preload("Attachments")
		if loc := authz.VisibleLocation(actor); loc != "" {
			dbq = dbq.Where("location = ?", loc)
		}
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var rows []models.Expense
		if err := dbq.Order("created_at DESC").Find(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list expenses")
		}

		resp := make([]ExpenseResponse, 0, len(rows))
		for _, e := range rows {
			resp = append(resp, toResponse(e))
		}
		return c.JSON(resp)
	}
}

// GET /api/expenses/:code
func GetExpenseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		e, err := loadExpense(c.Params("code"))
		if err != nil {
			return faults.ToHTTP(err)
		}
		if loc := authz.VisibleLocation(actor); loc != "" && e.Location != loc {
			return faults.ToHTTP(faults.Unauthorized("cannot view expenses from other branches"))
		}

		return c.JSON(toResponse(e))
	}
}

// POST /api/expenses - multipart form: date, description, category, amount,
// currency, exchange_rate, float_code, location, plus optional receipt and
// attachments files. A policy violation is attached, not blocking. Auditor
// submissions are refused by the gate inside Submit.
func CreateExpenseHandler(cfg *config.Config, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		date, err := time.Parse("2006-01-02", c.FormValue("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date must be 'YYYY-MM-DD'")
		}
		var amount, exchangeRate float64
		if _, err := fmt.Sscan(c.FormValue("amount", "0"), &amount); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Amount is not a number")
		}
		if _, err := fmt.Sscan(c.FormValue("exchange_rate", "1"), &exchangeRate); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Exchange rate is not a number")
		}

		floatCode := c.FormValue("float_code")
		var fl models.Float
		if err := database.DB.Where("code = ? AND is_active = ?", floatCode, true).First(&fl).Error; err != nil {
			return faults.ToHTTP(faults.NotFound("float %s not found or inactive", floatCode))
		}
		if fl.Status == models.FloatExhausted {
			return faults.ToHTTP(faults.OutOfRange("float %s is exhausted", floatCode))
		}

		candidate := models.Expense{
			Date:         date,
			Description:  c.FormValue("description"),
			Category:     c.FormValue("category"),
			Amount:       amount,
			Currency:     c.FormValue("currency", "KES"),
			ExchangeRate: exchangeRate,
			FloatID:      fl.ID,
			Location:     c.FormValue("location"),
		}

		// Optional hard block; by default an insufficient balance is the
		// approver's problem, not the submitter's.
		if cfg.BlockOnInsufficientFloat && !floats.CanAfford(fl, candidate.BaseAmount()) {
			return faults.ToHTTP(faults.OutOfRange(
				"float %s balance %.2f cannot cover %.2f", fl.Code, fl.Balance, candidate.BaseAmount()))
		}

		var policies []models.Policy
		if err := database.DB.Where("is_active = ?", true).Find(&policies).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load policies")
		}

		now := time.Now().UTC()
		submitted, err := Submit(candidate, actor, policies, now)
		if err != nil {
			return faults.ToHTTP(err)
		}

		// Admin submissions enter already approved; that is committed spend
		// and debits the float right away.
		var debited *models.Float
		if submitted.Status == models.ExpenseApproved {
			d, err := floats.Debit(fl, submitted.BaseAmount())
			if err != nil {
				return faults.ToHTTP(err)
			}
			debited = &d
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Expense{}).Count(&count).Error; err != nil {
				return err
			}
			submitted.Code = fmt.Sprintf("EXP%03d", count+1)

			if fh, err := c.FormFile("receipt"); err == nil && fh != nil {
				stored, err := files.Store(c, fh, cfg.UploadPath, submitted.Code)
				if err != nil {
					return faults.Validation("%v", err)
				}
				submitted.Receipt = stored.Filename
			}

			if form, err := c.MultipartForm(); err == nil && form != nil {
				for _, fh := range form.File["attachments"] {
					stored, err := files.Store(c, fh, cfg.UploadPath, submitted.Code)
					if err != nil {
						return faults.Validation("%v", err)
					}
					submitted.Attachments = append(submitted.Attachments, models.ExpenseAttachment{
						Filename:         stored.Filename,
						OriginalFilename: stored.OriginalFilename,
						FileType:         stored.FileType,
						FileSize:         stored.FileSize,
					})
				}
			}

			if err := tx.Create(&submitted).Error; err != nil {
				return err
			}

			if debited != nil {
				if err := casFloat(tx, fl, *debited); err != nil {
					return err
				}
			}

			if submitted.Status == models.ExpensePending {
				approvers, err := notify.Approvers(submitted.Location)
				if err != nil {
					return err
				}
				for _, u := range approvers {
					if err := notify.Push(tx, u.ID, models.NotifyExpenseSubmitted,
						"New Expense Approval Required",
						fmt.Sprintf("Expense %s for %s requires approval", submitted.Code, submitted.Description),
						submitted.Code); err != nil {
						return err
					}
				}
			}
			return nil
		})
		if txErr != nil {
			if _, ok := faults.KindOf(txErr); ok {
				return faults.ToHTTP(txErr)
			}
			logger.Error("expense create failed", zap.Error(txErr))
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create expense")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			Actor:       actor,
			EntityType:  "expense",
			EntityID:    submitted.Code,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Expense submitted: %s - %.2f %s", submitted.Category, submitted.Amount, submitted.Currency),
			After:       toResponse(submitted),
		}); logErr != nil {
			logger.Warn("audit write failed", zap.Error(logErr))
		}

		submitted.Float = fl
		if debited != nil {
			submitted.Float = *debited
		}
		return c.Status(fiber.StatusCreated).JSON(toResponse(submitted))
	}
}

// POST /api/expenses/:code/approve - gate first, then the state machine, then
// the float debit. Expense and float updates are compare-and-swaps inside one
// transaction so a concurrent approval can never double-debit.
func ApproveExpenseHandler(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		e, err := loadExpense(c.Params("code"))
		if err != nil {
			return faults.ToHTTP(err)
		}
		expectedVersion := requestedVersion(c, e.Version)

		now := time.Now().UTC()
		approved, err := Approve(e, actor, now)
		if err != nil {
			return faults.ToHTTP(err)
		}

		debited, err := floats.Debit(e.Float, e.BaseAmount())
		if err != nil {
			return faults.ToHTTP(err)
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := casExpense(tx, e.ID, expectedVersion, map[string]interface{}{
				"status":      approved.Status,
				"approved_by": approved.ApprovedBy,
				"approved_at": approved.ApprovedAt,
			}); err != nil {
				return err
			}
			if err := casFloat(tx, e.Float, debited); err != nil {
				return err
			}
			return notify.Push(tx, e.SubmittedBy, models.NotifyExpenseApproved,
				"Expense Approved",
				fmt.Sprintf("Your expense %s has been approved", e.Code),
				e.Code)
		})
		if txErr != nil {
			if _, ok := faults.KindOf(txErr); ok {
				return faults.ToHTTP(txErr)
			}
			logger.Error("expense approve failed", zap.Error(txErr))
			return fiber.NewError(fiber.StatusInternalServerError, "Could not approve expense")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			Actor:       actor,
			EntityType:  "expense",
			EntityID:    e.Code,
			Action:      models.AuditActionApprove,
			Description: fmt.Sprintf("Expense approved: %s, float %s debited %.2f KES", e.Code, e.Float.Code, e.BaseAmount()),
			Before:      toResponse(e),
			After:       toResponse(approved),
		}); logErr != nil {
			logger.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(fiber.Map{"message": "Expense approved", "expense": toResponse(approved)})
	}
}

// POST /api/expenses/:code/reject - requires a non-empty reason.
func RejectExpenseHandler(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		var body RejectRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		e, err := loadExpense(c.Params("code"))
		if err != nil {
			return faults.ToHTTP(err)
		}
		expectedVersion := requestedVersion(c, e.Version)

		now := time.Now().UTC()
		rejected, err := Reject(e, actor, body.Reason, now)
		if err != nil {
			return faults.ToHTTP(err)
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := casExpense(tx, e.ID, expectedVersion, map[string]interface{}{
				"status":           rejected.Status,
				"approved_by":      rejected.ApprovedBy,
				"approved_at":      rejected.ApprovedAt,
				"rejection_reason": rejected.RejectionReason,
				"violation_reason": rejected.ViolationReason,
			}); err != nil {
				return err
			}
			return notify.Push(tx, e.SubmittedBy, models.NotifyExpenseRejected,
				"Expense Rejected",
				fmt.Sprintf("Your expense %s has been rejected: %s", e.Code, rejected.RejectionReason),
				e.Code)
		})
		if txErr != nil {
			if _, ok := faults.KindOf(txErr); ok {
				return faults.ToHTTP(txErr)
			}
			logger.Error("expense reject failed", zap.Error(txErr))
			return fiber.NewError(fiber.StatusInternalServerError, "Could not reject expense")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			Actor:       actor,
			EntityType:  "expense",
			EntityID:    e.Code,
			Action:      models.AuditActionReject,
			Description: fmt.Sprintf("Expense rejected: %s - %s", e.Code, rejected.RejectionReason),
			Before:      toResponse(e),
			After:       toResponse(rejected),
		}); logErr != nil {
			logger.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(fiber.Map{"message": "Expense rejected", "expense": toResponse(rejected)})
	}
}

// POST /api/expenses/:code/pay - finance/admin settle an approved expense.
func MarkPaidHandler(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := auth.ActorFromCtx(c)
		if err != nil {
			return err
		}

		e, err := loadExpense(c.Params("code"))
		if err != nil {
			return faults.ToHTTP(err)
		}
		expectedVersion := requestedVersion(c, e.Version)

		now := time.Now().UTC()
		paid, err := MarkPaid(e, actor, now)
		if err != nil {
			return faults.ToHTTP(err)
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := casExpense(tx, e.ID, expectedVersion, map[string]interface{}{
				"status":  paid.Status,
				"paid_by": paid.PaidBy,
				"paid_at": paid.PaidAt,
			}); err != nil {
				return err
			}
			return notify.Push(tx, e.SubmittedBy, models.NotifyExpensePaid,
				"Expense Paid",
				fmt.Sprintf("Your expense %s has been paid", e.Code),
				e.Code)
		})
		if txErr != nil {
			if _, ok := faults.KindOf(txErr); ok {
				return faults.ToHTTP(txErr)
			}
			logger.Error("expense pay failed", zap.Error(txErr))
			return fiber.NewError(fiber.StatusInternalServerError, "Could not mark expense paid")
		}

		if logErr := audit.WriteLog(audit.LogOptions{
			Actor:       actor,
			EntityType:  "expense",
			EntityID:    e.Code,
			Action:      models.AuditActionPay,
			Description: fmt.Sprintf("Expense paid: %s", e.Code),
			Before:      toResponse(e),
			After:       toResponse(paid),
		}); logErr != nil {
			logger.Warn("audit write failed", zap.Error(logErr))
		}

		return c.JSON(fiber.Map{"message": "Expense marked paid", "expense": toResponse(paid)})
	}
}

func loadExpense(code string) (models.Expense, error) {
	var e models.Expense
	if err := database.DB.
		Preload("Float").
		Preload("Attachments").
		Where("code = ?", code).First(&e).Error; err != nil {
		return e, faults.NotFound("expense %s not found", code)
	}
	return e, nil
}

// requestedVersion lets callers pin the version stamp they read; absent a
// body, the freshly loaded version is used and the CAS still catches races.
func requestedVersion(c *fiber.Ctx, loaded int64) int64 {
	var body transitionRequest
	if err := c.BodyParser(&body); err == nil && body.Version != nil {
		return *body.Version
	}
	return loaded
}

func casExpense(tx *gorm.DB, id uint, version int64, fields map[string]interface{}) error {
	fields["version"] = version + 1
	res := tx.Model(&models.Expense{}).
		Where("id = ? AND version = ?", id, version).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return faults.Conflict("expense was modified concurrently, reload and retry")
	}
	return nil
}

func casFloat(tx *gorm.DB, before models.Float, after models.Float) error {
	res := tx.Model(&models.Float{}).
		Where("id = ? AND version = ?", before.ID, before.Version).
		Updates(map[string]interface{}{
			"used_amount": after.UsedAmount,
			"balance":     after.Balance,
			"status":      after.Status,
			"version":     before.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return faults.Conflict("float %s was modified concurrently, reload and retry", before.Code)
	}
	return nil
}
