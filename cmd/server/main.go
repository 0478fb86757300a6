package main

import (
	"os"
	"strings"

	"floatflow-backend/internal/audit"
	"floatflow-backend/internal/auth"
	"floatflow-backend/internal/config"
	"floatflow-backend/internal/database"
	"floatflow-backend/internal/expense"
	"floatflow-backend/internal/files"
	"floatflow-backend/internal/floats"
	"floatflow-backend/internal/location"
	"floatflow-backend/internal/models"
	"floatflow-backend/internal/notify"
	"floatflow-backend/internal/policy"
	"floatflow-backend/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()
	database.Init(cfg, logger)

	if err := os.MkdirAll(cfg.UploadPath, 0o755); err != nil {
		logger.Fatal("could not create upload folder", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 16 * 1024 * 1024, // uploads capped at 16MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.Error("unexpected error", zap.Error(err), zap.String("path", c.Path()))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin-only user management
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/users", auth.SignupHandler())

	// Floats - writes restricted to finance/admin, reads role-filtered
	protected.Get("/floats", floats.ListFloatsHandler())
	floatWrites := protected.Group("/floats")
	floatWrites.Use(auth.RequireRole(models.RoleAdmin, models.RoleFinance))
	floatWrites.Post("", floats.CreateFloatHandler(logger))
	floatWrites.Put("/:code", floats.UpdateFloatHandler(logger))
	floatWrites.Delete("/:code", floats.DeleteFloatHandler(logger))

	// Expense lifecycle - the authorization gate inside the lifecycle decides
	// per record; routes only keep the auditor off the mutating verbs.
	protected.Get("/expenses", expense.ListExpensesHandler())
	protected.Get("/expenses/:code", expense.GetExpenseHandler())
	protected.Post("/expenses", expense.CreateExpenseHandler(cfg, logger))
	protected.Post("/expenses/:code/approve", expense.ApproveExpenseHandler(logger))
	protected.Post("/expenses/:code/reject", expense.RejectExpenseHandler(logger))
	protected.Post("/expenses/:code/pay", expense.MarkPaidHandler(logger))

	// Policies (read-only)
	protected.Get("/policies", policy.ListPoliciesHandler())

	// Locations
	protected.Get("/locations", location.ListLocationsHandler())

	// Reports
	protected.Get("/reports/dashboard", report.DashboardHandler())
	protected.Get("/reports/expenses", report.ExpenseReportHandler())
	protected.Get("/reports/expenses/export", report.ExpenseReportExportHandler())
	protected.Get("/reports/floats", report.FloatReportHandler())

	// Receipts & attachments
	protected.Get("/files/:filename", files.DownloadHandler(cfg))

	// Notifications
	protected.Get("/notifications", notify.ListNotificationsHandler())
	protected.Post("/notifications/:id/read", notify.MarkReadHandler())

	// Audit trail - admin and auditor only
	auditRoutes := protected.Group("/audit-logs")
	auditRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleAuditor))
	auditRoutes.Get("", audit.ListAuditLogsHandler())

	logger.Info("server listening", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
