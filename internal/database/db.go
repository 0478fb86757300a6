package database

import (
	"floatflow-backend/internal/config"
	"floatflow-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config, logger *zap.Logger) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Float{},
		&models.Policy{},
		&models.Expense{},
		&models.ExpenseAttachment{},
		&models.AuditLog{},
		&models.Notification{},
	)
	if err != nil {
		logger.Fatal("auto migration failed", zap.Error(err))
	}

	logger.Info("database connected, migration complete")
}
