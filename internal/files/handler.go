package files

import (
	"os"
	"path/filepath"
	"strings"

	"floatflow-backend/internal/config"

	"github.com/gofiber/fiber/v2"
)

// GET /api/files/:filename - serves a stored receipt or attachment.
func DownloadHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filename := filepath.Base(c.Params("filename"))
		if filename == "" || strings.Contains(filename, "..") {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid filename")
		}

		path := filepath.Join(cfg.UploadPath, filename)
		if _, err := os.Stat(path); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "File not found")
		}

		return c.SendFile(path)
	}
}
