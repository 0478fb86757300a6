package files

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Receipts and supporting documents only; anything executable stays out.
var allowedExtensions = map[string]bool{
	".doc":  true,
	".docx": true,
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

func AllowedFile(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

type StoredFile struct {
	Filename         string // name under the upload folder
	OriginalFilename string
	FileType         string
	FileSize         int64
}

// Store writes one uploaded file into the upload folder under a unique,
// non-guessable name and returns the opaque reference. The rest of the
// system only ever handles the reference string, never file content.
func Store(c *fiber.Ctx, fh *multipart.FileHeader, uploadPath, prefix string) (StoredFile, error) {
	if !AllowedFile(fh.Filename) {
		return StoredFile{}, fmt.Errorf("file type not allowed: %s", fh.Filename)
	}

	base := filepath.Base(fh.Filename)
	stored := fmt.Sprintf("%s_%s_%s", prefix, strings.ReplaceAll(uuid.NewString(), "-", ""), base)

	if err := c.SaveFile(fh, filepath.Join(uploadPath, stored)); err != nil {
		return StoredFile{}, fmt.Errorf("could not save upload: %w", err)
	}

	fileType := fh.Header.Get("Content-Type")
	if fileType == "" {
		fileType = "application/octet-stream"
	}

	return StoredFile{
		Filename:         stored,
		OriginalFilename: base,
		FileType:         fileType,
		FileSize:         fh.Size,
	}, nil
}
