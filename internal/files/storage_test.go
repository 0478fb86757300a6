package files

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedFile(t *testing.T) {
	allowed := []string{"receipt.pdf", "photo.JPG", "scan.jpeg", "invoice.docx", "note.doc", "slip.png"}
	for _, name := range allowed {
		assert.Truef(t, AllowedFile(name), "name=%s", name)
	}

	denied := []string{"script.sh", "archive.zip", "receipt.pdf.exe", "noextension", ""}
	for _, name := range denied {
		assert.Falsef(t, AllowedFile(name), "name=%s", name)
	}
}
