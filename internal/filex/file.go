// Package filex holds small filesystem helpers used by the CLI.
package filex

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/skillshare/internal/client/models"
)

// MaxAttachmentSize caps files read into memory for upload.
const MaxAttachmentSize = 10 << 20

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// LoadAttachment reads the file at path for a multipart upload. The content
// type comes from the extension, falling back to sniffing the first bytes.
func LoadAttachment(path string) (models.Attachment, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return models.Attachment{}, fmt.Errorf("%s is a directory", path)
	}
	if fi.Size() > MaxAttachmentSize {
		return models.Attachment{}, fmt.Errorf("%s is larger than %d bytes", path, MaxAttachmentSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("read %s: %w", path, err)
	}

	name := filepath.Base(path)
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = http.DetectContentType(data)
	}

	return models.Attachment{Name: name, ContentType: ct, Data: data}, nil
}
