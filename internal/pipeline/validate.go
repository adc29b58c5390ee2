package pipeline

import (
	"fmt"
	"net/http"
	"strings"
)

// DefaultMaxFileSize caps a single submitted image at 10 MB.
const DefaultMaxFileSize = 10 << 20

var acceptedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
}

// heic files are containerized; net/http sniffing reports them as
// application/octet-stream, so the extension decides.
var acceptedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
}

// Validator gates files before they become tasks. Rejection here is local
// input validation, not a pipeline failure.
type Validator struct {
	MaxFileSize int64
}

func NewValidator(maxFileSize int64) Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return Validator{MaxFileSize: maxFileSize}
}

func (v Validator) Check(name string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("file is empty")
	}
	if int64(len(data)) > v.MaxFileSize {
		return fmt.Errorf("file exceeds maximum size of %d bytes", v.MaxFileSize)
	}

	ext := strings.ToLower(extension(name))
	if acceptedExtensions[ext] {
		if ext == ".heic" {
			return nil
		}
		if acceptedContentTypes[http.DetectContentType(data)] {
			return nil
		}
		return fmt.Errorf("file content does not match an accepted image type")
	}

	return fmt.Errorf("unsupported file type %q, accepted: jpg, jpeg, png, webp, heic", ext)
}

func extension(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i:]
		}
	}
	return ""
}
