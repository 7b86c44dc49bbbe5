package storage

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"talent-portal/internal/domain"
)

// DefaultMaxBytes is the resume size ceiling.
const DefaultMaxBytes int64 = 5 << 20

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
}

var allowedMediaTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// Upload describes an incoming file before it is written anywhere.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Stager writes accepted uploads to temporary storage.
type Stager interface {
	Stage(ctx context.Context, upload Upload) (*domain.StagedFile, error)
}

// CleanupScheduler removes staged files after a delay.
type CleanupScheduler interface {
	Schedule(path string)
	Shutdown()
}

// Accept checks an upload against the type and size rules. Both the extension
// and the declared media type must be allowed.
func Accept(filename, contentType string, size, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return domain.ErrUnsupportedFileType
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return domain.ErrUnsupportedFileType
	}
	if _, ok := allowedMediaTypes[strings.ToLower(mediaType)]; !ok {
		return domain.ErrUnsupportedFileType
	}
	if maxBytes > 0 && size > maxBytes {
		return domain.ErrFileTooLarge
	}
	return nil
}
