package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"talent-portal/internal/domain"
)

// LocalStager stages resumes under a directory on local disk.
type LocalStager struct {
	dir      string
	maxBytes int64
}

func NewLocalStager(dir string, maxBytes int64) *LocalStager {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &LocalStager{
		dir:      dir,
		maxBytes: maxBytes,
	}
}

func (s *LocalStager) MaxBytes() int64 {
	return s.maxBytes
}

func (s *LocalStager) Stage(ctx context.Context, upload Upload) (*domain.StagedFile, error) {
	if err := Accept(upload.Filename, upload.ContentType, upload.Size, s.maxBytes); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.Wrap(domain.ErrInternal, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, domain.Wrap(domain.ErrInternal, fmt.Errorf("create upload dir: %w", err))
	}

	path := filepath.Join(s.dir, stagedName(upload.Filename, time.Now()))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, domain.Wrap(domain.ErrInternal, fmt.Errorf("create staged file: %w", err))
	}

	// The declared size can lie; read at most one byte past the limit.
	written, copyErr := io.Copy(f, io.LimitReader(upload.Body, s.maxBytes+1))
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return nil, domain.Wrap(domain.ErrInternal, fmt.Errorf("write staged file: %w", err))
	}
	if written > s.maxBytes {
		_ = os.Remove(path)
		return nil, domain.ErrFileTooLarge
	}

	return &domain.StagedFile{
		Path:         path,
		OriginalName: filepath.Base(upload.Filename),
		ContentType:  upload.ContentType,
		Size:         written,
	}, nil
}

// stagedName is unique per upload: timestamp, random suffix, original extension.
func stagedName(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("resume-%d-%s%s", now.UnixMilli(), uuid.NewString(), ext)
}

var _ Stager = (*LocalStager)(nil)
