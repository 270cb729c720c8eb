package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/angelmondragon/ayurcart-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
)

// Service stores admin image uploads.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
}

// UploadInput is one multipart file part.
type UploadInput struct {
	FileName string
	Body     io.Reader
}

// UploadOutput describes the stored image.
type UploadOutput struct {
	FileName  string `json:"file_name"`
	URL       string `json:"url"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

type service struct {
	store    Store
	prefix   string
	maxBytes int64
	now      func() time.Time
}

// NewService builds the upload service from the media config.
func NewService(store Store, cfg config.MediaConfig, now func() time.Time) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("media store required")
	}
	if now == nil {
		now = time.Now
	}
	prefix := strings.TrimRight(cfg.PublicPrefix, "/")
	if prefix == "" {
		prefix = "/uploads"
	}
	return &service{store: store, prefix: prefix, maxBytes: cfg.MaxImageBytes(), now: now}, nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	if input.Body == nil {
		return nil, pkgerrors.Validation("file", "is required")
	}

	data, err := io.ReadAll(io.LimitReader(input.Body, s.maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file could not be read")
	}
	if len(data) == 0 {
		return nil, pkgerrors.Validation("file", "is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, pkgerrors.Validation("file", fmt.Sprintf("must be at most %d MB", s.maxBytes>>20))
	}

	detected, err := sniffImage(data)
	if err != nil {
		return nil, pkgerrors.Validation("file", "must be one of "+allowedDescription())
	}

	name := storedName(s.now(), input.FileName)
	if err := s.store.Put(ctx, name, data); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store upload")
	}

	return &UploadOutput{
		FileName:  name,
		URL:       s.prefix + "/" + name,
		MimeType:  detected.String(),
		SizeBytes: int64(len(data)),
	}, nil
}

// storedName is <unix-millis>-<sanitized original name>.
func storedName(now time.Time, original string) string {
	clean := sanitizeFileName(original)
	if clean == "" {
		clean = "upload"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), clean)
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range strings.ToLower(clean) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_'):
			b.WriteRune(r)
		case unicode.IsControl(r):
			continue
		default:
			b.WriteRune('-')
		}
	}
	result := strings.Trim(b.String(), "-_.")
	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	if len(result) > 120 {
		result = result[len(result)-120:]
	}
	return result
}
