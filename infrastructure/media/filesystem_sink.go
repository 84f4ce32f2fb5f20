package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"orgchart-backend/application/ports"
	"orgchart-backend/pkg/errors"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// Rejection messages
const (
	MsgTypeNotPermitted = "Sorry, this file type is not permitted."
	MsgEmptyFile        = "File is empty."
)

// allowedTypes maps sniffed content types to the extension written on disk.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FilesystemSink stores uploads as files under a directory that the HTTP
// layer serves at baseURL.
type FilesystemSink struct {
	dir      string
	baseURL  string
	maxBytes int64
	logger   *zap.Logger
}

// NewFilesystemSink creates the media directory if needed
func NewFilesystemSink(dir, baseURL string, maxBytes int64, logger *zap.Logger) (*FilesystemSink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &FilesystemSink{
		dir:      dir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
		logger:   logger,
	}, nil
}

// Dir returns the directory files are written to
func (s *FilesystemSink) Dir() string {
	return s.dir
}

// Put validates and writes data as <key>-<sanitized name>.
func (s *FilesystemSink) Put(ctx context.Context, key, fileName string, data []byte) (ports.StoredObject, error) {
	if len(data) == 0 {
		return ports.StoredObject{}, errors.NewUploadError(MsgEmptyFile, nil)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return ports.StoredObject{}, errors.NewUploadError(
			fmt.Sprintf("File exceeds the maximum upload size of %s.", humanize.Bytes(uint64(s.maxBytes))), nil)
	}

	contentType, ext, ok := detectImage(data)
	if !ok {
		s.logger.Debug("Rejected media type", zap.String("detected", mimetype.Detect(data).String()))
		return ports.StoredObject{}, errors.NewUploadError(MsgTypeNotPermitted, nil)
	}

	if err := ctx.Err(); err != nil {
		return ports.StoredObject{}, errors.NewUploadError("upload cancelled", err)
	}

	name := key + "-" + SanitizeFileName(fileName, ext)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ports.StoredObject{}, errors.NewUploadError("The uploaded file could not be moved to the media directory.", err)
	}

	s.logger.Debug("Stored media file",
		zap.String("path", path),
		zap.String("size", humanize.Bytes(uint64(len(data)))),
	)

	return ports.StoredObject{
		URL:         s.baseURL + "/" + name,
		ContentType: contentType,
		Size:        len(data),
	}, nil
}

// detectImage sniffs data and reports the allowed type it matches
func detectImage(data []byte) (string, string, bool) {
	detected := mimetype.Detect(data)
	for contentType, ext := range allowedTypes {
		if detected.Is(contentType) {
			return contentType, ext, true
		}
	}
	return "", "", false
}

// SanitizeFileName keeps the base name's safe characters and forces the
// extension matching the sniffed type.
func SanitizeFileName(fileName, ext string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Trim(unsafeName.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		base = "upload"
	}
	if len(base) > 64 {
		base = base[:64]
	}
	return strings.ToLower(base) + ext
}
