// Package media keeps uploaded images on local disk.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-pethotel/pkg/domain"
)

// MaxFileSize is the largest upload accepted, in bytes.
const MaxFileSize = 5 << 20

var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Store persists validated images under a single directory.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates a Store rooted at dir. The directory is created lazily.
func NewStore(dir string, logger *zap.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the directory files are written to.
func (s *Store) Dir() string { return s.dir }

// Validate checks an upload against the size and type limits without
// writing anything.
func Validate(up Upload) error {
	if len(up.Data) == 0 {
		return domain.NewValidationError("file is empty")
	}
	if len(up.Data) > MaxFileSize {
		return domain.NewError(domain.KindFileTooLarge,
			fmt.Sprintf("file %q exceeds the %d MiB limit", up.Filename, MaxFileSize>>20))
	}
	contentType := detectContentType(up)
	if _, ok := allowedTypes[contentType]; !ok {
		return domain.NewError(domain.KindUnsupportedFileType,
			fmt.Sprintf("file type %q is not supported, use jpeg or png", contentType))
	}
	return nil
}

// Validate checks an upload the way Store would.
func (s *Store) Validate(up Upload) error { return Validate(up) }

// Store validates the upload and writes it under a fresh unique name.
// Nothing touches the disk unless every check passes.
func (s *Store) Store(ctx context.Context, up Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := Validate(up); err != nil {
		return "", err
	}

	base := filepath.Base(filepath.Clean("/" + up.Filename))
	if base == "/" || base == "." {
		base = "upload"
	}
	name := uuid.NewString() + "_" + base

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", domain.WrapError(domain.KindDirectoryCreateFailed,
			fmt.Sprintf("failed to create directory %s", s.dir), err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), up.Data, 0o644); err != nil {
		return "", domain.WrapError(domain.KindFileWriteFailed,
			fmt.Sprintf("failed to write file %s", name), err)
	}

	s.logger.Info("file stored",
		zap.String("dir", s.dir),
		zap.String("name", name),
		zap.Int("size", len(up.Data)),
	)
	return name, nil
}

// Retrieve opens a stored file. The caller closes the returned reader.
func (s *Store) Retrieve(ctx context.Context, name string) (io.ReadCloser, int64, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, "", err
	}
	path, err := s.resolve(name)
	if err != nil {
		return nil, 0, "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, "", s.openError(name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, "", fmt.Errorf("stat %s: %w", name, err)
	}

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, 0, "", fmt.Errorf("detect content type of %s: %w", name, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, 0, "", fmt.Errorf("rewind %s: %w", name, err)
	}

	return f, info.Size(), mt.String(), nil
}

// Delete removes a stored file.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewError(domain.KindFileMissing, fmt.Sprintf("file %s does not exist", name))
		}
		return domain.WrapError(domain.KindFileDeleteFailed, fmt.Sprintf("failed to delete file %s", name), err)
	}

	s.logger.Info("file deleted", zap.String("dir", s.dir), zap.String("name", name))
	return nil
}

// Path returns the location of a stored file as clients see it.
func (s *Store) Path(name string) string {
	return s.dir + "/" + name
}

func (s *Store) resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", domain.NewValidationError(fmt.Sprintf("invalid file name %q", name))
	}
	return filepath.Join(s.dir, name), nil
}

func (s *Store) openError(name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewError(domain.KindFileMissing, fmt.Sprintf("file %s does not exist", name))
	}
	return fmt.Errorf("open %s: %w", name, err)
}

// detectContentType trusts the declared type and falls back to sniffing.
func detectContentType(up Upload) string {
	if up.ContentType != "" {
		if mt, _, err := mime.ParseMediaType(up.ContentType); err == nil {
			return strings.ToLower(mt)
		}
	}
	return mimetype.Detect(up.Data).String()
}
