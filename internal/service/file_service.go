package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxImageFileSize is the upload size cap per image file.
const maxImageFileSize = 10 << 20 // 10 MiB

var allowedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".webp": true,
}

var allowedImageMIMETypes = map[string]bool{
	"image/jpeg": true, "image/jpg": true, "image/png": true,
	"image/gif": true, "image/bmp": true, "image/webp": true,
}

// ValidationError reports a rejected upload (bad type, bad size, empty file).
// Callers aggregate these per file instead of aborting a batch.
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

// FileService persists and deletes uploaded image files on the local
// filesystem. Stored names are always freshly generated; client-supplied
// filenames are never trusted for storage.
type FileService struct{}

// NewFileService constructs a FileService.
func NewFileService() *FileService {
	return &FileService{}
}

// Save validates an uploaded file and writes it into dir under a generated
// name (uuid + original extension). Returns the stored file name.
func (s *FileService) Save(file *multipart.FileHeader, dir string) (string, error) {
	if file == nil || file.Size == 0 {
		return "", &ValidationError{message: "file is null or empty"}
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return "", &ValidationError{message: "invalid file type, only image files are allowed"}
	}
	contentType := strings.ToLower(file.Header.Get("Content-Type"))
	if !allowedImageMIMETypes[contentType] {
		return "", &ValidationError{message: fmt.Sprintf("invalid content type %q", contentType)}
	}
	if file.Size > maxImageFileSize {
		return "", &ValidationError{message: fmt.Sprintf("file size exceeds maximum limit of %dMB", maxImageFileSize/(1<<20))}
	}

	if err := s.EnsureDir(dir); err != nil {
		return "", err
	}

	storedName := uuid.New().String() + ext

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, storedName))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return storedName, nil
}

// SaveMany saves up to maxCount files best-effort, collecting one error per
// rejected file without losing already-saved ones.
func (s *FileService) SaveMany(files []*multipart.FileHeader, dir string, maxCount int) ([]string, []error) {
	var saved []string
	var errs []error

	for _, file := range files {
		if maxCount > 0 && len(saved) >= maxCount {
			errs = append(errs, &ValidationError{message: fmt.Sprintf("file count exceeds maximum of %d", maxCount)})
			break
		}
		name, err := s.Save(file, dir)
		if err != nil {
			errs = append(errs, fmt.Errorf("error saving file %s: %w", file.Filename, err))
			continue
		}
		saved = append(saved, name)
	}
	return saved, errs
}

// Delete removes a file, reporting whether a file was actually removed.
// A missing file returns false without an error; I/O failures are logged and
// also reported as false since deletion failures are non-fatal to callers.
func (s *FileService) Delete(path string) bool {
	err := os.Remove(path)
	if err == nil {
		return true
	}
	if !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("failed to delete file")
	}
	return false
}

// EnsureDir creates the directory if it does not exist.
func (s *FileService) EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
