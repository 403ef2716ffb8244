// internal/domain/upload/service.go
package upload

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/apparel-storefront/internal/config"
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Service stores product images on local disk
type Service struct {
	dir        string
	baseURL    string
	maxSize    int64
	extensions map[string]bool
	logger     *logrus.Logger
}

// NewService creates a new upload service
func NewService(cfg *config.Config, logger *logrus.Logger) *Service {
	extensions := make(map[string]bool, len(cfg.Upload.AllowedExtensions))
	for _, ext := range cfg.Upload.AllowedExtensions {
		extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return &Service{
		dir:        cfg.Upload.LocalPath,
		baseURL:    strings.TrimSuffix(cfg.Upload.PublicBaseURL, "/"),
		maxSize:    cfg.Upload.MaxSize,
		extensions: extensions,
		logger:     logger,
	}
}

// SaveImage validates and stores one uploaded image
func (s *Service) SaveImage(header *multipart.FileHeader) (*UploadedFile, error) {
	if header.Size > s.maxSize {
		return nil, fmt.Errorf("%w: %s exceeds %s", ErrFileTooLarge, FormatFileSize(header.Size), FormatFileSize(s.maxSize))
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if !s.extensions[ext] {
		return nil, fmt.Errorf("%w: .%s", ErrUnsupportedType, ext)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	return s.save(file, header.Filename, ext)
}

func (s *Service) save(r io.Reader, originalName, ext string) (*UploadedFile, error) {
	sniff := make([]byte, 512)
	n, err := io.ReadFull(r, sniff)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	sniff = sniff[:n]

	mimeType := http.DetectContentType(sniff)
	if !allowedMimeTypes[mimeType] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	filename := uuid.New().String() + "." + ext
	fullPath := filepath.Join(s.dir, filename)

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, io.LimitReader(io.MultiReader(bytes.NewReader(sniff), r), s.maxSize+1))
	if err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if size > s.maxSize {
		os.Remove(fullPath)
		return nil, ErrFileTooLarge
	}

	s.logger.WithFields(logrus.Fields{
		"filename": filename,
		"size":     size,
	}).Info("Image uploaded")

	return &UploadedFile{
		Filename:     filename,
		OriginalName: originalName,
		URL:          s.baseURL + "/" + filename,
		MimeType:     mimeType,
		Size:         size,
	}, nil
}

// Delete removes a stored image by filename
func (s *Service) Delete(filename string) error {
	if filename == "" || filename != path.Base(filename) || strings.HasPrefix(filename, ".") {
		return ErrInvalidFilename
	}
	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Dir is where images are stored, for serving them statically
func (s *Service) Dir() string {
	return s.dir
}
