// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/apparel-storefront/internal/domain/upload"
)

const maxFilesPerUpload = 10

// ImageStore is the upload behaviour the handler needs
type ImageStore interface {
	SaveImage(header *multipart.FileHeader) (*upload.UploadedFile, error)
	Delete(filename string) error
}

// UploadHandler handles admin image uploads
type UploadHandler struct {
	images ImageStore
	logger *logrus.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(images ImageStore, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{images: images, logger: logger}
}

// UploadImage handles POST /admin/uploads/image with form field "image"
func (h *UploadHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}

	file, err := h.images.SaveImage(header)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to upload image")
		return
	}
	respond(c, http.StatusCreated, file, "Image uploaded successfully")
}

// UploadImages handles POST /admin/uploads/images with form field "images"
func (h *UploadHandler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to parse upload form")
		return
	}

	headers := form.File["images"]
	switch {
	case len(headers) == 0:
		respondError(c, http.StatusBadRequest, "No image files provided")
		return
	case len(headers) > maxFilesPerUpload:
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Too many files. Maximum %d files allowed", maxFilesPerUpload))
		return
	}

	uploaded := make([]*upload.UploadedFile, 0, len(headers))
	for _, header := range headers {
		file, err := h.images.SaveImage(header)
		if err != nil {
			for _, done := range uploaded {
				if delErr := h.images.Delete(done.Filename); delErr != nil {
					h.logger.WithError(delErr).WithField("filename", done.Filename).Warn("Failed to roll back upload")
				}
			}
			respondDomainError(c, h.logger, err, "Failed to upload images")
			return
		}
		uploaded = append(uploaded, file)
	}

	respond(c, http.StatusCreated, uploaded, "Images uploaded successfully")
}

// DeleteImage handles DELETE /admin/uploads/:filename
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	if err := h.images.Delete(c.Param("filename")); err != nil {
		respondDomainError(c, h.logger, err, "Failed to delete image")
		return
	}
	respond(c, http.StatusOK, nil, "Image deleted successfully")
}
