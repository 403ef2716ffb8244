// internal/interfaces/http/handlers/content.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/apparel-storefront/internal/domain/content"
)

// ContentService is the home page content behaviour the handler needs
type ContentService interface {
	Get(ctx context.Context) (*content.HomeContent, error)
	Update(ctx context.Context, req *content.UpdateRequest, updatedBy string) (*content.HomeContent, error)
}

// ContentHandler handles home page content endpoints
type ContentHandler struct {
	content ContentService
	logger  *logrus.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(svc ContentService, logger *logrus.Logger) *ContentHandler {
	return &ContentHandler{content: svc, logger: logger}
}

// GetHomeContent handles GET /home-content
func (h *ContentHandler) GetHomeContent(c *gin.Context) {
	home, err := h.content.Get(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve home content")
		return
	}
	respond(c, http.StatusOK, home, "")
}

// UpdateHomeContent handles PUT /home-content/admin
func (h *ContentHandler) UpdateHomeContent(c *gin.Context) {
	var req content.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	home, err := h.content.Update(c.Request.Context(), &req, adminIdentity(c))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to update home content")
		return
	}
	respond(c, http.StatusOK, home, "Home content updated")
}
