// internal/interfaces/http/handlers/product.go
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/apparel-storefront/internal/domain/product"
)

// ProductService is the catalogue behaviour the handler needs
type ProductService interface {
	List(ctx context.Context, req *product.ListRequest) (*product.ListResponse, error)
	Get(ctx context.Context, id string) (*product.Product, error)
	CheckStock(ctx context.Context, id, size string) (*product.StockCheckResult, error)
	Create(ctx context.Context, req *product.CreateRequest) (*product.Product, error)
	Update(ctx context.Context, id string, req *product.UpdateRequest) (*product.Product, error)
	Delete(ctx context.Context, id string) error
	SetStock(ctx context.Context, id, size string, quantity int) (*product.Product, error)
	LowStock(ctx context.Context, threshold int) ([]product.LowStockItem, error)
}

// ProductHandler handles catalogue endpoints
type ProductHandler struct {
	products          ProductService
	lowStockThreshold int
	logger            *logrus.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(products ProductService, lowStockThreshold int, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{products: products, lowStockThreshold: lowStockThreshold, logger: logger}
}

// SetStockRequest sets the stock of one size
type SetStockRequest struct {
	Size  string `json:"size" binding:"required"`
	Stock *int   `json:"stock" binding:"required,min=0"`
}

// GetProducts handles GET /products. Inactive products are hidden.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req product.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	active := true
	req.IsActive = &active

	h.list(c, &req)
}

// AdminGetProducts handles GET /admin/products
func (h *ProductHandler) AdminGetProducts(c *gin.Context) {
	var req product.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}
	h.list(c, &req)
}

func (h *ProductHandler) list(c *gin.Context, req *product.ListRequest) {
	resp, err := h.products.List(c.Request.Context(), req)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve products")
		return
	}
	respondPage(c, resp.Products, resp.Pagination)
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve product")
		return
	}
	if !p.IsActive {
		respondError(c, http.StatusNotFound, product.ErrProductNotFound.Error())
		return
	}
	respond(c, http.StatusOK, p, "")
}

// CheckStock handles GET /products/:id/stock?size=M
func (h *ProductHandler) CheckStock(c *gin.Context) {
	size := c.Query("size")
	if size == "" {
		respondError(c, http.StatusBadRequest, "size is required")
		return
	}

	result, err := h.products.CheckStock(c.Request.Context(), c.Param("id"), size)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to check stock")
		return
	}
	respond(c, http.StatusOK, result, "")
}

// GetCategories handles GET /products/categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	respond(c, http.StatusOK, product.Categories, "")
}

// AdminCreateProduct handles POST /admin/products
func (h *ProductHandler) AdminCreateProduct(c *gin.Context) {
	var req product.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.products.Create(c.Request.Context(), &req)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to create product")
		return
	}
	respond(c, http.StatusCreated, p, "Product created successfully")
}

// AdminGetProduct handles GET /admin/products/:id
func (h *ProductHandler) AdminGetProduct(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve product")
		return
	}
	respond(c, http.StatusOK, p, "")
}

// AdminUpdateProduct handles PUT /admin/products/:id
func (h *ProductHandler) AdminUpdateProduct(c *gin.Context) {
	var req product.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.products.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to update product")
		return
	}
	respond(c, http.StatusOK, p, "Product updated successfully")
}

// AdminDeleteProduct handles DELETE /admin/products/:id
func (h *ProductHandler) AdminDeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondDomainError(c, h.logger, err, "Failed to delete product")
		return
	}
	respond(c, http.StatusOK, nil, "Product deleted successfully")
}

// AdminUpdateStock handles PUT /admin/products/:id/stock
func (h *ProductHandler) AdminUpdateStock(c *gin.Context) {
	var req SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	p, err := h.products.SetStock(c.Request.Context(), c.Param("id"), req.Size, *req.Stock)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to update stock")
		return
	}
	respond(c, http.StatusOK, p, "Stock updated successfully")
}

// AdminLowStock handles GET /admin/products/low-stock?threshold=3
func (h *ProductHandler) AdminLowStock(c *gin.Context) {
	threshold := h.lowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(c, http.StatusBadRequest, "threshold must be a non-negative integer")
			return
		}
		threshold = parsed
	}

	items, err := h.products.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve low stock report")
		return
	}
	respond(c, http.StatusOK, items, "")
}
