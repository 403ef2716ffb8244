// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/apparel-storefront/internal/config"
	"github.com/your-org/apparel-storefront/internal/pkg/pagination"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrSizeNotFound      = errors.New("size not available for product")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidProduct    = errors.New("invalid product")
)

// Service handles catalogue business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// ListRequest represents product list query parameters
type ListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
	Category  string `form:"category"`
	Search    string `form:"search"`
	IsActive  *bool  `form:"isActive"`
	Featured  *bool  `form:"featured"`
	IsNew     *bool  `form:"isNew"`
	SortBy    string `form:"sortBy,default=createdAt"`
	SortOrder string `form:"sortOrder,default=desc"`
}

// ListResponse is one page of products
type ListResponse struct {
	Products   []Product       `json:"products"`
	Pagination pagination.Info `json:"pagination"`
}

// SizeInput describes the stock of one size on create or update
type SizeInput struct {
	Size  string `json:"size" binding:"required"`
	Stock int    `json:"stock" binding:"min=0"`
}

// CreateRequest represents product creation data
type CreateRequest struct {
	Name          string      `json:"name" binding:"required"`
	Description   string      `json:"description"`
	Price         int64       `json:"price" binding:"required,gt=0"`
	OriginalPrice *int64      `json:"originalPrice"`
	Category      string      `json:"category" binding:"required"`
	Collection    string      `json:"collection"`
	Images        []string    `json:"images"`
	Sizes         []SizeInput `json:"sizes" binding:"required,min=1,dive"`
	Featured      bool        `json:"featured"`
	IsNew         bool        `json:"isNew"`
	IsActive      *bool       `json:"isActive"`
}

// UpdateRequest represents a partial product update
type UpdateRequest struct {
	Name          *string     `json:"name"`
	Description   *string     `json:"description"`
	Price         *int64      `json:"price"`
	OriginalPrice *int64      `json:"originalPrice"`
	Category      *string     `json:"category"`
	Collection    *string     `json:"collection"`
	Images        []string    `json:"images"`
	Sizes         []SizeInput `json:"sizes" binding:"omitempty,dive"`
	Featured      *bool       `json:"featured"`
	IsNew         *bool       `json:"isNew"`
	IsActive      *bool       `json:"isActive"`
}

// StockCheckResult reports availability of one size
type StockCheckResult struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Available int    `json:"available"`
	InStock   bool   `json:"inStock"`
}

// LowStockItem is a size whose stock is at or below the threshold
type LowStockItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Stock     int    `json:"stock"`
}

// List retrieves products with filtering and pagination
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	var products []Product
	var total int64

	req.Page, req.Limit = pagination.Normalize(req.Page, req.Limit)

	query := s.db.WithContext(ctx).Model(&Product{})

	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(collection) LIKE ?", search, search, search)
	}

	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	if req.Featured != nil {
		query = query.Where("is_featured = ?", *req.Featured)
	}

	if req.IsNew != nil {
		query = query.Where("is_new = ?", *req.IsNew)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	err := query.
		Preload("Sizes", orderSizes).
		Order(buildOrderClause(req.SortBy, req.SortOrder)).
		Offset(pagination.Offset(req.Page, req.Limit)).
		Limit(req.Limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return &ListResponse{
		Products:   products,
		Pagination: pagination.New(req.Page, req.Limit, total),
	}, nil
}

// Get retrieves a single product by ID
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	var product Product
	result := s.db.WithContext(ctx).
		Preload("Sizes", orderSizes).
		Where("id = ?", id).
		First(&product)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	return &product, nil
}

// GetMany retrieves active products by ID, keeping the order of ids
func (s *Service) GetMany(ctx context.Context, ids []string) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	var found []Product
	err := s.db.WithContext(ctx).
		Preload("Sizes", orderSizes).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	byID := make(map[string]Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	products := make([]Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

// CheckStock reports the stock available for one size
func (s *Service) CheckStock(ctx context.Context, id, size string) (*StockCheckResult, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entry, ok := product.Size(size)
	if !ok {
		return nil, ErrSizeNotFound
	}

	return &StockCheckResult{
		ProductID: product.ID,
		Size:      entry.Size,
		Available: entry.Stock,
		InStock:   entry.Stock > 0,
	}, nil
}

// Create creates a new product with its size stock
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Product, error) {
	if err := validateSizes(req.Sizes); err != nil {
		return nil, err
	}
	if req.OriginalPrice != nil && *req.OriginalPrice < 0 {
		return nil, fmt.Errorf("%w: original price cannot be negative", ErrInvalidProduct)
	}
	if !IsKnownCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, req.Category)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	product := &Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Category:      req.Category,
		Collection:    req.Collection,
		Images:        nonNilImages(req.Images),
		IsFeatured:    req.Featured,
		IsNew:         req.IsNew,
		IsActive:      isActive,
		Sizes:         toSizeStock(req.Sizes),
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"category":   product.Category,
	}).Info("Product created")

	return product, nil
}

// Update applies a partial update. Sizes, when present, replace the existing set.
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Sizes != nil {
		if err := validateSizes(req.Sizes); err != nil {
			return nil, err
		}
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("%w: price must be positive", ErrInvalidProduct)
		}
		product.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = req.OriginalPrice
	}
	if req.Category != nil {
		if !IsKnownCategory(*req.Category) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, *req.Category)
		}
		product.Category = *req.Category
	}
	if req.Collection != nil {
		product.Collection = *req.Collection
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Featured != nil {
		product.IsFeatured = *req.Featured
	}
	if req.IsNew != nil {
		product.IsNew = *req.IsNew
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Sizes").Save(product).Error; err != nil {
			return err
		}
		if req.Sizes == nil {
			return nil
		}
		if err := tx.Where("product_id = ?", product.ID).Delete(&SizeStock{}).Error; err != nil {
			return err
		}
		sizes := toSizeStock(req.Sizes)
		for i := range sizes {
			sizes[i].ProductID = product.ID
		}
		return tx.Create(&sizes).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete soft-deletes a product
func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SetStock overwrites the stock of one size
func (s *Service) SetStock(ctx context.Context, id, size string, quantity int) (*Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrInvalidProduct)
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := product.Size(size); !ok {
		return nil, ErrSizeNotFound
	}

	err = s.db.WithContext(ctx).Model(&SizeStock{}).
		Where("product_id = ? AND size = ?", id, size).
		Update("stock", quantity).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	if quantity <= s.config.Store.LowStockThreshold {
		s.logger.WithFields(logrus.Fields{
			"product_id": id,
			"size":       size,
			"stock":      quantity,
		}).Warn("Low stock")
	}

	return s.Get(ctx, id)
}

// LowStock lists active product sizes at or below the threshold
func (s *Service) LowStock(ctx context.Context, threshold int) ([]LowStockItem, error) {
	if threshold <= 0 {
		threshold = s.config.Store.LowStockThreshold
	}

	var items []LowStockItem
	err := s.db.WithContext(ctx).
		Table("product_sizes AS ps").
		Select("p.id AS product_id, p.name, ps.size, ps.stock").
		Joins("JOIN products p ON p.id = ps.product_id").
		Where("p.deleted_at IS NULL AND p.is_active = ? AND ps.stock <= ?", true, threshold).
		Order("ps.stock ASC, p.name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve low stock report: %w", err)
	}

	return items, nil
}

// DecrementStock removes quantity units of a size inside tx.
// The update only matches when enough stock is left.
func DecrementStock(tx *gorm.DB, productID, size string, quantity int) error {
	result := tx.Model(&SizeStock{}).
		Where("product_id = ? AND size = ? AND stock >= ?", productID, size, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to reserve stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w for product %s size %s", ErrInsufficientStock, productID, size)
	}
	return nil
}

// RestoreStock returns quantity units of a size inside tx
func RestoreStock(tx *gorm.DB, productID, size string, quantity int) error {
	return tx.Model(&SizeStock{}).
		Where("product_id = ? AND size = ?", productID, size).
		Update("stock", gorm.Expr("stock + ?", quantity)).Error
}

// Private helper methods

func orderSizes(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

func validateSizes(sizes []SizeInput) error {
	if len(sizes) == 0 {
		return fmt.Errorf("%w: at least one size is required", ErrInvalidProduct)
	}

	seen := make(map[string]bool, len(sizes))
	for _, s := range sizes {
		label := strings.TrimSpace(s.Size)
		if label == "" {
			return fmt.Errorf("%w: size label cannot be empty", ErrInvalidProduct)
		}
		if seen[label] {
			return fmt.Errorf("%w: duplicate size %q", ErrInvalidProduct, label)
		}
		if s.Stock < 0 {
			return fmt.Errorf("%w: stock for size %q cannot be negative", ErrInvalidProduct, label)
		}
		seen[label] = true
	}
	return nil
}

func toSizeStock(sizes []SizeInput) []SizeStock {
	out := make([]SizeStock, len(sizes))
	for i, s := range sizes {
		out[i] = SizeStock{
			Size:      strings.TrimSpace(s.Size),
			Stock:     s.Stock,
			SortOrder: i,
		}
	}
	return out
}

func nonNilImages(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}

func buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]string{
		"name":      "name",
		"price":     "price",
		"createdAt": "created_at",
	}

	field, exists := validSortFields[sortBy]
	if !exists {
		field = "created_at"
	}

	order := "DESC"
	if strings.ToLower(sortOrder) == "asc" {
		order = "ASC"
	}

	return fmt.Sprintf("%s %s", field, order)
}
