// internal/domain/coupon/service.go
package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/apparel-storefront/internal/pkg/pagination"
	"gorm.io/gorm"
)

// Service handles coupon administration and validation
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
	now    func() time.Time
}

// NewService creates a new coupon service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// ListRequest represents coupon list query parameters
type ListRequest struct {
	Page     int    `form:"page,default=1"`
	Limit    int    `form:"limit,default=20"`
	IsActive *bool  `form:"isActive"`
	Search   string `form:"search"`
}

// ListResponse is one page of coupons
type ListResponse struct {
	Coupons    []Coupon        `json:"coupons"`
	Pagination pagination.Info `json:"pagination"`
}

// CreateRequest represents coupon creation data. ExpiresAt is YYYY-MM-DD.
type CreateRequest struct {
	Code        string `json:"code" binding:"required"`
	Type        Type   `json:"type" binding:"required,oneof=flat percentage"`
	Value       int64  `json:"value" binding:"required,gt=0"`
	MinOrder    int64  `json:"minOrder" binding:"min=0"`
	MaxDiscount int64  `json:"maxDiscount" binding:"min=0"`
	IsActive    *bool  `json:"isActive"`
	ExpiresAt   string `json:"expiresAt" binding:"required"`
}

// UpdateRequest represents a partial coupon update
type UpdateRequest struct {
	Type        *Type   `json:"type"`
	Value       *int64  `json:"value"`
	MinOrder    *int64  `json:"minOrder"`
	MaxDiscount *int64  `json:"maxDiscount"`
	IsActive    *bool   `json:"isActive"`
	ExpiresAt   *string `json:"expiresAt"`
}

// ValidateRequest asks whether a code applies to a subtotal
type ValidateRequest struct {
	Code     string `json:"code" binding:"required"`
	Subtotal int64  `json:"subtotal" binding:"min=0"`
}

// ValidationResult is the outcome of validating a code against a subtotal
type ValidationResult struct {
	Valid          bool    `json:"valid"`
	Coupon         *Coupon `json:"coupon,omitempty"`
	DiscountAmount int64   `json:"discountAmount"`
	Message        string  `json:"message"`
}

const dateLayout = "2006-01-02"

// List retrieves coupons with filtering and pagination
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	var coupons []Coupon
	var total int64

	req.Page, req.Limit = pagination.Normalize(req.Page, req.Limit)

	query := s.db.WithContext(ctx).Model(&Coupon{})
	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}
	if req.Search != "" {
		query = query.Where("code LIKE ?", "%"+NormalizeCode(req.Search)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count coupons: %w", err)
	}

	err := query.Order("created_at DESC").
		Offset(pagination.Offset(req.Page, req.Limit)).
		Limit(req.Limit).
		Find(&coupons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve coupons: %w", err)
	}

	return &ListResponse{
		Coupons:    coupons,
		Pagination: pagination.New(req.Page, req.Limit, total),
	}, nil
}

// Get retrieves a coupon by ID
func (s *Service) Get(ctx context.Context, id string) (*Coupon, error) {
	var c Coupon
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve coupon: %w", err)
	}
	return &c, nil
}

// FindByCode loads the coupons matching code, ignoring case.
// An unknown code yields an empty catalog rather than an error.
func (s *Service) FindByCode(ctx context.Context, code string) (Catalog, error) {
	var coupons []Coupon
	err := s.db.WithContext(ctx).
		Where("UPPER(code) = ?", strings.ToUpper(code)).
		Find(&coupons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}
	return Catalog(coupons), nil
}

// Validate checks a code against a subtotal without touching any cart
func (s *Service) Validate(ctx context.Context, req *ValidateRequest) (*ValidationResult, error) {
	catalog, err := s.FindByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	return Evaluate(catalog, req.Code, req.Subtotal, s.now()), nil
}

// Evaluate applies the coupon rules for code to subtotal
func Evaluate(catalog Catalog, code string, subtotal int64, now time.Time) *ValidationResult {
	c, ok := catalog.Lookup(code)
	if !ok {
		return &ValidationResult{Message: MsgInvalidCode}
	}

	if err := c.Check(subtotal, now); err != nil {
		return &ValidationResult{Message: err.Error()}
	}

	return &ValidationResult{
		Valid:          true,
		Coupon:         &c,
		DiscountAmount: c.DiscountFor(subtotal),
		Message:        MsgApplied,
	}
}

// Create creates a new coupon
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Coupon, error) {
	expiresAt, err := parseDate(req.ExpiresAt)
	if err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	c := &Coupon{
		Code:        NormalizeCode(req.Code),
		Type:        req.Type,
		Value:       req.Value,
		MinOrder:    req.MinOrder,
		MaxDiscount: req.MaxDiscount,
		IsActive:    isActive,
		ExpiresAt:   expiresAt,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&Coupon{}).Where("code = ?", c.Code).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check coupon code: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateCode
	}

	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"coupon_id": c.ID,
		"code":      c.Code,
	}).Info("Coupon created")

	return c, nil
}

// Update applies a partial update to a coupon
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Coupon, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		c.Type = *req.Type
	}
	if req.Value != nil {
		c.Value = *req.Value
	}
	if req.MinOrder != nil {
		c.MinOrder = *req.MinOrder
	}
	if req.MaxDiscount != nil {
		c.MaxDiscount = *req.MaxDiscount
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.ExpiresAt != nil {
		expiresAt, err := parseDate(*req.ExpiresAt)
		if err != nil {
			return nil, err
		}
		c.ExpiresAt = expiresAt
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}

	return c, nil
}

// Delete removes a coupon
func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Coupon{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expiresAt must be YYYY-MM-DD", ErrInvalidCoupon)
	}
	return t, nil
}
