// internal/interfaces/http/handlers/coupon.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/apparel-storefront/internal/domain/coupon"
)

// CouponService is the coupon behaviour the handler needs
type CouponService interface {
	List(ctx context.Context, req *coupon.ListRequest) (*coupon.ListResponse, error)
	Get(ctx context.Context, id string) (*coupon.Coupon, error)
	Validate(ctx context.Context, req *coupon.ValidateRequest) (*coupon.ValidationResult, error)
	Create(ctx context.Context, req *coupon.CreateRequest) (*coupon.Coupon, error)
	Update(ctx context.Context, id string, req *coupon.UpdateRequest) (*coupon.Coupon, error)
	Delete(ctx context.Context, id string) error
}

// CouponHandler handles coupon endpoints
type CouponHandler struct {
	coupons CouponService
	logger  *logrus.Logger
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(coupons CouponService, logger *logrus.Logger) *CouponHandler {
	return &CouponHandler{coupons: coupons, logger: logger}
}

// ValidateCoupon handles POST /coupons/validate
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req coupon.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.coupons.Validate(c.Request.Context(), &req)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to validate coupon")
		return
	}

	respond(c, http.StatusOK, result, result.Message)
}

// AdminGetCoupons handles GET /admin/coupons
func (h *CouponHandler) AdminGetCoupons(c *gin.Context) {
	var req coupon.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.coupons.List(c.Request.Context(), &req)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve coupons")
		return
	}
	respondPage(c, resp.Coupons, resp.Pagination)
}

// AdminGetCoupon handles GET /admin/coupons/:id
func (h *CouponHandler) AdminGetCoupon(c *gin.Context) {
	cp, err := h.coupons.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve coupon")
		return
	}
	respond(c, http.StatusOK, cp, "")
}

// AdminCreateCoupon handles POST /admin/coupons
func (h *CouponHandler) AdminCreateCoupon(c *gin.Context) {
	var req coupon.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cp, err := h.coupons.Create(c.Request.Context(), &req)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to create coupon")
		return
	}
	respond(c, http.StatusCreated, cp, "Coupon created successfully")
}

// AdminUpdateCoupon handles PUT /admin/coupons/:id
func (h *CouponHandler) AdminUpdateCoupon(c *gin.Context) {
	var req coupon.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	cp, err := h.coupons.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to update coupon")
		return
	}
	respond(c, http.StatusOK, cp, "Coupon updated successfully")
}

// AdminDeleteCoupon handles DELETE /admin/coupons/:id
func (h *CouponHandler) AdminDeleteCoupon(c *gin.Context) {
	if err := h.coupons.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondDomainError(c, h.logger, err, "Failed to delete coupon")
		return
	}
	respond(c, http.StatusOK, nil, "Coupon deleted successfully")
}
