// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/apparel-storefront/internal/domain/cart"
)

// CartService is the session cart behaviour the handler needs
type CartService interface {
	GetCart(ctx context.Context, sessionID string) (*cart.CartResponse, error)
	AddItem(ctx context.Context, sessionID string, req *cart.AddItemRequest) (*cart.CartResponse, error)
	UpdateItem(ctx context.Context, sessionID, productID, size string, quantity int) (*cart.CartResponse, error)
	RemoveItem(ctx context.Context, sessionID, productID, size string) (*cart.CartResponse, error)
	Clear(ctx context.Context, sessionID string) error
	Count(ctx context.Context, sessionID string) (int, error)
	ApplyCoupon(ctx context.Context, sessionID, code string) (*cart.CouponResponse, error)
	RemoveCoupon(ctx context.Context, sessionID string) (*cart.CartResponse, error)
}

// CartHandler handles cart endpoints
type CartHandler struct {
	carts      CartService
	sessionTTL time.Duration
	logger     *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts CartService, sessionTTL time.Duration, logger *logrus.Logger) *CartHandler {
	return &CartHandler{carts: carts, sessionTTL: sessionTTL, logger: logger}
}

func (h *CartHandler) session(c *gin.Context) string {
	return getOrCreateSessionID(c, h.sessionTTL)
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	resp, err := h.carts.GetCart(c.Request.Context(), h.session(c))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve cart")
		return
	}
	respond(c, http.StatusOK, resp, "")
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req cart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.carts.AddItem(c.Request.Context(), h.session(c), &req)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to add item to cart")
		return
	}
	respond(c, http.StatusOK, resp, "Item added to cart")
}

// UpdateCartItem handles PUT /cart/items/:productId/:size. A quantity below 1 removes the line.
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req cart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.carts.UpdateItem(c.Request.Context(), h.session(c), c.Param("productId"), c.Param("size"), *req.Quantity)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to update cart item")
		return
	}
	respond(c, http.StatusOK, resp, "Cart updated")
}

// RemoveFromCart handles DELETE /cart/items/:productId/:size
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	resp, err := h.carts.RemoveItem(c.Request.Context(), h.session(c), c.Param("productId"), c.Param("size"))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to remove cart item")
		return
	}
	respond(c, http.StatusOK, resp, "Item removed from cart")
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), h.session(c)); err != nil {
		respondDomainError(c, h.logger, err, "Failed to clear cart")
		return
	}
	respond(c, http.StatusOK, nil, "Cart cleared")
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	count, err := h.carts.Count(c.Request.Context(), h.session(c))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to count cart items")
		return
	}
	respond(c, http.StatusOK, gin.H{"count": count}, "")
}

// ApplyCoupon handles POST /cart/coupon. A rejected code is not an HTTP error;
// the body carries success false and the reason.
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	var req cart.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.carts.ApplyCoupon(c.Request.Context(), h.session(c), req.Code)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to apply coupon")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": resp.Success,
		"message": resp.Message,
		"data":    resp.Cart,
	})
}

// RemoveCoupon handles DELETE /cart/coupon
func (h *CartHandler) RemoveCoupon(c *gin.Context) {
	resp, err := h.carts.RemoveCoupon(c.Request.Context(), h.session(c))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to remove coupon")
		return
	}
	respond(c, http.StatusOK, resp, "Coupon removed")
}
