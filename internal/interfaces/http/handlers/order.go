// internal/interfaces/http/handlers/order.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/apparel-storefront/internal/domain/order"
)

// OrderService is the order behaviour the handler needs
type OrderService interface {
	Create(ctx context.Context, input *order.CreateOrderInput) (*order.Order, error)
	Checkout(ctx context.Context, sessionID string, input *order.CheckoutInput) (*order.Order, error)
	List(ctx context.Context, req *order.ListRequest) (*order.ListResponse, error)
	Get(ctx context.Context, id string) (*order.Order, error)
	GetByInvoice(ctx context.Context, invoiceNumber string) (*order.Order, error)
	UpdateStatus(ctx context.Context, id string, req *order.UpdateStatusRequest, changedBy string) (*order.Order, error)
	Cancel(ctx context.Context, id, reason, cancelledBy string) (*order.Order, error)
	Stats(ctx context.Context) (*order.Stats, error)
}

// OrderHandler handles order endpoints
type OrderHandler struct {
	orders     OrderService
	sessionTTL time.Duration
	logger     *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders OrderService, sessionTTL time.Duration, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, sessionTTL: sessionTTL, logger: logger}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	o, err := h.orders.Create(c.Request.Context(), &req)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to place order")
		return
	}
	respond(c, http.StatusCreated, o, "Order placed successfully")
}

// Checkout handles POST /checkout, placing an order from the session cart
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req order.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	sessionID := getOrCreateSessionID(c, h.sessionTTL)
	o, err := h.orders.Checkout(c.Request.Context(), sessionID, &req)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to place order")
		return
	}
	respond(c, http.StatusCreated, o, "Order placed successfully")
}

// GetOrderByInvoice handles GET /orders/invoice/:invoiceNumber
func (h *OrderHandler) GetOrderByInvoice(c *gin.Context) {
	o, err := h.orders.GetByInvoice(c.Request.Context(), c.Param("invoiceNumber"))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve order")
		return
	}
	respond(c, http.StatusOK, o, "")
}

// AdminGetOrders handles GET /admin/orders
func (h *OrderHandler) AdminGetOrders(c *gin.Context) {
	var req order.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.orders.List(c.Request.Context(), &req)
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve orders")
		return
	}
	respondPage(c, resp.Orders, resp.Pagination)
}

// AdminGetOrder handles GET /admin/orders/:id
func (h *OrderHandler) AdminGetOrder(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve order")
		return
	}
	respond(c, http.StatusOK, o, "")
}

// AdminUpdateOrderStatus handles PUT /admin/orders/:id/status
func (h *OrderHandler) AdminUpdateOrderStatus(c *gin.Context) {
	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	o, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), &req, adminIdentity(c))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to update order status")
		return
	}
	respond(c, http.StatusOK, o, "Order status updated")
}

// AdminCancelOrder handles POST /admin/orders/:id/cancel. The body is optional.
func (h *OrderHandler) AdminCancelOrder(c *gin.Context) {
	var req order.CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	o, err := h.orders.Cancel(c.Request.Context(), c.Param("id"), req.Reason, adminIdentity(c))
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to cancel order")
		return
	}
	respond(c, http.StatusOK, o, "Order cancelled")
}

// AdminGetOrderStats handles GET /admin/orders/stats
func (h *OrderHandler) AdminGetOrderStats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		respondDomainError(c, h.logger, err, "Failed to retrieve order stats")
		return
	}
	respond(c, http.StatusOK, stats, "")
}
