// internal/interfaces/http/handlers/response.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/apparel-storefront/internal/domain/cart"
	"github.com/your-org/apparel-storefront/internal/domain/content"
	"github.com/your-org/apparel-storefront/internal/domain/coupon"
	"github.com/your-org/apparel-storefront/internal/domain/order"
	"github.com/your-org/apparel-storefront/internal/domain/payment"
	"github.com/your-org/apparel-storefront/internal/domain/product"
	"github.com/your-org/apparel-storefront/internal/domain/upload"
	"github.com/your-org/apparel-storefront/internal/domain/user"
	"github.com/your-org/apparel-storefront/internal/pkg/auth"
	"github.com/your-org/apparel-storefront/internal/pkg/pagination"
)

func respond(c *gin.Context, status int, data interface{}, message string) {
	body := gin.H{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

func respondPage(c *gin.Context, data interface{}, page pagination.Info) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": page,
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}

var errorStatus = []struct {
	err    error
	status int
}{
	{product.ErrProductNotFound, http.StatusNotFound},
	{product.ErrSizeNotFound, http.StatusBadRequest},
	{product.ErrInsufficientStock, http.StatusConflict},
	{product.ErrInvalidProduct, http.StatusBadRequest},
	{cart.ErrInvalidQuantity, http.StatusBadRequest},
	{cart.ErrProductUnavailable, http.StatusNotFound},
	{coupon.ErrNotFound, http.StatusNotFound},
	{coupon.ErrDuplicateCode, http.StatusConflict},
	{coupon.ErrInvalidCoupon, http.StatusBadRequest},
	{order.ErrOrderNotFound, http.StatusNotFound},
	{order.ErrEmptyOrder, http.StatusBadRequest},
	{order.ErrInvalidCustomer, http.StatusBadRequest},
	{order.ErrInvalidPaymentMethod, http.StatusBadRequest},
	{order.ErrInvalidTransition, http.StatusConflict},
	{order.ErrCouponRejected, http.StatusBadRequest},
	{payment.ErrNotOnlinePayment, http.StatusBadRequest},
	{payment.ErrAlreadyPaid, http.StatusConflict},
	{payment.ErrInvalidAmount, http.StatusBadRequest},
	{payment.ErrInvalidSignature, http.StatusBadRequest},
	{payment.ErrOrderMismatch, http.StatusBadRequest},
	{content.ErrInvalidContent, http.StatusBadRequest},
	{user.ErrInvalidCredentials, http.StatusUnauthorized},
	{user.ErrAccountDisabled, http.StatusForbidden},
	{user.ErrUserNotFound, http.StatusNotFound},
	{auth.ErrWeakPassword, http.StatusBadRequest},
	{upload.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{upload.ErrUnsupportedType, http.StatusBadRequest},
	{upload.ErrInvalidFilename, http.StatusBadRequest},
	{upload.ErrFileNotFound, http.StatusNotFound},
}

// statusFor maps a domain error to its HTTP status
func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondDomainError writes err with the matching status. Unknown errors are
// logged and hidden behind fallback.
func respondDomainError(c *gin.Context, logger *logrus.Logger, err error, fallback string) {
	var ruleErr *coupon.RuleError
	if errors.As(err, &ruleErr) {
		respondError(c, http.StatusBadRequest, ruleErr.Message)
		return
	}

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error(fallback)
		respondError(c, status, fallback)
		return
	}
	respondError(c, status, err.Error())
}
