// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/apparel-storefront/internal/config"
	"github.com/your-org/apparel-storefront/internal/domain/coupon"
	"github.com/your-org/apparel-storefront/internal/domain/product"
	"github.com/your-org/apparel-storefront/internal/pkg/metrics"
)

var ErrProductUnavailable = errors.New("product not found or inactive")

// ProductReader loads catalogue products
type ProductReader interface {
	Get(ctx context.Context, id string) (*product.Product, error)
}

// CouponFinder loads the coupons matching a code
type CouponFinder interface {
	FindByCode(ctx context.Context, code string) (coupon.Catalog, error)
}

// Service is the session cart controller. Each call restores the session's
// engine from the store, applies one operation and saves it back.
type Service struct {
	store    Store
	products ProductReader
	coupons  CouponFinder
	config   *config.Config
	logger   *logrus.Logger
	now      func() time.Time
}

// NewService creates a new cart service
func NewService(store Store, products ProductReader, coupons CouponFinder, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		store:    store,
		products: products,
		coupons:  coupons,
		config:   cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// AddItemRequest represents add to cart request. A missing quantity adds one unit.
type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"omitempty,min=1"`
}

// Units is the requested quantity, defaulting to 1
func (r *AddItemRequest) Units() int {
	if r.Quantity == nil {
		return 1
	}
	return *r.Quantity
}

// UpdateItemRequest represents update cart item request
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// ApplyCouponRequest carries a coupon code
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// CartResponse represents a shopping cart with lines and totals
type CartResponse struct {
	SessionID string         `json:"sessionId"`
	Items     []Line         `json:"items"`
	Coupon    *coupon.Coupon `json:"coupon,omitempty"`
	Totals    CartTotals     `json:"totals"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// CouponResponse is the coupon outcome together with the resulting cart
type CouponResponse struct {
	CouponResult
	Cart *CartResponse `json:"cart"`
}

// Engine restores the pricing engine for a session, resolving coupon codes
// through lookup.
func (s *Service) Engine(ctx context.Context, sessionID string, lookup CouponLookup) (*Cart, *SessionCart, error) {
	sc, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return Restore(sc.State, lookup, s.Options()...), sc, nil
}

// Options returns the engine options derived from store configuration
func (s *Service) Options() []Option {
	return []Option{
		WithShipping(ShippingPolicy{
			FreeThreshold: s.config.Store.FreeShippingThreshold,
			Fee:           s.config.Store.ShippingFee,
		}),
		WithClock(s.now),
	}
}

// GetCart returns the current cart for a session
func (s *Service) GetCart(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, sc, err := s.Engine(ctx, sessionID, nil)
	if err != nil {
		return nil, err
	}
	return buildResponse(sessionID, c, sc.UpdatedAt), nil
}

// AddItem adds units of a product size after checking availability
func (s *Service) AddItem(ctx context.Context, sessionID string, req *AddItemRequest) (*CartResponse, error) {
	quantity := req.Units()
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	prod, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, ErrProductUnavailable
		}
		return nil, err
	}
	if !prod.IsActive {
		return nil, ErrProductUnavailable
	}

	entry, ok := prod.Size(req.Size)
	if !ok {
		return nil, product.ErrSizeNotFound
	}

	c, sc, err := s.Engine(ctx, sessionID, nil)
	if err != nil {
		return nil, err
	}

	inCart := quantityOf(c, req.ProductID, req.Size)
	if inCart+quantity > entry.Stock {
		return nil, fmt.Errorf("%w. Available: %d", product.ErrInsufficientStock, entry.Stock-inCart)
	}

	if err := c.AddLine(RefFromProduct(prod), req.Size, quantity); err != nil {
		return nil, err
	}

	return s.save(ctx, sc, c)
}

// UpdateItem sets a line's quantity; below one removes it
func (s *Service) UpdateItem(ctx context.Context, sessionID, productID, size string, quantity int) (*CartResponse, error) {
	if quantity > 0 {
		prod, err := s.products.Get(ctx, productID)
		if err != nil {
			return nil, err
		}
		if entry, ok := prod.Size(size); ok && quantity > entry.Stock {
			return nil, fmt.Errorf("%w. Available: %d", product.ErrInsufficientStock, entry.Stock)
		}
	}

	c, sc, err := s.Engine(ctx, sessionID, nil)
	if err != nil {
		return nil, err
	}

	c.UpdateQuantity(productID, size, quantity)
	return s.save(ctx, sc, c)
}

// RemoveItem removes a line
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID, size string) (*CartResponse, error) {
	c, sc, err := s.Engine(ctx, sessionID, nil)
	if err != nil {
		return nil, err
	}

	c.RemoveLine(productID, size)
	return s.save(ctx, sc, c)
}

// Clear removes all lines and the coupon
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

// Count returns the number of units in the cart
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	c, _, err := s.Engine(ctx, sessionID, nil)
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// ApplyCoupon applies a coupon code to the session cart
func (s *Service) ApplyCoupon(ctx context.Context, sessionID, code string) (*CouponResponse, error) {
	catalog, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	c, sc, err := s.Engine(ctx, sessionID, catalog)
	if err != nil {
		return nil, err
	}

	result := c.ApplyCoupon(code)
	metrics.CouponApplications.WithLabelValues(metrics.Outcome(result.Success)).Inc()

	if !result.Success {
		s.logger.WithFields(logrus.Fields{
			"session_id": sessionID,
			"code":       code,
			"reason":     result.Message,
		}).Info("Coupon rejected")
		return &CouponResponse{CouponResult: result, Cart: buildResponse(sessionID, c, sc.UpdatedAt)}, nil
	}

	resp, err := s.save(ctx, sc, c)
	if err != nil {
		return nil, err
	}
	return &CouponResponse{CouponResult: result, Cart: resp}, nil
}

// RemoveCoupon drops the applied coupon
func (s *Service) RemoveCoupon(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, sc, err := s.Engine(ctx, sessionID, nil)
	if err != nil {
		return nil, err
	}

	c.RemoveCoupon()
	return s.save(ctx, sc, c)
}

func (s *Service) save(ctx context.Context, sc *SessionCart, c *Cart) (*CartResponse, error) {
	sc.State = c.State()
	if err := s.store.Save(ctx, sc); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return buildResponse(sc.SessionID, c, sc.UpdatedAt), nil
}

func buildResponse(sessionID string, c *Cart, updatedAt time.Time) *CartResponse {
	resp := &CartResponse{
		SessionID: sessionID,
		Items:     c.Lines(),
		Totals:    c.Totals(),
		UpdatedAt: updatedAt,
	}
	if applied, ok := c.AppliedCoupon(); ok {
		resp.Coupon = &applied
	}
	return resp
}

func quantityOf(c *Cart, productID, size string) int {
	for _, l := range c.Lines() {
		if l.matches(productID, size) {
			return l.Quantity
		}
	}
	return 0
}
