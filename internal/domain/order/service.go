// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/apparel-storefront/internal/config"
	"github.com/your-org/apparel-storefront/internal/domain/cart"
	"github.com/your-org/apparel-storefront/internal/domain/coupon"
	"github.com/your-org/apparel-storefront/internal/domain/product"
	"github.com/your-org/apparel-storefront/internal/pkg/metrics"
	"github.com/your-org/apparel-storefront/internal/pkg/pagination"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrEmptyOrder           = errors.New("order has no items")
	ErrInvalidCustomer      = errors.New("customer name, phone and address are required")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrCouponRejected       = errors.New("coupon rejected")
)

// CartSource gives access to session carts for checkout
type CartSource interface {
	Engine(ctx context.Context, sessionID string, lookup cart.CouponLookup) (*cart.Cart, *cart.SessionCart, error)
	Options() []cart.Option
	Clear(ctx context.Context, sessionID string) error
}

// ProductReader loads active catalogue products by ID
type ProductReader interface {
	GetMany(ctx context.Context, ids []string) ([]product.Product, error)
}

// CouponFinder loads the coupons matching a code
type CouponFinder interface {
	FindByCode(ctx context.Context, code string) (coupon.Catalog, error)
}

// Service handles order business logic
type Service struct {
	db       *gorm.DB
	repo     Repository
	config   *config.Config
	logger   *logrus.Logger
	products ProductReader
	carts    CartSource
	coupons  CouponFinder
	invoices InvoiceSequencer
	events   EventPublisher
	now      func() time.Time
}

// NewService creates a new order service
func NewService(
	db *gorm.DB,
	cfg *config.Config,
	logger *logrus.Logger,
	products ProductReader,
	carts CartSource,
	coupons CouponFinder,
	invoices InvoiceSequencer,
	events EventPublisher,
) *Service {
	return &Service{
		db:       db,
		repo:     NewGormRepository(db),
		config:   cfg,
		logger:   logger,
		products: products,
		carts:    carts,
		coupons:  coupons,
		invoices: invoices,
		events:   events,
		now:      time.Now,
	}
}

// ItemInput is one requested order line. Price is accepted for
// compatibility but the catalogue price is always charged.
type ItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Price     int64  `json:"price"`
}

// CreateOrderInput represents an order placed with explicit items
type CreateOrderInput struct {
	Customer      Customer      `json:"customer" binding:"required"`
	Items         []ItemInput   `json:"items" binding:"required,min=1,dive"`
	PaymentMethod PaymentMethod `json:"paymentMethod" binding:"required"`
	CouponCode    string        `json:"couponCode"`
}

// CheckoutInput represents an order placed from the session cart
type CheckoutInput struct {
	Customer      Customer      `json:"customer" binding:"required"`
	PaymentMethod PaymentMethod `json:"paymentMethod" binding:"required"`
}

// ListRequest represents order list query parameters
type ListRequest struct {
	Page          int           `form:"page,default=1"`
	Limit         int           `form:"limit,default=20"`
	OrderStatus   OrderStatus   `form:"orderStatus"`
	PaymentStatus PaymentStatus `form:"paymentStatus"`
	Search        string        `form:"search"`
	StartDate     string        `form:"startDate"`
	EndDate       string        `form:"endDate"`
	SortBy        string        `form:"sortBy,default=createdAt"`
	SortOrder     string        `form:"sortOrder,default=desc"`
}

// ListResponse is one page of orders
type ListResponse struct {
	Orders     []Order         `json:"orders"`
	Pagination pagination.Info `json:"pagination"`
}

// UpdateStatusRequest changes the fulfilment status
type UpdateStatusRequest struct {
	OrderStatus OrderStatus `json:"orderStatus" binding:"required"`
	Comment     string      `json:"comment"`
}

// CancelRequest carries an optional cancellation reason
type CancelRequest struct {
	Reason string `json:"reason"`
}

// Stats summarises orders for the admin dashboard
type Stats struct {
	TotalOrders   int64 `json:"totalOrders"`
	TotalRevenue  int64 `json:"totalRevenue"`
	PendingOrders int64 `json:"pendingOrders"`
	TodayOrders   int64 `json:"todayOrders"`
}

// Create places an order for explicit items, pricing them from the catalogue
func (s *Service) Create(ctx context.Context, input *CreateOrderInput) (*Order, error) {
	if err := validateRequest(input.Customer, input.PaymentMethod); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]string, 0, len(input.Items))
	for _, it := range input.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.loadProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	lookup, err := s.couponCatalog(ctx, input.CouponCode)
	if err != nil {
		return nil, err
	}

	engine, err := priceItems(products, input.Items, lookup, s.carts.Options()...)
	if err != nil {
		return nil, err
	}
	if err := applyCoupon(engine, input.CouponCode); err != nil {
		return nil, err
	}

	return s.place(ctx, engine, input.Customer, input.PaymentMethod)
}

// Checkout places an order from the session cart at current catalogue
// prices, re-applying the cart's coupon, and clears the cart on success.
func (s *Service) Checkout(ctx context.Context, sessionID string, input *CheckoutInput) (*Order, error) {
	sessionCart, _, err := s.carts.Engine(ctx, sessionID, nil)
	if err != nil {
		return nil, err
	}

	items := make([]ItemInput, 0)
	for _, l := range sessionCart.Lines() {
		items = append(items, ItemInput{ProductID: l.Product.ID, Size: l.Size, Quantity: l.Quantity})
	}

	var code string
	if applied, ok := sessionCart.AppliedCoupon(); ok {
		code = applied.Code
	}

	o, err := s.Create(ctx, &CreateOrderInput{
		Customer:      input.Customer,
		Items:         items,
		PaymentMethod: input.PaymentMethod,
		CouponCode:    code,
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logger.WithError(err).WithField("session_id", sessionID).Warn("Failed to clear cart after checkout")
	}

	return o, nil
}

func (s *Service) place(ctx context.Context, engine *cart.Cart, customer Customer, method PaymentMethod) (*Order, error) {
	now := s.now()
	seq, err := s.invoices.Next(ctx, now.Year())
	if err != nil {
		return nil, err
	}

	o := buildOrder(engine, customer, method)
	o.InvoiceNumber = FormatInvoiceNumber(s.config.Store.InvoicePrefix, now.Year(), seq)

	if err := s.repo.Place(ctx, o); err != nil {
		return nil, err
	}

	metrics.OrdersPlaced.WithLabelValues(string(o.PaymentMethod)).Inc()
	metrics.OrderRevenue.Add(float64(o.TotalAmount))

	s.logger.WithFields(logrus.Fields{
		"order_id":       o.ID,
		"invoice_number": o.InvoiceNumber,
		"payment_method": o.PaymentMethod,
		"total_amount":   o.TotalAmount,
		"coupon_code":    o.CouponCode,
	}).Info("Order placed")

	s.publish(ctx, o.ID, EventOrderPlaced, newPlacedEvent(o))

	return o, nil
}

// List retrieves orders with filtering and pagination
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	var orders []Order
	var total int64

	req.Page, req.Limit = pagination.Normalize(req.Page, req.Limit)

	query := s.db.WithContext(ctx).Model(&Order{})

	if req.OrderStatus != "" {
		query = query.Where("order_status = ?", req.OrderStatus)
	}

	if req.PaymentStatus != "" {
		query = query.Where("payment_status = ?", req.PaymentStatus)
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(invoice_number) LIKE ? OR LOWER(customer_name) LIKE ? OR customer_phone LIKE ?", search, search, search)
	}

	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		query = query.Where("created_at >= ?", start)
	}

	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		query = query.Where("created_at < ?", end.AddDate(0, 0, 1))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	err := query.
		Preload("Items").
		Order(buildOrderClause(req.SortBy, req.SortOrder)).
		Offset(pagination.Offset(req.Page, req.Limit)).
		Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	return &ListResponse{
		Orders:     orders,
		Pagination: pagination.New(req.Page, req.Limit, total),
	}, nil
}

// Get retrieves a single order by ID
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	return s.findOne(ctx, "id = ?", id)
}

// GetByInvoice retrieves a single order by invoice number
func (s *Service) GetByInvoice(ctx context.Context, invoiceNumber string) (*Order, error) {
	return s.findOne(ctx, "invoice_number = ?", invoiceNumber)
}

// GetByRazorpayOrder retrieves the order linked to a Razorpay order
func (s *Service) GetByRazorpayOrder(ctx context.Context, razorpayOrderID string) (*Order, error) {
	return s.findOne(ctx, "razorpay_order_id = ?", razorpayOrderID)
}

func (s *Service) findOne(ctx context.Context, cond string, arg any) (*Order, error) {
	var o Order
	result := s.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where(cond, arg).
		First(&o)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}

	return &o, nil
}

// UpdateStatus moves an order along its fulfilment path
func (s *Service) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest, changedBy string) (*Order, error) {
	if req.OrderStatus == OrderStatusCancelled {
		return s.Cancel(ctx, id, req.Comment, changedBy)
	}

	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !o.CanTransitionTo(req.OrderStatus) {
		return nil, fmt.Errorf("%w from %s to %s", ErrInvalidTransition, o.OrderStatus, req.OrderStatus)
	}

	from := o.OrderStatus
	updates := map[string]interface{}{"order_status": req.OrderStatus}
	// cash is collected on delivery
	if req.OrderStatus == OrderStatusDelivered && o.PaymentMethod == PaymentMethodCOD {
		updates["payment_status"] = PaymentStatusPaid
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(o).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return tx.Create(&OrderStatusHistory{
			OrderID:   o.ID,
			Status:    req.OrderStatus,
			Comment:   req.Comment,
			ChangedBy: changedBy,
			CreatedAt: time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, updated.ID, EventOrderStatusChanged, newStatusChangedEvent(updated, from))
	return updated, nil
}

// Cancel cancels an order and returns its items to stock
func (s *Service) Cancel(ctx context.Context, id, reason, cancelledBy string) (*Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !o.CanBeCancelled() {
		return nil, fmt.Errorf("%w: order cannot be cancelled in status %s", ErrInvalidTransition, o.OrderStatus)
	}

	comment := "Order cancelled"
	if reason != "" {
		comment = fmt.Sprintf("Order cancelled: %s", reason)
	}

	from := o.OrderStatus
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range o.Items {
			if err := product.RestoreStock(tx, it.ProductID, it.Size, it.Quantity); err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}
		if err := tx.Model(o).Update("order_status", OrderStatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return tx.Create(&OrderStatusHistory{
			OrderID:   o.ID,
			Status:    OrderStatusCancelled,
			Comment:   comment,
			ChangedBy: cancelledBy,
			CreatedAt: time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, updated.ID, EventOrderStatusChanged, newStatusChangedEvent(updated, from))
	return updated, nil
}

// Stats returns dashboard counters. Revenue excludes cancelled orders.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	db := s.db.WithContext(ctx).Model(&Order{})

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	err := db.Session(&gorm.Session{}).
		Where("order_status <> ?", OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	if err := db.Session(&gorm.Session{}).Where("order_status = ?", OrderStatusPlaced).Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Session(&gorm.Session{}).Where("created_at >= ?", startOfDay).Count(&stats.TodayOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's orders: %w", err)
	}

	return &stats, nil
}

// AttachRazorpayOrder records the gateway order created for payment
func (s *Service) AttachRazorpayOrder(ctx context.Context, id, razorpayOrderID string) error {
	return s.db.WithContext(ctx).Model(&Order{}).
		Where("id = ?", id).
		Update("razorpay_order_id", razorpayOrderID).Error
}

// MarkPaid records a verified online payment and confirms the order
func (s *Service) MarkPaid(ctx context.Context, id, razorpayOrderID, razorpayPaymentID string) (*Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := o.OrderStatus
	updates := map[string]interface{}{
		"payment_status":      PaymentStatusPaid,
		"razorpay_order_id":   razorpayOrderID,
		"razorpay_payment_id": razorpayPaymentID,
	}
	confirm := o.OrderStatus == OrderStatusPlaced
	if confirm {
		updates["order_status"] = OrderStatusConfirmed
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(o).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}
		if !confirm {
			return nil
		}
		return tx.Create(&OrderStatusHistory{
			OrderID:   o.ID,
			Status:    OrderStatusConfirmed,
			Comment:   "Payment received",
			ChangedBy: "razorpay",
			CreatedAt: time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, updated.ID, EventOrderStatusChanged, newStatusChangedEvent(updated, from))
	return updated, nil
}

// MarkPaymentFailed records a failed online payment
func (s *Service) MarkPaymentFailed(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND payment_status <> ?", id, PaymentStatusPaid).
		Update("payment_status", PaymentStatusFailed).Error
}

// Private helper methods

// loadProducts indexes the active products among ids. Missing or inactive
// products are left out and rejected by priceItems.
func (s *Service) loadProducts(ctx context.Context, ids []string) (map[string]*product.Product, error) {
	found, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	byID := make(map[string]*product.Product, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}
	return byID, nil
}

func (s *Service) couponCatalog(ctx context.Context, code string) (cart.CouponLookup, error) {
	if code == "" {
		return nil, nil
	}
	catalog, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

func (s *Service) publish(ctx context.Context, key, eventType string, event any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, key, event); err != nil {
		metrics.EventPublishFailures.WithLabelValues(eventType).Inc()
		s.logger.WithError(err).WithFields(logrus.Fields{
			"order_id": key,
			"event":    eventType,
		}).Error("Failed to publish order event")
	}
}

func validateRequest(c Customer, method PaymentMethod) error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" || strings.TrimSpace(c.Address) == "" {
		return ErrInvalidCustomer
	}
	if !method.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}
	return nil
}

// priceItems builds a pricing engine from catalogue products
func priceItems(products map[string]*product.Product, items []ItemInput, lookup cart.CouponLookup, opts ...cart.Option) (*cart.Cart, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	engine := cart.New(lookup, opts...)
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok || !p.IsActive {
			return nil, fmt.Errorf("%w: %s", product.ErrProductNotFound, it.ProductID)
		}
		entry, ok := p.Size(it.Size)
		if !ok {
			return nil, fmt.Errorf("%w: %s size %s", product.ErrSizeNotFound, p.Name, it.Size)
		}
		if err := engine.AddLine(cart.RefFromProduct(p), it.Size, it.Quantity); err != nil {
			return nil, err
		}
		if requested := quantityFor(engine, it.ProductID, it.Size); requested > entry.Stock {
			return nil, fmt.Errorf("%w for %s size %s. Available: %d", product.ErrInsufficientStock, p.Name, it.Size, entry.Stock)
		}
	}
	return engine, nil
}

func applyCoupon(engine *cart.Cart, code string) error {
	if code == "" {
		return nil
	}
	if res := engine.ApplyCoupon(code); !res.Success {
		return &coupon.RuleError{Err: ErrCouponRejected, Message: res.Message}
	}
	return nil
}

// buildOrder snapshots the engine's lines and totals into an order
func buildOrder(engine *cart.Cart, customer Customer, method PaymentMethod) *Order {
	totals := engine.Totals()

	o := &Order{
		Customer: Customer{
			Name:    strings.TrimSpace(customer.Name),
			Phone:   strings.TrimSpace(customer.Phone),
			Address: strings.TrimSpace(customer.Address),
		},
		Subtotal:      totals.SubTotal,
		Discount:      totals.DiscountAmount,
		Shipping:      totals.ShippingCost,
		TotalAmount:   totals.GrandTotal,
		PaymentMethod: method,
		PaymentStatus: PaymentStatusPending,
		OrderStatus:   OrderStatusPlaced,
	}

	if applied, ok := engine.AppliedCoupon(); ok {
		o.CouponCode = applied.Code
	}

	for _, l := range engine.Lines() {
		o.Items = append(o.Items, OrderItem{
			ProductID:  l.Product.ID,
			Name:       l.Product.Name,
			Size:       l.Size,
			Quantity:   l.Quantity,
			Price:      l.Product.Price,
			TotalPrice: l.LineTotal(),
		})
	}

	o.AddStatusHistory(OrderStatusPlaced, "Order placed", "customer")
	return o
}

func quantityFor(engine *cart.Cart, productID, size string) int {
	for _, l := range engine.Lines() {
		if l.Product.ID == productID && l.Size == size {
			return l.Quantity
		}
	}
	return 0
}

func buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]string{
		"createdAt":   "created_at",
		"totalAmount": "total_amount",
	}

	field, ok := validSortFields[sortBy]
	if !ok {
		field = "created_at"
	}

	order := "DESC"
	if strings.ToLower(sortOrder) == "asc" {
		order = "ASC"
	}

	return fmt.Sprintf("%s %s", field, order)
}
