// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/your-org/apparel-storefront/internal/config"
	"github.com/your-org/apparel-storefront/internal/domain/content"
	"github.com/your-org/apparel-storefront/internal/domain/coupon"
	"github.com/your-org/apparel-storefront/internal/domain/order"
	"github.com/your-org/apparel-storefront/internal/domain/product"
	"github.com/your-org/apparel-storefront/internal/domain/user"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	cfg    *config.Config
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Migration {
	return &Migration{db: db, cfg: cfg, logger: logger}
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&user.User{},

		&product.Product{},
		&product.SizeStock{},

		&coupon.Coupon{},

		&order.Order{},
		&order.OrderItem{},
		&order.OrderStatusHistory{},

		&content.HomeContent{},
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	for _, model := range Models() {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

var indexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",

	"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category, is_active)",
	"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured, is_active)",
	"CREATE INDEX IF NOT EXISTS idx_products_new ON products(is_new, is_active)",
	"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
	"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_products_name_lower ON products(LOWER(name))",
	"CREATE INDEX IF NOT EXISTS idx_product_sizes_low_stock ON product_sizes(stock) WHERE stock > 0",

	"CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code_upper ON coupons(UPPER(code))",
	"CREATE INDEX IF NOT EXISTS idx_coupons_active_expiry ON coupons(is_active, expires_at)",

	"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(order_status, created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_orders_payment_status ON orders(payment_status)",
	"CREATE INDEX IF NOT EXISTS idx_orders_customer_phone ON orders(customer_phone)",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_razorpay_order ON orders(razorpay_order_id) WHERE razorpay_order_id <> ''",
	"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",
}

// CreateIndexes creates additional indexes GORM tags cannot express
func (m *Migration) CreateIndexes() error {
	failed := 0
	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).WithField("sql", indexSQL).Warn("Failed to create index")
			failed++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": len(indexes) - failed,
		"failed":  failed,
	}).Info("Database indexes ensured")

	if failed > 0 {
		return fmt.Errorf("%d indexes could not be created", failed)
	}
	return nil
}

// SeedInitialData inserts development data. Each step is skipped when its table already has rows.
func (m *Migration) SeedInitialData(ctx context.Context) error {
	m.logger.Info("Seeding initial data")

	if err := m.seedAdminUser(ctx); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedProducts(ctx); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	if err := m.seedCoupons(ctx); err != nil {
		return fmt.Errorf("failed to seed coupons: %w", err)
	}
	if err := m.seedHomeContent(ctx); err != nil {
		return fmt.Errorf("failed to seed home content: %w", err)
	}

	m.logger.Info("Initial data seeded")
	return nil
}

func (m *Migration) seedAdminUser(ctx context.Context) error {
	users := user.NewService(user.NewGormRepository(m.db), m.cfg, m.logger)
	_, _, err := users.EnsureAdmin(ctx, m.cfg.Seed.AdminName, m.cfg.Seed.AdminEmail, m.cfg.Seed.AdminPassword)
	return err
}

func (m *Migration) isEmpty(ctx context.Context, model interface{}) (bool, error) {
	var count int64
	if err := m.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func (m *Migration) seedProducts(ctx context.Context) error {
	empty, err := m.isEmpty(ctx, &product.Product{})
	if err != nil || !empty {
		return err
	}

	products := SeedProducts()
	if err := m.db.WithContext(ctx).Create(&products).Error; err != nil {
		return err
	}

	m.logger.WithField("count", len(products)).Info("Seeded products")
	return nil
}

func (m *Migration) seedCoupons(ctx context.Context) error {
	empty, err := m.isEmpty(ctx, &coupon.Coupon{})
	if err != nil || !empty {
		return err
	}

	coupons := SeedCoupons(time.Now().UTC())
	if err := m.db.WithContext(ctx).Create(&coupons).Error; err != nil {
		return err
	}

	m.logger.WithField("count", len(coupons)).Info("Seeded coupons")
	return nil
}

func (m *Migration) seedHomeContent(ctx context.Context) error {
	empty, err := m.isEmpty(ctx, &content.HomeContent{})
	if err != nil || !empty {
		return err
	}

	var featured, arrivals []string
	var products []product.Product
	if err := m.db.WithContext(ctx).Order("created_at").Find(&products).Error; err != nil {
		return err
	}
	for _, p := range products {
		if p.IsFeatured {
			featured = append(featured, p.ID)
		}
		if p.IsNew {
			arrivals = append(arrivals, p.ID)
		}
	}

	home := SeedHomeContent(featured, arrivals)
	return m.db.WithContext(ctx).Create(home).Error
}

// GetTableInfo logs row counts per table
func (m *Migration) GetTableInfo(ctx context.Context) {
	for _, model := range Models() {
		var count int64
		if err := m.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
			m.logger.WithError(err).Warnf("Failed to count %T", model)
			continue
		}
		m.logger.Debugf("%T: %d rows", model, count)
	}
}
