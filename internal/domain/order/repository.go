package order

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/your-org/apparel-storefront/internal/domain/product"
)

// Repository persists newly placed orders
type Repository interface {
	Place(ctx context.Context, o *Order) error
}

// GormRepository is the Postgres-backed Repository
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// Place stores o and takes its items out of stock in one transaction
func (r *GormRepository) Place(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for _, it := range o.Items {
			if err := product.DecrementStock(tx, it.ProductID, it.Size, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
}
