// internal/domain/product/entity.go
package product

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category slugs used by the storefront navigation
const (
	CategoryNormalTShirts     = "normal-tshirts"
	CategoryOversizeTShirts   = "oversize-tshirts"
	CategoryCollarTShirts     = "collar-tshirts"
	CategoryHoodies           = "hoodies"
	CategoryCustomizedTShirts = "customized-tshirts"
	CategoryCustomizedHoodies = "customized-hoodies"
)

// Categories lists every known category slug in menu order
var Categories = []string{
	CategoryNormalTShirts,
	CategoryOversizeTShirts,
	CategoryCollarTShirts,
	CategoryHoodies,
	CategoryCustomizedTShirts,
	CategoryCustomizedHoodies,
}

// Product represents a catalogue item. Prices are whole rupees.
type Product struct {
	ID            string         `gorm:"primaryKey;type:uuid" json:"id"`
	Name          string         `gorm:"not null;size:255" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Price         int64          `gorm:"not null" json:"price"`
	OriginalPrice *int64         `json:"originalPrice,omitempty"`
	Category      string         `gorm:"not null;size:100;index" json:"category"`
	Collection    string         `gorm:"size:100" json:"collection,omitempty"`
	Images        []string       `gorm:"serializer:json;type:jsonb" json:"images"`
	IsFeatured    bool           `gorm:"default:false" json:"featured"`
	IsNew         bool           `gorm:"default:false" json:"isNew"`
	IsActive      bool           `gorm:"default:true" json:"isActive"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sizes []SizeStock `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"sizes"`
}

// SizeStock is the stock count of one size label of a product
type SizeStock struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ProductID string `gorm:"type:uuid;not null;uniqueIndex:idx_product_size" json:"-"`
	Size      string `gorm:"not null;size:20;uniqueIndex:idx_product_size" json:"size"`
	Stock     int    `gorm:"not null;default:0" json:"stock"`
	SortOrder int    `gorm:"default:0" json:"-"`
}

// TableName overrides
func (Product) TableName() string   { return "products" }
func (SizeStock) TableName() string { return "product_sizes" }

// BeforeCreate assigns a UUID when none is set
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// Size returns the stock entry for a size label
func (p *Product) Size(label string) (SizeStock, bool) {
	for _, s := range p.Sizes {
		if s.Size == label {
			return s, true
		}
	}
	return SizeStock{}, false
}

// TotalStock sums stock across all sizes
func (p *Product) TotalStock() int {
	total := 0
	for _, s := range p.Sizes {
		total += s.Stock
	}
	return total
}

// IsInStock reports whether any size has stock left
func (p *Product) IsInStock() bool {
	return p.TotalStock() > 0
}

// PrimaryImage returns the first image or an empty string
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// GetDiscountPercentage is the whole-percent markdown from OriginalPrice
func (p *Product) GetDiscountPercentage() int {
	if p.OriginalPrice != nil && *p.OriginalPrice > 0 && p.Price < *p.OriginalPrice {
		return int(((*p.OriginalPrice - p.Price) * 100) / *p.OriginalPrice)
	}
	return 0
}

// MarshalJSON adds the derived stock and markdown fields the storefront shows
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		TotalStock         int  `json:"totalStock"`
		InStock            bool `json:"inStock"`
		DiscountPercentage int  `json:"discountPercentage"`
	}{
		plain:              plain(p),
		TotalStock:         p.TotalStock(),
		InStock:            p.IsInStock(),
		DiscountPercentage: p.GetDiscountPercentage(),
	})
}

// IsKnownCategory reports whether slug is one of the storefront categories
func IsKnownCategory(slug string) bool {
	for _, c := range Categories {
		if strings.EqualFold(c, slug) {
			return true
		}
	}
	return false
}
