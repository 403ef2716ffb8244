package postgres

import (
	"time"

	"github.com/your-org/apparel-storefront/internal/domain/content"
	"github.com/your-org/apparel-storefront/internal/domain/coupon"
	"github.com/your-org/apparel-storefront/internal/domain/product"
)

func price(v int64) *int64 { return &v }

func sizes(stock ...int) []product.SizeStock {
	labels := []string{"S", "M", "L", "XL"}
	out := make([]product.SizeStock, 0, len(stock))
	for i, n := range stock {
		out = append(out, product.SizeStock{Size: labels[i], Stock: n, SortOrder: i})
	}
	return out
}

// SeedProducts is the development catalogue
func SeedProducts() []product.Product {
	return []product.Product{
		{
			Name:          "Oversized Cotton Tee",
			Description:   "Premium heavyweight cotton oversized t-shirt with a relaxed fit. Perfect for everyday streetwear styling.",
			Price:         1499,
			OriginalPrice: price(1999),
			Category:      product.CategoryOversizeTShirts,
			Collection:    "Essentials",
			Images: []string{
				"https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800",
				"https://images.unsplash.com/photo-1583743814966-8936f5b7be1a?w=800",
			},
			Sizes:      sizes(5, 12, 8, 0),
			IsFeatured: true,
			IsNew:      true,
			IsActive:   true,
		},
		{
			Name:        "Minimal Logo Hoodie",
			Description: "Soft fleece hoodie with embroidered minimal logo. Features kangaroo pocket and adjustable hood.",
			Price:       2999,
			Category:    product.CategoryHoodies,
			Collection:  "Essentials",
			Images: []string{
				"https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=800",
				"https://images.unsplash.com/photo-1578768079052-aa76e52ff62e?w=800",
			},
			Sizes:      sizes(3, 7, 10, 4),
			IsFeatured: true,
			IsActive:   true,
		},
		{
			Name:        "Classic Pique Polo",
			Description: "Breathable cotton pique polo with a ribbed collar and two-button placket.",
			Price:       1899,
			Category:    product.CategoryCollarTShirts,
			Collection:  "Heritage",
			Images: []string{
				"https://images.unsplash.com/photo-1586363104862-3a5e2ab60d99?w=800",
			},
			Sizes:      sizes(6, 4, 0, 2),
			IsFeatured: true,
			IsNew:      true,
			IsActive:   true,
		},
		{
			Name:          "Vintage Wash Hoodie",
			Description:   "Garment-dyed hoodie with a vintage wash finish and dropped shoulders.",
			Price:         3499,
			OriginalPrice: price(3999),
			Category:      product.CategoryHoodies,
			Collection:    "Heritage",
			Images: []string{
				"https://images.unsplash.com/photo-1620799140408-edc6dcb6d633?w=800",
			},
			Sizes:    sizes(2, 5, 3, 1),
			IsActive: true,
		},
		{
			Name:        "Everyday Crew Tee",
			Description: "Regular fit crew neck tee in combed cotton. The one you reach for every morning.",
			Price:       999,
			Category:    product.CategoryNormalTShirts,
			Collection:  "Essentials",
			Images: []string{
				"https://images.unsplash.com/photo-1581655353564-df123a1eb820?w=800",
			},
			Sizes:    sizes(15, 15, 15, 10),
			IsNew:    true,
			IsActive: true,
		},
		{
			Name:        "Custom Name Print Tee",
			Description: "Your name or text printed on a heavyweight tee. Printed to order.",
			Price:       1299,
			Category:    product.CategoryCustomizedTShirts,
			Collection:  "Custom",
			Images: []string{
				"https://images.unsplash.com/photo-1572495532056-8583af1cbae0?w=800",
			},
			Sizes:      sizes(8, 10, 6, 0),
			IsFeatured: true,
			IsActive:   true,
		},
		{
			Name:        "Graphic Print Tee",
			Description: "Statement graphic t-shirt with bold back print. Made from 100% organic cotton.",
			Price:       1799,
			Category:    product.CategoryNormalTShirts,
			Collection:  "Street",
			Images: []string{
				"https://images.unsplash.com/photo-1503341504253-dff4815485f1?w=800",
				"https://images.unsplash.com/photo-1529374255404-311a2a4f1fd9?w=800",
			},
			Sizes:    sizes(4, 9, 7, 3),
			IsNew:    true,
			IsActive: true,
		},
		{
			Name:        "Custom Embroidered Hoodie",
			Description: "Heavy fleece hoodie with your initials embroidered on the chest.",
			Price:       7999,
			Category:    product.CategoryCustomizedHoodies,
			Collection:  "Custom",
			Images: []string{
				"https://images.unsplash.com/photo-1539533018447-63fcce2678e3?w=800",
			},
			Sizes:      sizes(2, 4, 3, 1),
			IsFeatured: true,
			IsActive:   true,
		},
	}
}

// SeedCoupons is the development coupon set. Expiry dates are relative to now so the
// active codes stay usable.
func SeedCoupons(now time.Time) []coupon.Coupon {
	endOfYear := time.Date(now.Year()+1, 12, 31, 0, 0, 0, 0, time.UTC)
	return []coupon.Coupon{
		{Code: "WELCOME10", Type: coupon.TypePercentage, Value: 10, MinOrder: 1000, MaxDiscount: 500, IsActive: true, ExpiresAt: endOfYear},
		{Code: "FLAT200", Type: coupon.TypeFlat, Value: 200, MinOrder: 1500, IsActive: true, ExpiresAt: endOfYear},
		{Code: "SUMMER25", Type: coupon.TypePercentage, Value: 25, MinOrder: 2000, MaxDiscount: 1000, IsActive: true, ExpiresAt: endOfYear},
		{Code: "EXPIRED", Type: coupon.TypeFlat, Value: 100, MinOrder: 500, IsActive: false, ExpiresAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
}

// SeedHomeContent builds the initial home page
func SeedHomeContent(featured, newArrivals []string) *content.HomeContent {
	home := content.Empty()
	home.HeroSlides = []content.HeroSlide{
		{ID: "hero-1", Title: "New Season Arrivals", Subtitle: "Discover the latest collection", Image: "https://images.unsplash.com/photo-1489987707025-afc232f7ea0f?w=1600", CTAText: "Shop now", CTALink: "/shop", IsActive: true, Order: 1},
		{ID: "hero-2", Title: "Summer Sale", Subtitle: "Up to 40% off selected items", Image: "https://images.unsplash.com/photo-1523398002811-999ca8dec234?w=1600", CTAText: "Shop the sale", CTALink: "/shop", IsActive: false, Order: 2},
	}
	if featured != nil {
		home.FeaturedProducts = featured
	}
	if newArrivals != nil {
		home.NewArrivals = newArrivals
	}
	home.USPBadges = []content.USPBadge{
		{Icon: "truck", Title: "Free Shipping", Description: "On orders above ₹2000"},
		{Icon: "refresh", Title: "Easy Returns", Description: "7 day return policy"},
		{Icon: "shield", Title: "Secure Payments", Description: "Cards, UPI and cash on delivery"},
	}
	return home
}
