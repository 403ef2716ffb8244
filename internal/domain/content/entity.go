// internal/domain/content/entity.go
package content

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// HomeKey identifies the single home page document
const HomeKey = "home"

// HeroSlide is one banner of the home page carousel
type HeroSlide struct {
	ID       string `json:"_id"`
	Title    string `json:"title" binding:"required"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    string `json:"image" binding:"required"`
	CTAText  string `json:"ctaText,omitempty"`
	CTALink  string `json:"ctaLink,omitempty"`
	IsActive bool   `json:"isActive"`
	Order    int    `json:"order"`
}

// USPBadge is a selling point shown under the hero
type USPBadge struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HomeContent is the editable home page
type HomeContent struct {
	ID               string      `gorm:"primaryKey;size:50" json:"_id"`
	HeroSlides       []HeroSlide `gorm:"serializer:json;type:jsonb" json:"heroSlides"`
	FeaturedProducts []string    `gorm:"serializer:json;type:jsonb" json:"featuredProducts"`
	NewArrivals      []string    `gorm:"serializer:json;type:jsonb" json:"newArrivals"`
	USPBadges        []USPBadge  `gorm:"serializer:json;type:jsonb" json:"uspBadges"`
	UpdatedBy        string      `gorm:"size:100" json:"-"`
	CreatedAt        time.Time   `json:"-"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

func (HomeContent) TableName() string { return "home_content" }

// Empty returns a blank home page
func Empty() *HomeContent {
	return &HomeContent{
		ID:               HomeKey,
		HeroSlides:       []HeroSlide{},
		FeaturedProducts: []string{},
		NewArrivals:      []string{},
		USPBadges:        []USPBadge{},
	}
}

// Public drops inactive slides and orders the rest
func (h *HomeContent) Public() *HomeContent {
	out := *h
	out.HeroSlides = make([]HeroSlide, 0, len(h.HeroSlides))
	for _, s := range h.HeroSlides {
		if s.IsActive {
			out.HeroSlides = append(out.HeroSlides, s)
		}
	}
	sort.SliceStable(out.HeroSlides, func(i, j int) bool {
		return out.HeroSlides[i].Order < out.HeroSlides[j].Order
	})
	return &out
}

// UpdateRequest is a partial update; nil fields are left untouched
type UpdateRequest struct {
	HeroSlides       *[]HeroSlide `json:"heroSlides"`
	FeaturedProducts *[]string    `json:"featuredProducts"`
	NewArrivals      *[]string    `json:"newArrivals"`
	USPBadges        *[]USPBadge  `json:"uspBadges"`
}

// Apply merges req into h, assigning ids to new slides
func (h *HomeContent) Apply(req *UpdateRequest) {
	if req.HeroSlides != nil {
		slides := make([]HeroSlide, len(*req.HeroSlides))
		copy(slides, *req.HeroSlides)
		for i := range slides {
			if slides[i].ID == "" {
				slides[i].ID = uuid.New().String()
			}
		}
		h.HeroSlides = slides
	}
	if req.FeaturedProducts != nil {
		h.FeaturedProducts = dedupe(*req.FeaturedProducts)
	}
	if req.NewArrivals != nil {
		h.NewArrivals = dedupe(*req.NewArrivals)
	}
	if req.USPBadges != nil {
		h.USPBadges = append([]USPBadge{}, *req.USPBadges...)
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
