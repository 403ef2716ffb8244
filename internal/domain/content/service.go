// internal/domain/content/service.go
package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidContent = errors.New("invalid home content")

// Service manages the home page document
type Service struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewService creates a new content service
func NewService(db *gorm.DB, logger *logrus.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Get returns the home page as shoppers see it
func (s *Service) Get(ctx context.Context) (*HomeContent, error) {
	home, err := s.load(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return home.Public(), nil
}

// Update partially updates the home page and returns the stored document
func (s *Service) Update(ctx context.Context, req *UpdateRequest, updatedBy string) (*HomeContent, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var home *HomeContent
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		home, err = s.load(ctx, tx)
		if err != nil {
			return err
		}
		home.Apply(req)
		home.UpdatedBy = updatedBy
		return tx.Save(home).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update home content: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"updated_by": updatedBy,
		"slides":     len(home.HeroSlides),
	}).Info("Home content updated")

	return home, nil
}

func (s *Service) load(ctx context.Context, db *gorm.DB) (*HomeContent, error) {
	var home HomeContent
	err := db.WithContext(ctx).Where("id = ?", HomeKey).First(&home).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Empty(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load home content: %w", err)
	}
	return &home, nil
}

func validate(req *UpdateRequest) error {
	if req.HeroSlides != nil {
		for i, slide := range *req.HeroSlides {
			if slide.Title == "" || slide.Image == "" {
				return fmt.Errorf("%w: slide %d needs a title and an image", ErrInvalidContent, i+1)
			}
		}
	}
	if req.USPBadges != nil {
		for i, badge := range *req.USPBadges {
			if badge.Title == "" {
				return fmt.Errorf("%w: badge %d needs a title", ErrInvalidContent, i+1)
			}
		}
	}
	return nil
}
