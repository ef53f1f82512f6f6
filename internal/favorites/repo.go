package favorites

import (
	"context"

	"github.com/angelmondragon/bookaro-backend/internal/repo"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository encapsulates favorite persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a favorites repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Add inserts the user-service pair. Duplicates surface as unique violations.
func (r *Repository) Add(ctx context.Context, userID, serviceID int64) (*models.Favorite, error) {
	favorite := &models.Favorite{UserID: userID, ServiceID: serviceID}
	if err := r.DB(ctx).Omit("Service").Create(favorite).Error; err != nil {
		return nil, err
	}
	return favorite, nil
}

// Remove deletes the pair if it exists.
func (r *Repository) Remove(ctx context.Context, userID, serviceID int64) error {
	return r.DB(ctx).
		Where("user_id = ? AND service_id = ?", userID, serviceID).
		Delete(&models.Favorite{}).
		Error
}

// Exists reports whether the user has favorited the service.
func (r *Repository) Exists(ctx context.Context, userID, serviceID int64) (bool, error) {
	var count int64
	if err := r.DB(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND service_id = ?", userID, serviceID).
		Count(&count).
		Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns the user's favorites with their services, most recent first.
func (r *Repository) List(ctx context.Context, userID int64) ([]models.Favorite, error) {
	var rows []models.Favorite
	err := r.DB(ctx).
		Preload("Service").
		Preload("Service.Vendor").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}
