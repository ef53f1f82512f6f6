package reviews

import (
	"context"

	"github.com/angelmondragon/bookaro-backend/internal/repo"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists reviews.
type Repository struct {
	repo.Base
}

// NewRepository constructs a review repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Create inserts a review.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.DB(ctx).Omit("User").Create(review).Error
}

// Update writes changes to an existing review and reports how many rows
// matched. It never inserts, so a review deleted meanwhile stays deleted.
func (r *Repository) Update(ctx context.Context, id int64, changes map[string]any) (int64, error) {
	res := r.DB(ctx).Model(&models.Review{}).Where("id = ?", id).Updates(changes)
	return res.RowsAffected, res.Error
}

// Delete removes a review and reports how many rows were removed.
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.DB(ctx).Delete(&models.Review{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// FindByID loads a review with its author.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	if err := r.DB(ctx).Preload("User").First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ExistsForBooking reports whether the booking already has a review.
func (r *Repository) ExistsForBooking(ctx context.Context, bookingID int64) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Review{}).Where("booking_id = ?", bookingID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByService returns the reviews of a service, newest first.
func (r *Repository) ListByService(ctx context.Context, serviceID int64) ([]models.Review, error) {
	var rows []models.Review
	err := r.DB(ctx).
		Preload("User").
		Where("service_id = ?", serviceID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// ListByUser returns the reviews written by a user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.Review, error) {
	var rows []models.Review
	err := r.DB(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}
