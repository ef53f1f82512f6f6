package addresses

import (
	"context"

	"github.com/angelmondragon/bookaro-backend/internal/repo"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists saved addresses.
type Repository struct {
	repo.Base
}

// NewRepository constructs an address repo bound to the provided GORM DB.
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

// FindOwned loads an address only when it belongs to userID.
func (r *Repository) FindOwned(ctx context.Context, userID, id int64) (*models.Address, error) {
	var address models.Address
	if err := r.DB(ctx).Where("id = ? AND user_id = ?", id, userID).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// ListByUser returns the default address first, then newest first.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.Address, error) {
	var rows []models.Address
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

// CountByUser returns how many addresses the user has saved.
func (r *Repository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Address{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Create inserts a new address.
func (r *Repository) Create(ctx context.Context, address *models.Address) error {
	return r.DB(ctx).Create(address).Error
}

// Save persists every column of an existing address.
func (r *Repository) Save(ctx context.Context, address *models.Address) error {
	return r.DB(ctx).Save(address).Error
}

// Delete removes an address.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.DB(ctx).Delete(&models.Address{}, "id = ?", id).Error
}

// ClearDefault unsets the default flag on every address of the user.
func (r *Repository) ClearDefault(ctx context.Context, userID int64) error {
	return r.DB(ctx).
		Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

// MarkDefault sets the default flag on a single address.
func (r *Repository) MarkDefault(ctx context.Context, id int64) error {
	return r.DB(ctx).
		Model(&models.Address{}).
		Where("id = ?", id).
		Update("is_default", true).Error
}

// LatestByUser returns the most recently created address of the user.
func (r *Repository) LatestByUser(ctx context.Context, userID int64) (*models.Address, error) {
	var address models.Address
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

// FindDefault returns the user's default address.
func (r *Repository) FindDefault(ctx context.Context, userID int64) (*models.Address, error) {
	var address models.Address
	if err := r.DB(ctx).Where("user_id = ? AND is_default = ?", userID, true).First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}
