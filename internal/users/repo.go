package users

import (
	"context"
	"strings"

	"github.com/angelmondragon/bookaro-backend/internal/repo"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
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

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	user.Email = NormalizeEmail(user.Email)
	return r.DB(ctx).Create(user).Error
}

// Save persists every column of an existing user.
func (r *Repository) Save(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Save(user).Error
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateColumns writes the given columns of one user and reports how many rows
// matched. A map is used so false and empty values are written too.
func (r *Repository) UpdateColumns(ctx context.Context, id int64, changes map[string]any) (int64, error) {
	res := r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Updates(changes)
	return res.RowsAffected, res.Error
}

// FindByID loads a user by id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// LockByID takes a row lock on the user for the rest of the transaction. It
// serializes per-user mutations such as default address changes.
func (r *Repository) LockByID(ctx context.Context, id int64) error {
	var user models.User
	return r.Locked(ctx).Select("id").First(&user, "id = ?", id).Error
}

// NormalizeEmail lowercases and trims an email used as principal.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
