package users

import (
	"time"

	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        int64          `json:"id"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name"`
	Phone     string         `json:"phone"`
	Address   *string        `json:"address,omitempty"`
	City      *string        `json:"city,omitempty"`
	State     *string        `json:"state,omitempty"`
	ZipCode   *string        `json:"zip_code,omitempty"`
	Latitude  *float64       `json:"latitude,omitempty"`
	Longitude *float64       `json:"longitude,omitempty"`
	Role      enums.UserRole `json:"role"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
}

// FromModel maps a user row to its transport shape.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Address:   u.Address,
		City:      u.City,
		State:     u.State,
		ZipCode:   u.ZipCode,
		Latitude:  u.Latitude,
		Longitude: u.Longitude,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// ProfileUpdate carries the editable profile fields. Nil leaves a field
// untouched; an empty string clears an optional one.
type ProfileUpdate struct {
	FullName  *string  `json:"full_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone     *string  `json:"phone,omitempty" validate:"omitempty,numeric,len=10"`
	Address   *string  `json:"address,omitempty" validate:"omitempty,max=200"`
	City      *string  `json:"city,omitempty" validate:"omitempty,max=50"`
	State     *string  `json:"state,omitempty" validate:"omitempty,max=50"`
	ZipCode   *string  `json:"zip_code,omitempty" validate:"omitempty,numeric,len=6"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

// ChangePasswordRequest replaces the password after checking the current one.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}
