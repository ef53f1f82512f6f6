package models

import (
	"time"

	"github.com/angelmondragon/bookaro-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID           int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Email        string         `gorm:"column:email;type:varchar(100);not null;uniqueIndex:users_email_key"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FullName     string         `gorm:"column:full_name;type:varchar(100);not null"`
	Phone        string         `gorm:"column:phone;type:varchar(20);not null;default:''"`
	Address      *string        `gorm:"column:address;type:varchar(255)"`
	City         *string        `gorm:"column:city;type:varchar(100)"`
	State        *string        `gorm:"column:state;type:varchar(100)"`
	ZipCode      *string        `gorm:"column:zip_code;type:varchar(10)"`
	Latitude     *float64       `gorm:"column:latitude"`
	Longitude    *float64       `gorm:"column:longitude"`
	Role         enums.UserRole `gorm:"column:role;type:varchar(20);not null;default:'CUSTOMER'"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
