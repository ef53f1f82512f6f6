package models

import (
	"time"

	"github.com/angelmondragon/bookaro-backend/pkg/enums"
)

// Address is a saved location of a user. At most one per user is the default.
type Address struct {
	ID           int64             `gorm:"column:id;primaryKey;autoIncrement"`
	UserID       int64             `gorm:"column:user_id;not null;index:addresses_user_id_idx"`
	AddressType  enums.AddressType `gorm:"column:address_type;type:varchar(20);not null;default:'HOME'"`
	AddressLine1 string            `gorm:"column:address_line1;type:varchar(255);not null"`
	AddressLine2 *string           `gorm:"column:address_line2;type:varchar(255)"`
	City         string            `gorm:"column:city;type:varchar(100);not null"`
	State        string            `gorm:"column:state;type:varchar(100);not null"`
	PostalCode   string            `gorm:"column:postal_code;type:varchar(10);not null"`
	Landmark     *string           `gorm:"column:landmark;type:varchar(255)"`
	Latitude     *float64          `gorm:"column:latitude"`
	Longitude    *float64          `gorm:"column:longitude"`
	IsDefault    bool              `gorm:"column:is_default;not null;default:false"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
