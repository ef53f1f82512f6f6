package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a bookable offering of a vendor. AverageRating and TotalReviews
// are derived from the service's reviews.
type Service struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	VendorID        int64           `gorm:"column:vendor_id;not null;index:services_vendor_id_idx"`
	Vendor          *Vendor         `gorm:"foreignKey:VendorID;references:ID"`
	Name            string          `gorm:"column:service_name;type:varchar(100);not null"`
	Description     *string         `gorm:"column:description;type:text"`
	Category        string          `gorm:"column:category;type:varchar(50);not null;index:services_category_idx"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	DurationMinutes *int            `gorm:"column:duration_minutes"`
	Address         *string         `gorm:"column:address;type:varchar(255)"`
	City            *string         `gorm:"column:city;type:varchar(100)"`
	State           *string         `gorm:"column:state;type:varchar(100)"`
	PostalCode      *string         `gorm:"column:postal_code;type:varchar(10)"`
	Latitude        *float64        `gorm:"column:latitude"`
	Longitude       *float64        `gorm:"column:longitude"`
	IsAvailable     bool            `gorm:"column:is_available;not null;default:true"`
	AverageRating   decimal.Decimal `gorm:"column:average_rating;type:numeric(3,2);not null;default:0"`
	TotalReviews    int             `gorm:"column:total_reviews;not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
