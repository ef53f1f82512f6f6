package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor is a business offering services. OwnerUserID links the account that operates it.
type Vendor struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OwnerUserID       int64           `gorm:"column:owner_user_id;not null;index:vendors_owner_user_id_idx"`
	VendorCode        *string         `gorm:"column:vendor_code;type:varchar(20);uniqueIndex:vendors_vendor_code_key"`
	BusinessName      string          `gorm:"column:business_name;type:varchar(200);not null"`
	PrimaryCategory   string          `gorm:"column:primary_category;type:varchar(100);not null"`
	ContactPerson     *string         `gorm:"column:contact_person;type:varchar(100)"`
	Phone             string          `gorm:"column:phone;type:varchar(20);not null;default:''"`
	Email             *string         `gorm:"column:email;type:varchar(100)"`
	Location          string          `gorm:"column:location;type:varchar(100);not null;default:''"`
	Address           *string         `gorm:"column:address;type:varchar(255)"`
	City              *string         `gorm:"column:city;type:varchar(100)"`
	State             *string         `gorm:"column:state;type:varchar(100)"`
	PostalCode        *string         `gorm:"column:postal_code;type:varchar(10)"`
	Latitude          *float64        `gorm:"column:latitude"`
	Longitude         *float64        `gorm:"column:longitude"`
	YearsOfExperience *int            `gorm:"column:years_of_experience"`
	Availability      *string         `gorm:"column:availability;type:varchar(100)"`
	AverageRating     decimal.Decimal `gorm:"column:average_rating;type:numeric(3,2);not null;default:0"`
	TotalReviews      int             `gorm:"column:total_reviews;not null;default:0"`
	IsActive          bool            `gorm:"column:is_active;not null;default:true"`
	IsVerified        bool            `gorm:"column:is_verified;not null;default:false"`
	Description       *string         `gorm:"column:description;type:text"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
