package models

import "time"

// Review is a rating left for a completed booking. One per booking.
type Review struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BookingID int64     `gorm:"column:booking_id;not null;uniqueIndex:reviews_booking_id_key"`
	UserID    int64     `gorm:"column:user_id;not null;index:reviews_user_id_idx"`
	User      *User     `gorm:"foreignKey:UserID;references:ID"`
	ServiceID int64     `gorm:"column:service_id;not null;index:reviews_service_id_idx"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   *string   `gorm:"column:comment;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
