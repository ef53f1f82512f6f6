package models

import (
	"time"

	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// BookingTimeLayout is the stored representation of booking_time.
const BookingTimeLayout = "15:04"

// Booking is a customer's reservation of a service slot. Only Status and the
// timestamps change after creation.
type Booking struct {
	ID          int64               `gorm:"column:id;primaryKey;autoIncrement"`
	UserID      int64               `gorm:"column:user_id;not null;index:bookings_user_id_idx"`
	User        *User               `gorm:"foreignKey:UserID;references:ID"`
	ServiceID   int64               `gorm:"column:service_id;not null;index:bookings_service_id_idx"`
	Service     *Service            `gorm:"foreignKey:ServiceID;references:ID"`
	AddressID   *int64              `gorm:"column:address_id"`
	BookingDate time.Time           `gorm:"column:booking_date;type:date;not null;index:bookings_booking_date_idx"`
	BookingTime string              `gorm:"column:booking_time;type:varchar(5);not null"`
	Status      enums.BookingStatus `gorm:"column:status;type:varchar(20);not null;default:'PENDING';index:bookings_status_idx"`
	TotalAmount decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Notes       *string             `gorm:"column:notes;type:text"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// ScheduledAt combines the booking date and time of day in loc.
func (b Booking) ScheduledAt(loc *time.Location) (time.Time, error) {
	clock, err := time.Parse(BookingTimeLayout, b.BookingTime)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := b.BookingDate.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, loc), nil
}
