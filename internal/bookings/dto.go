package bookings

import (
	"time"

	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
)

const dateLayout = "2006-01-02"

// CreateBookingInput is the validated request to reserve a service slot.
type CreateBookingInput struct {
	ServiceID   int64   `json:"service_id" validate:"required,gt=0"`
	BookingDate string  `json:"booking_date" validate:"required"`
	BookingTime string  `json:"booking_time" validate:"required"`
	AddressID   *int64  `json:"address_id,omitempty" validate:"omitempty,gt=0"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateStatusInput carries the requested target status.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// BookingDTO is the read projection of a booking.
type BookingDTO struct {
	ID          int64               `json:"id"`
	UserID      int64               `json:"user_id"`
	UserName    string              `json:"user_name,omitempty"`
	UserEmail   string              `json:"user_email,omitempty"`
	ServiceID   int64               `json:"service_id"`
	ServiceName string              `json:"service_name,omitempty"`
	VendorID    int64               `json:"vendor_id,omitempty"`
	VendorName  string              `json:"vendor_name,omitempty"`
	AddressID   *int64              `json:"address_id,omitempty"`
	BookingDate string              `json:"booking_date"`
	BookingTime string              `json:"booking_time"`
	Status      enums.BookingStatus `json:"status"`
	TotalAmount string              `json:"total_amount"`
	Notes       *string             `json:"notes,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// FromModel maps a booking and whichever associations were loaded.
func FromModel(b *models.Booking) BookingDTO {
	dto := BookingDTO{
		ID:          b.ID,
		UserID:      b.UserID,
		ServiceID:   b.ServiceID,
		AddressID:   b.AddressID,
		BookingDate: b.BookingDate.Format(dateLayout),
		BookingTime: b.BookingTime,
		Status:      b.Status,
		TotalAmount: b.TotalAmount.StringFixed(2),
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.User != nil {
		dto.UserName = b.User.FullName
		dto.UserEmail = b.User.Email
	}
	if b.Service != nil {
		dto.ServiceName = b.Service.Name
		dto.VendorID = b.Service.VendorID
		if b.Service.Vendor != nil {
			dto.VendorName = b.Service.Vendor.BusinessName
		}
	}
	return dto
}

func fromModels(rows []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
