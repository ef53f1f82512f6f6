package catalog

import (
	"time"

	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
)

// ServiceDetailDTO is the public view of a service and its rating.
type ServiceDetailDTO struct {
	ID              int64     `json:"id"`
	VendorID        int64     `json:"vendor_id"`
	VendorName      string    `json:"vendor_name"`
	Name            string    `json:"service_name"`
	Description     *string   `json:"description,omitempty"`
	Category        string    `json:"category"`
	Price           string    `json:"price"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	City            *string   `json:"city,omitempty"`
	State           *string   `json:"state,omitempty"`
	IsAvailable     bool      `json:"is_available"`
	AverageRating   string    `json:"average_rating"`
	TotalReviews    int       `json:"total_reviews"`
	CreatedAt       time.Time `json:"created_at"`
}

// VendorInfoDTO summarizes a vendor with its aggregate.
type VendorInfoDTO struct {
	ID              int64   `json:"id"`
	VendorCode      *string `json:"vendor_code,omitempty"`
	BusinessName    string  `json:"business_name"`
	PrimaryCategory string  `json:"primary_category"`
	Location        string  `json:"location"`
	AverageRating   string  `json:"average_rating"`
	TotalReviews    int     `json:"total_reviews"`
	IsVerified      bool    `json:"is_verified"`
}

// ServiceDetailFromModel maps a service row with its preloaded vendor.
func ServiceDetailFromModel(s *models.Service) ServiceDetailDTO {
	dto := ServiceDetailDTO{
		ID:              s.ID,
		VendorID:        s.VendorID,
		Name:            s.Name,
		Description:     s.Description,
		Category:        s.Category,
		Price:           s.Price.StringFixed(2),
		DurationMinutes: s.DurationMinutes,
		City:            s.City,
		State:           s.State,
		IsAvailable:     s.IsAvailable,
		AverageRating:   s.AverageRating.StringFixed(2),
		TotalReviews:    s.TotalReviews,
		CreatedAt:       s.CreatedAt,
	}
	if s.Vendor != nil {
		dto.VendorName = s.Vendor.BusinessName
	}
	return dto
}

// VendorInfoFromModel maps a vendor row.
func VendorInfoFromModel(v *models.Vendor) VendorInfoDTO {
	return VendorInfoDTO{
		ID:              v.ID,
		VendorCode:      v.VendorCode,
		BusinessName:    v.BusinessName,
		PrimaryCategory: v.PrimaryCategory,
		Location:        v.Location,
		AverageRating:   v.AverageRating.StringFixed(2),
		TotalReviews:    v.TotalReviews,
		IsVerified:      v.IsVerified,
	}
}
