package reviews

import (
	"time"

	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
)

const (
	minRating = 1
	maxRating = 5
)

// CreateReviewInput is the payload for reviewing a completed booking.
type CreateReviewInput struct {
	BookingID int64   `json:"booking_id" validate:"required,gt=0"`
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Comment   *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// UpdateReviewInput changes the rating, the comment, or both.
type UpdateReviewInput struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// ReviewDTO is the read projection of a review.
type ReviewDTO struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	ServiceID int64     `json:"service_id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromModel maps a review row to its DTO.
func FromModel(r *models.Review) ReviewDTO {
	dto := ReviewDTO{
		ID:        r.ID,
		BookingID: r.BookingID,
		ServiceID: r.ServiceID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User != nil {
		dto.UserName = r.User.FullName
	}
	return dto
}

func fromModels(rows []models.Review) []ReviewDTO {
	out := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

func validRating(rating int) bool {
	return rating >= minRating && rating <= maxRating
}
