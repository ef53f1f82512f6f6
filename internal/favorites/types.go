package favorites

import (
	"time"

	"github.com/angelmondragon/bookaro-backend/internal/catalog"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
)

// FavoriteDTO wraps the service summary included in a favorite row.
type FavoriteDTO struct {
	ID        int64                    `json:"id"`
	Service   catalog.ServiceDetailDTO `json:"service"`
	CreatedAt time.Time                `json:"created_at"`
}

// FavoriteStatusDTO answers a membership check.
type FavoriteStatusDTO struct {
	ServiceID  int64 `json:"service_id"`
	IsFavorite bool  `json:"is_favorite"`
}

func fromModel(f *models.Favorite) FavoriteDTO {
	dto := FavoriteDTO{ID: f.ID, CreatedAt: f.CreatedAt}
	if f.Service != nil {
		dto.Service = catalog.ServiceDetailFromModel(f.Service)
	}
	return dto
}
