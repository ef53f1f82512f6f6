package addresses

import (
	"time"

	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
)

// AddressInput is the payload for creating or replacing an address.
type AddressInput struct {
	AddressType  string   `json:"address_type" validate:"omitempty,oneof=HOME WORK OTHER home work other"`
	AddressLine1 string   `json:"address_line1" validate:"required,max=255"`
	AddressLine2 *string  `json:"address_line2,omitempty" validate:"omitempty,max=255"`
	City         string   `json:"city" validate:"required,max=100"`
	State        string   `json:"state" validate:"required,max=100"`
	PostalCode   string   `json:"postal_code" validate:"required,max=10"`
	Landmark     *string  `json:"landmark,omitempty" validate:"omitempty,max=255"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	IsDefault    bool     `json:"is_default"`
}

// AddressDTO is the read projection of an address.
type AddressDTO struct {
	ID           int64             `json:"id"`
	AddressType  enums.AddressType `json:"address_type"`
	AddressLine1 string            `json:"address_line1"`
	AddressLine2 *string           `json:"address_line2,omitempty"`
	City         string            `json:"city"`
	State        string            `json:"state"`
	PostalCode   string            `json:"postal_code"`
	Landmark     *string           `json:"landmark,omitempty"`
	Latitude     *float64          `json:"latitude,omitempty"`
	Longitude    *float64          `json:"longitude,omitempty"`
	IsDefault    bool              `json:"is_default"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// FromModel maps an address row to its DTO.
func FromModel(a *models.Address) AddressDTO {
	return AddressDTO{
		ID:           a.ID,
		AddressType:  a.AddressType,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		PostalCode:   a.PostalCode,
		Landmark:     a.Landmark,
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		IsDefault:    a.IsDefault,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// apply copies the editable fields of the input onto the row. The default
// flag is handled by the service.
func (in AddressInput) apply(a *models.Address) error {
	addressType, err := enums.ParseAddressType(in.AddressType)
	if err != nil {
		return err
	}
	a.AddressType = addressType
	a.AddressLine1 = in.AddressLine1
	a.AddressLine2 = in.AddressLine2
	a.City = in.City
	a.State = in.State
	a.PostalCode = in.PostalCode
	a.Landmark = in.Landmark
	a.Latitude = in.Latitude
	a.Longitude = in.Longitude
	return nil
}
