package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service answers catalog lookups for the booking, review and favorite flows.
type Service interface {
	FindService(ctx context.Context, id int64) (*models.Service, error)
	GetServiceDetail(ctx context.Context, id int64) (ServiceDetailDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	return &service{repo: repo}, nil
}

// FindService returns the service with its vendor, or NotFound.
func (s *service) FindService(ctx context.Context, id int64) (*models.Service, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service id is required")
	}
	svc, err := s.repo.FindServiceByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "service")
	}
	return svc, nil
}

func (s *service) GetServiceDetail(ctx context.Context, id int64) (ServiceDetailDTO, error) {
	svc, err := s.FindService(ctx, id)
	if err != nil {
		return ServiceDetailDTO{}, err
	}
	return ServiceDetailFromModel(svc), nil
}

// IsBookable reports whether new bookings may reference the service.
func IsBookable(svc *models.Service) bool {
	if svc == nil || !svc.IsAvailable {
		return false
	}
	return svc.Vendor == nil || svc.Vendor.IsActive
}

func mapLookupError(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, entity+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load "+entity)
}
