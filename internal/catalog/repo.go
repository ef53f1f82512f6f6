package catalog

import (
	"context"

	"github.com/angelmondragon/bookaro-backend/internal/repo"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes service and vendor persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// CreateVendor inserts a vendor.
func (r *Repository) CreateVendor(ctx context.Context, vendor *models.Vendor) error {
	return r.DB(ctx).Create(vendor).Error
}

// CreateService inserts a service.
func (r *Repository) CreateService(ctx context.Context, service *models.Service) error {
	return r.DB(ctx).Omit("Vendor").Create(service).Error
}

// FindServiceByID loads a service together with its vendor.
func (r *Repository) FindServiceByID(ctx context.Context, id int64) (*models.Service, error) {
	var service models.Service
	if err := r.DB(ctx).Preload("Vendor").First(&service, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// FindVendorByCode loads a vendor by its public code.
func (r *Repository) FindVendorByCode(ctx context.Context, code string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.DB(ctx).First(&vendor, "vendor_code = ?", code).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// LockService takes a row lock on the service and returns its current row.
// Review writes call it before reading the review set.
func (r *Repository) LockService(ctx context.Context, id int64) (*models.Service, error) {
	var service models.Service
	if err := r.Locked(ctx).First(&service, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// RecomputeServiceAggregate re-derives the service rating from its current
// reviews and stores it.
func (r *Repository) RecomputeServiceAggregate(ctx context.Context, serviceID int64) (Aggregate, error) {
	var totals ratingTotals
	err := r.DB(ctx).
		Model(&models.Review{}).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS count").
		Where("service_id = ?", serviceID).
		Scan(&totals).Error
	if err != nil {
		return Aggregate{}, err
	}

	agg := NewAggregate(totals.Total, totals.Count)
	err = r.DB(ctx).
		Model(&models.Service{}).
		Where("id = ?", serviceID).
		Updates(map[string]any{
			"average_rating": agg.Average,
			"total_reviews":  agg.Count,
		}).Error
	if err != nil {
		return Aggregate{}, err
	}
	return agg, nil
}

// RecomputeVendorAggregate re-derives the vendor rating from the reviews of
// all of its services and stores it.
func (r *Repository) RecomputeVendorAggregate(ctx context.Context, vendorID int64) (Aggregate, error) {
	var totals ratingTotals
	err := r.DB(ctx).
		Table("reviews").
		Select("COALESCE(SUM(reviews.rating), 0) AS total, COUNT(*) AS count").
		Joins("JOIN services ON services.id = reviews.service_id").
		Where("services.vendor_id = ?", vendorID).
		Scan(&totals).Error
	if err != nil {
		return Aggregate{}, err
	}

	agg := NewAggregate(totals.Total, totals.Count)
	err = r.DB(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", vendorID).
		Updates(map[string]any{
			"average_rating": agg.Average,
			"total_reviews":  agg.Count,
		}).Error
	if err != nil {
		return Aggregate{}, err
	}
	return agg, nil
}

// FindServiceByName loads a vendor's service by its display name.
func (r *Repository) FindServiceByName(ctx context.Context, vendorID int64, name string) (*models.Service, error) {
	var service models.Service
	if err := r.DB(ctx).First(&service, "vendor_id = ? AND service_name = ?", vendorID, name).Error; err != nil {
		return nil, err
	}
	return &service, nil
}
