package bookings

import (
	"context"
	"time"

	"github.com/angelmondragon/bookaro-backend/internal/repo"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists bookings.
type Repository struct {
	repo.Base
}

// NewRepository constructs a bookings repo bound to the provided GORM DB.
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

// Create inserts the booking without touching its associations.
func (r *Repository) Create(ctx context.Context, booking *models.Booking) error {
	return r.DB(ctx).Omit(clause.Associations).Create(booking).Error
}

// FindByID loads a booking with its customer, service and vendor.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	err := r.withDetails(r.DB(ctx)).First(&booking, "bookings.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// LockStatus takes a row lock on the booking and returns its current status.
func (r *Repository) LockStatus(ctx context.Context, id int64) (enums.BookingStatus, error) {
	var booking models.Booking
	err := r.Locked(ctx).Select("id", "status").First(&booking, "id = ?", id).Error
	if err != nil {
		return "", err
	}
	return booking.Status, nil
}

// TransitionStatus moves the booking from one status to another. It returns
// the number of rows changed, which is zero when the status is no longer from.
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from, to enums.BookingStatus, at time.Time) (int64, error) {
	res := r.DB(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": at})
	return res.RowsAffected, res.Error
}

// ListByCustomer returns the customer's bookings, latest slot first.
func (r *Repository) ListByCustomer(ctx context.Context, userID int64, status *enums.BookingStatus) ([]models.Booking, error) {
	q := r.withDetails(r.DB(ctx)).Where("bookings.user_id = ?", userID)
	return r.list(q, status)
}

// ListByVendorOwner returns bookings of every service run by vendors the user operates.
func (r *Repository) ListByVendorOwner(ctx context.Context, ownerUserID int64, status *enums.BookingStatus) ([]models.Booking, error) {
	q := r.withDetails(r.DB(ctx)).
		Joins("JOIN services ON services.id = bookings.service_id").
		Joins("JOIN vendors ON vendors.id = services.vendor_id").
		Where("vendors.owner_user_id = ?", ownerUserID)
	return r.list(q, status)
}

func (r *Repository) list(q *gorm.DB, status *enums.BookingStatus) ([]models.Booking, error) {
	if status != nil {
		q = q.Where("bookings.status = ?", *status)
	}
	var rows []models.Booking
	err := q.
		Order("bookings.booking_date DESC").
		Order("bookings.booking_time DESC").
		Order("bookings.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) withDetails(q *gorm.DB) *gorm.DB {
	return q.Preload("User").Preload("Service").Preload("Service.Vendor")
}
