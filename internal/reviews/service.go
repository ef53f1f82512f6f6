package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/bookaro-backend/internal/catalog"
	pkgdb "github.com/angelmondragon/bookaro-backend/pkg/db"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"github.com/angelmondragon/bookaro-backend/pkg/logger"
	"github.com/angelmondragon/bookaro-backend/pkg/metrics"
	"gorm.io/gorm"
)

// Service writes reviews and keeps the service and vendor rating aggregates
// equal to the mean and count of the current review set.
type Service interface {
	Create(ctx context.Context, principal string, input CreateReviewInput) (ReviewDTO, error)
	Update(ctx context.Context, principal string, id int64, input UpdateReviewInput) (ReviewDTO, error)
	Delete(ctx context.Context, principal string, id int64) error
	ListByService(ctx context.Context, serviceID int64) ([]ReviewDTO, error)
	ListByUser(ctx context.Context, principal string) ([]ReviewDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type principalResolver interface {
	Resolve(ctx context.Context, principal string) (*models.User, error)
}

type bookingLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Booking, error)
}

type serviceLookup interface {
	FindService(ctx context.Context, id int64) (*models.Service, error)
}

// ServiceParams groups dependencies for the review service. Locker is
// optional; without it the service row lock alone serializes writers.
type ServiceParams struct {
	DB       txRunner
	Repo     *Repository
	Catalog  *catalog.Repository
	Services serviceLookup
	Bookings bookingLookup
	Identity principalResolver
	Locker   aggregateLocker
	LockTTL  time.Duration
	LockWait time.Duration
	Metrics  *metrics.ReviewMetrics
	Logger   *logger.Logger
}

type service struct {
	db       txRunner
	repo     *Repository
	catalog  *catalog.Repository
	services serviceLookup
	bookings bookingLookup
	identity principalResolver
	locker   aggregateLocker
	lockTTL  time.Duration
	lockWait time.Duration
	metrics  *metrics.ReviewMetrics
	logg     *logger.Logger
}

// NewService builds a review service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("review repository is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if params.Services == nil {
		return nil, fmt.Errorf("service lookup is required")
	}
	if params.Bookings == nil {
		return nil, fmt.Errorf("booking lookup is required")
	}
	if params.Identity == nil {
		return nil, fmt.Errorf("identity gate is required")
	}
	return &service{
		db:       params.DB,
		repo:     params.Repo,
		catalog:  params.Catalog,
		services: params.Services,
		bookings: params.Bookings,
		identity: params.Identity,
		locker:   params.Locker,
		lockTTL:  params.LockTTL,
		lockWait: params.LockWait,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, principal string, input CreateReviewInput) (ReviewDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return ReviewDTO{}, err
	}
	if !validRating(input.Rating) {
		return ReviewDTO{}, ratingError(input.Rating)
	}
	if input.BookingID <= 0 {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}

	booking, err := s.bookings.FindByID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "booking not found")
		}
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load booking")
	}
	if booking.UserID != user.ID {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "only the customer can review a booking")
	}
	if booking.Status != enums.BookingStatusCompleted {
		return ReviewDTO{}, pkgerrors.New(pkgerrors.CodeInvalidState, "only completed bookings can be reviewed").
			WithDetails(map[string]string{"status": string(booking.Status)})
	}
	exists, err := s.repo.ExistsForBooking(ctx, booking.ID)
	if err != nil {
		return ReviewDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing review")
	}
	if exists {
		return ReviewDTO{}, errAlreadyReviewed()
	}

	review := &models.Review{
		BookingID: booking.ID,
		UserID:    user.ID,
		ServiceID: booking.ServiceID,
		Rating:    input.Rating,
		Comment:   trimmedOrNil(input.Comment),
	}
	err = s.write(ctx, "create", booking.ServiceID, func(repo *Repository) error {
		if err := repo.Create(ctx, review); err != nil {
			if pkgdb.IsUniqueViolation(err, "reviews_booking_id_key") {
				return errAlreadyReviewed()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create review")
		}
		return nil
	})
	if err != nil {
		return ReviewDTO{}, err
	}
	review.User = user
	return FromModel(review), nil
}

func (s *service) Update(ctx context.Context, principal string, id int64, input UpdateReviewInput) (ReviewDTO, error) {
	if input.Rating != nil && !validRating(*input.Rating) {
		return ReviewDTO{}, ratingError(*input.Rating)
	}
	review, err := s.loadOwned(ctx, principal, id)
	if err != nil {
		return ReviewDTO{}, err
	}
	changes := map[string]any{}
	if input.Rating != nil {
		changes["rating"] = *input.Rating
	}
	if input.Comment != nil {
		changes["comment"] = trimmedOrNil(input.Comment)
	}
	return s.update(ctx, review, changes)
}

// update applies changes under the service lock and re-reads the row there,
// so a review deleted after it was loaded is reported as gone.
func (s *service) update(ctx context.Context, review *models.Review, changes map[string]any) (ReviewDTO, error) {
	var updated *models.Review
	err := s.write(ctx, "update", review.ServiceID, func(repo *Repository) error {
		if len(changes) > 0 {
			affected, err := repo.Update(ctx, review.ID, changes)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update review")
			}
			if affected == 0 {
				return errReviewNotFound(nil)
			}
		}
		fresh, err := repo.FindByID(ctx, review.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errReviewNotFound(err)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload review")
		}
		updated = fresh
		return nil
	})
	if err != nil {
		return ReviewDTO{}, err
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, principal string, id int64) error {
	review, err := s.loadOwned(ctx, principal, id)
	if err != nil {
		return err
	}
	return s.write(ctx, "delete", review.ServiceID, func(repo *Repository) error {
		affected, err := repo.Delete(ctx, review.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete review")
		}
		if affected == 0 {
			return errReviewNotFound(nil)
		}
		return nil
	})
}

func (s *service) ListByService(ctx context.Context, serviceID int64) ([]ReviewDTO, error) {
	if _, err := s.services.FindService(ctx, serviceID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByService(ctx, serviceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list service reviews")
	}
	return fromModels(rows), nil
}

func (s *service) ListByUser(ctx context.Context, principal string) ([]ReviewDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user reviews")
	}
	return fromModels(rows), nil
}

// write applies fn and recomputes the service and vendor aggregates in one
// transaction holding the service row lock. When a locker is configured the
// transaction also runs under the cross-instance service lock.
func (s *service) write(ctx context.Context, operation string, serviceID int64, fn func(repo *Repository) error) error {
	started := time.Now()
	ctx = s.logg.WithServiceID(ctx, serviceID)

	release := s.acquire(ctx, serviceID)
	defer release()

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := s.catalog.WithTx(tx)
		locked, err := catalogRepo.LockService(ctx, serviceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "service not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock service")
		}
		if err := fn(s.repo.WithTx(tx)); err != nil {
			return err
		}
		if _, err := catalogRepo.RecomputeServiceAggregate(ctx, serviceID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recompute service rating")
		}
		if _, err := catalogRepo.RecomputeVendorAggregate(ctx, locked.VendorID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recompute vendor rating")
		}
		return nil
	})

	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
		if typed := pkgerrors.As(err); typed != nil && typed.Code() != pkgerrors.CodeInternal {
			outcome = metrics.OutcomeRejected
		}
	}
	s.metrics.ObserveRecompute(operation, outcome, time.Since(started))
	if err == nil && s.logg != nil {
		s.logg.Info(ctx, "review "+operation+"d")
	}
	return err
}

// acquire takes the cross-instance lock when available. Failure to get it is
// logged and counted; the row lock still protects the aggregate.
func (s *service) acquire(ctx context.Context, serviceID int64) func() {
	if s.locker == nil {
		return func() {}
	}
	lock, err := acquireServiceLock(ctx, s.locker, serviceID, s.lockTTL, s.lockWait)
	if err != nil {
		s.metrics.IncLockSkipped()
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "proceeding without aggregate lock")
		}
		return func() {}
	}
	return func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "release aggregate lock")
		}
	}
}

func (s *service) loadOwned(ctx context.Context, principal string, id int64) (*models.Review, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review id is required")
	}
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errReviewNotFound(err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load review")
	}
	if review.UserID != user.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the author can change a review")
	}
	return review, nil
}

func errReviewNotFound(cause error) error {
	if cause == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, "review not found")
}

func errAlreadyReviewed() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "booking already reviewed")
}

func ratingError(rating int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5").
		WithDetails(map[string]int{"rating": rating})
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
