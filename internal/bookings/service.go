package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/bookaro-backend/internal/catalog"
	"github.com/angelmondragon/bookaro-backend/internal/identity"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"github.com/angelmondragon/bookaro-backend/pkg/logger"
	"github.com/angelmondragon/bookaro-backend/pkg/metrics"
	"gorm.io/gorm"
)

// Service owns the booking state machine.
type Service interface {
	Create(ctx context.Context, principal string, input CreateBookingInput) (BookingDTO, error)
	Get(ctx context.Context, principal string, id int64) (BookingDTO, error)
	ListForCustomer(ctx context.Context, principal string, status *enums.BookingStatus) ([]BookingDTO, error)
	ListForVendor(ctx context.Context, principal string, status *enums.BookingStatus) ([]BookingDTO, error)
	UpdateStatus(ctx context.Context, principal string, id int64, target enums.BookingStatus) (BookingDTO, error)
	Cancel(ctx context.Context, principal string, id int64) (BookingDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type principalResolver interface {
	Resolve(ctx context.Context, principal string) (*models.User, error)
}

type serviceLookup interface {
	FindService(ctx context.Context, id int64) (*models.Service, error)
}

type addressLookup interface {
	FindOwned(ctx context.Context, userID, id int64) (*models.Address, error)
	FindDefault(ctx context.Context, userID int64) (*models.Address, error)
}

// ServiceParams bundles the dependencies of the booking service.
type ServiceParams struct {
	DB          txRunner
	Repo        *Repository
	Identity    principalResolver
	Catalog     serviceLookup
	Addresses   addressLookup
	Metrics     *metrics.BookingMetrics
	Logger      *logger.Logger
	MinLeadTime time.Duration
	Location    *time.Location
	Now         func() time.Time
}

type service struct {
	db          txRunner
	repo        *Repository
	identity    principalResolver
	catalog     serviceLookup
	addresses   addressLookup
	metrics     *metrics.BookingMetrics
	logg        *logger.Logger
	minLeadTime time.Duration
	loc         *time.Location
	now         func() time.Time
}

// NewService builds the booking service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("booking repository is required")
	}
	if params.Identity == nil {
		return nil, fmt.Errorf("identity gate is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog lookup is required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("address lookup is required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		db:          params.DB,
		repo:        params.Repo,
		identity:    params.Identity,
		catalog:     params.Catalog,
		addresses:   params.Addresses,
		metrics:     params.Metrics,
		logg:        params.Logger,
		minLeadTime: params.MinLeadTime,
		loc:         loc,
		now:         now,
	}, nil
}

func (s *service) Create(ctx context.Context, principal string, input CreateBookingInput) (BookingDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return BookingDTO{}, err
	}

	date, clock, scheduled, err := s.parseSlot(input.BookingDate, input.BookingTime)
	if err != nil {
		return BookingDTO{}, err
	}
	if !scheduled.After(s.now().Add(s.minLeadTime)) {
		return BookingDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "booking date must be in the future").
			WithDetails(map[string]string{"booking_date": input.BookingDate, "booking_time": input.BookingTime})
	}

	svc, err := s.catalog.FindService(ctx, input.ServiceID)
	if err != nil {
		return BookingDTO{}, err
	}
	if !catalog.IsBookable(svc) {
		return BookingDTO{}, pkgerrors.New(pkgerrors.CodeInvalidState, "service is not available for booking")
	}

	addressID, err := s.resolveAddress(ctx, user.ID, input.AddressID)
	if err != nil {
		return BookingDTO{}, err
	}

	booking := &models.Booking{
		UserID:      user.ID,
		ServiceID:   svc.ID,
		AddressID:   addressID,
		BookingDate: date,
		BookingTime: clock,
		Status:      enums.BookingStatusPending,
		TotalAmount: svc.Price,
		Notes:       trimmedOrNil(input.Notes),
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return BookingDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create booking")
	}
	s.metrics.IncCreated()

	booking.User = user
	booking.Service = svc
	s.log(ctx, booking.ID, "booking created")
	return FromModel(booking), nil
}

func (s *service) Get(ctx context.Context, principal string, id int64) (BookingDTO, error) {
	user, booking, err := s.load(ctx, principal, id)
	if err != nil {
		return BookingDTO{}, err
	}
	if _, err := identity.RequireParticipant(user, booking); err != nil {
		return BookingDTO{}, err
	}
	return FromModel(booking), nil
}

func (s *service) ListForCustomer(ctx context.Context, principal string, status *enums.BookingStatus) ([]BookingDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByCustomer(ctx, user.ID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bookings")
	}
	return fromModels(rows), nil
}

func (s *service) ListForVendor(ctx context.Context, principal string, status *enums.BookingStatus) ([]BookingDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByVendorOwner(ctx, user.ID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vendor bookings")
	}
	return fromModels(rows), nil
}

func (s *service) UpdateStatus(ctx context.Context, principal string, id int64, target enums.BookingStatus) (BookingDTO, error) {
	if !target.IsValid() {
		return BookingDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid booking status")
	}
	user, booking, err := s.load(ctx, principal, id)
	if err != nil {
		return BookingDTO{}, err
	}
	rel, err := identity.RequireParticipant(user, booking)
	if err != nil {
		return BookingDTO{}, err
	}
	return s.transition(ctx, booking, rel, target)
}

func (s *service) Cancel(ctx context.Context, principal string, id int64) (BookingDTO, error) {
	user, booking, err := s.load(ctx, principal, id)
	if err != nil {
		return BookingDTO{}, err
	}
	if !identity.IsCustomerOf(user, booking) {
		return BookingDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "only the customer can cancel a booking")
	}
	return s.transition(ctx, booking, identity.Relationship{Customer: true}, enums.BookingStatusCancelled)
}

// transition applies target under a row lock. The status read under the lock
// decides the rule; the conditional update rejects a concurrent winner.
func (s *service) transition(ctx context.Context, booking *models.Booking, rel identity.Relationship, target enums.BookingStatus) (BookingDTO, error) {
	now := s.now().UTC()

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		current, err := txRepo.LockStatus(ctx, booking.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "booking not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock booking")
		}
		if err := authorizeTransition(rel, current, target); err != nil {
			return err
		}
		affected, err := txRepo.TransitionStatus(ctx, booking.ID, current, target, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update booking status")
		}
		if affected == 0 {
			return invalidTransition(current, target)
		}
		booking.Status = target
		booking.UpdatedAt = now
		return nil
	})
	if err != nil {
		s.metrics.ObserveTransition(string(target), transitionOutcome(err))
		return BookingDTO{}, err
	}

	s.metrics.ObserveTransition(string(target), metrics.OutcomeSuccess)
	s.log(ctx, booking.ID, "booking status "+strings.ToLower(string(target)))
	return FromModel(booking), nil
}

func (s *service) load(ctx context.Context, principal string, id int64) (*models.User, *models.Booking, error) {
	if id <= 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id is required")
	}
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return nil, nil, err
	}
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "booking not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load booking")
	}
	return user, booking, nil
}

// resolveAddress checks an explicit address belongs to the user and falls
// back to the user's default address otherwise.
func (s *service) resolveAddress(ctx context.Context, userID int64, requested *int64) (*int64, error) {
	if requested == nil {
		addr, err := s.addresses.FindDefault(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load default address")
		}
		return &addr.ID, nil
	}
	addr, err := s.addresses.FindOwned(ctx, userID, *requested)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load address")
	}
	return &addr.ID, nil
}

func (s *service) parseSlot(rawDate, rawTime string) (time.Time, string, time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(rawDate), time.UTC)
	if err != nil {
		return time.Time{}, "", time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "booking_date must be YYYY-MM-DD")
	}
	clock, err := parseClock(rawTime)
	if err != nil {
		return time.Time{}, "", time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "booking_time must be HH:MM")
	}
	slot := models.Booking{BookingDate: date, BookingTime: clock}
	scheduled, err := slot.ScheduledAt(s.loc)
	if err != nil {
		return time.Time{}, "", time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid booking slot")
	}
	return date, clock, scheduled, nil
}

func parseClock(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range []string{models.BookingTimeLayout, "15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format(models.BookingTimeLayout), nil
		}
	}
	return "", fmt.Errorf("unparseable time %q", raw)
}

func transitionOutcome(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return metrics.OutcomeError
	}
	switch typed.Code() {
	case pkgerrors.CodeInvalidTransition, pkgerrors.CodeForbidden:
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func (s *service) log(ctx context.Context, bookingID int64, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithBookingID(ctx, bookingID), msg)
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
