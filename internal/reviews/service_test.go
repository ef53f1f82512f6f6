package reviews

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/bookaro-backend/internal/bookings"
	"github.com/angelmondragon/bookaro-backend/internal/catalog"
	"github.com/angelmondragon/bookaro-backend/internal/identity"
	"github.com/angelmondragon/bookaro-backend/internal/testdb"
	"github.com/angelmondragon/bookaro-backend/internal/users"
	"github.com/angelmondragon/bookaro-backend/pkg/db"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"github.com/angelmondragon/bookaro-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	client   *db.Client
	registry *prometheus.Registry
	owner    *models.User
	vendor   *models.Vendor
	service  *models.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	client := testdb.New(t)
	owner := testdb.User(t, client, "vendor@example.com", enums.UserRoleVendor)
	vendor := testdb.Vendor(t, client, owner, "Sparkle Cleaners")
	service := testdb.Service(t, client, vendor, "Deep Cleaning", "1500.00")
	return fixture{client: client, registry: prometheus.NewRegistry(), owner: owner, vendor: vendor, service: service}
}

func (f fixture) newService(t *testing.T, locker aggregateLocker) Service {
	t.Helper()
	userRepo := users.NewRepository(f.client.DB())
	gate, err := identity.NewGate(userRepo)
	require.NoError(t, err)
	catalogRepo := catalog.NewRepository(f.client.DB())
	catalogSvc, err := catalog.NewService(catalogRepo)
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		DB:       f.client,
		Repo:     NewRepository(f.client.DB()),
		Catalog:  catalogRepo,
		Services: catalogSvc,
		Bookings: bookings.NewRepository(f.client.DB()),
		Identity: gate,
		Locker:   locker,
		LockWait: 50 * time.Millisecond,
		Metrics:  metrics.NewReviewMetrics(f.registry),
	})
	require.NoError(t, err)
	return svc
}

func (f fixture) completedBooking(t *testing.T, email string) (*models.User, *models.Booking) {
	t.Helper()
	customer := testdb.User(t, f.client, email, enums.UserRoleCustomer)
	return customer, testdb.Booking(t, f.client, customer, f.service, enums.BookingStatusCompleted)
}

func assertAggregate(t *testing.T, f fixture, average string, count int) {
	t.Helper()
	service := testdb.Reload(t, f.client, f.service.ID)
	assert.True(t, decimal.RequireFromString(average).Equal(service.AverageRating), "service average %s", service.AverageRating)
	assert.Equal(t, count, service.TotalReviews)

	var vendor models.Vendor
	require.NoError(t, f.client.DB().First(&vendor, f.vendor.ID).Error)
	assert.True(t, decimal.RequireFromString(average).Equal(vendor.AverageRating), "vendor average %s", vendor.AverageRating)
	assert.Equal(t, count, vendor.TotalReviews)
}

func TestAggregateFollowsReviewSet(t *testing.T) {
	f := newFixture(t)
	svc := f.newService(t, nil)
	ctx := context.Background()

	first, firstBooking := f.completedBooking(t, "first@example.com")
	second, secondBooking := f.completedBooking(t, "second@example.com")

	_, err := svc.Create(ctx, first.Email, CreateReviewInput{BookingID: firstBooking.ID, Rating: 4})
	require.NoError(t, err)
	assertAggregate(t, f, "4.00", 1)

	created, err := svc.Create(ctx, second.Email, CreateReviewInput{BookingID: secondBooking.ID, Rating: 2})
	require.NoError(t, err)
	assertAggregate(t, f, "3.00", 2)

	five := 5
	updated, err := svc.Update(ctx, second.Email, created.ID, UpdateReviewInput{Rating: &five})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assertAggregate(t, f, "4.50", 2)

	require.NoError(t, svc.Delete(ctx, second.Email, created.ID))
	assertAggregate(t, f, "4.00", 1)

	list, err := svc.ListByService(ctx, f.service.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first.Email, list[0].UserName)
}

func TestAverageRoundsHalfUp(t *testing.T) {
	f := newFixture(t)
	svc := f.newService(t, nil)
	ctx := context.Background()

	for i, rating := range []int{5, 4, 4} {
		customer, booking := f.completedBooking(t, []string{"a@example.com", "b@example.com", "c@example.com"}[i])
		_, err := svc.Create(ctx, customer.Email, CreateReviewInput{BookingID: booking.ID, Rating: rating})
		require.NoError(t, err)
	}
	assertAggregate(t, f, "4.33", 3)
}

func TestCreateRejections(t *testing.T) {
	f := newFixture(t)
	svc := f.newService(t, nil)
	ctx := context.Background()

	customer, completed := f.completedBooking(t, "customer@example.com")
	pending := testdb.Booking(t, f.client, customer, f.service, enums.BookingStatusPending)
	other := testdb.User(t, f.client, "other@example.com", enums.UserRoleCustomer)

	_, err := svc.Create(ctx, customer.Email, CreateReviewInput{BookingID: completed.ID, Rating: 0})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	_, err = svc.Create(ctx, customer.Email, CreateReviewInput{BookingID: completed.ID, Rating: 6})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, customer.Email, CreateReviewInput{BookingID: pending.ID, Rating: 3})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInvalidState))

	_, err = svc.Create(ctx, other.Email, CreateReviewInput{BookingID: completed.ID, Rating: 3})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))

	_, err = svc.Create(ctx, customer.Email, CreateReviewInput{BookingID: completed.ID + 100, Rating: 3})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	review, err := svc.Create(ctx, customer.Email, CreateReviewInput{BookingID: completed.ID, Rating: 3})
	require.NoError(t, err)
	_, err = svc.Create(ctx, customer.Email, CreateReviewInput{BookingID: completed.ID, Rating: 5})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
	assertAggregate(t, f, "3.00", 1)

	_, err = svc.Update(ctx, other.Email, review.ID, UpdateReviewInput{})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))
	err = svc.Delete(ctx, other.Email, review.ID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))

	mine, err := svc.ListByUser(ctx, customer.Email)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestConcurrentCreatesKeepAggregate(t *testing.T) {
	f := newFixture(t)
	svc := f.newService(t, nil)

	ratings := []int{5, 4, 3, 2, 1, 5, 4, 3}
	type job struct {
		email     string
		bookingID int64
		rating    int
	}
	jobs := make([]job, 0, len(ratings))
	for i, rating := range ratings {
		customer, booking := f.completedBooking(t, string(rune('a'+i))+"@example.com")
		jobs = append(jobs, job{email: customer.Email, bookingID: booking.ID, rating: rating})
	}

	var wg sync.WaitGroup
	errs := make([]error, len(jobs))
	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), j.email, CreateReviewInput{BookingID: j.bookingID, Rating: j.rating})
		}(i, j)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	assertAggregate(t, f, "3.38", len(ratings))
}

type stubLocker struct {
	mu       sync.Mutex
	acquired []string
	released []string
	fail     error
	busy     bool
}

func (s *stubLocker) AcquireLock(_ context.Context, name string, _ time.Duration) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", false, s.fail
	}
	if s.busy {
		return "", false, nil
	}
	s.acquired = append(s.acquired, name)
	return "token-" + name, true, nil
}

func (s *stubLocker) ReleaseLock(_ context.Context, name, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = append(s.released, name+"/"+token)
	return nil
}

func TestWriteTakesServiceLock(t *testing.T) {
	f := newFixture(t)
	locker := &stubLocker{}
	svc := f.newService(t, locker)
	customer, booking := f.completedBooking(t, "customer@example.com")

	_, err := svc.Create(context.Background(), customer.Email, CreateReviewInput{BookingID: booking.ID, Rating: 5})
	require.NoError(t, err)

	name := lockName(f.service.ID)
	assert.Equal(t, []string{name}, locker.acquired)
	assert.Equal(t, []string{name + "/token-" + name}, locker.released)
}

func TestWriteProceedsWithoutLock(t *testing.T) {
	for name, locker := range map[string]*stubLocker{
		"error": {fail: errors.New("connection refused")},
		"busy":  {busy: true},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			svc := f.newService(t, locker)
			customer, booking := f.completedBooking(t, "customer@example.com")

			_, err := svc.Create(context.Background(), customer.Email, CreateReviewInput{BookingID: booking.ID, Rating: 2})
			require.NoError(t, err)
			assertAggregate(t, f, "2.00", 1)
			assert.Equal(t, float64(1), counterValue(t, f.registry, "bookaro_rating_lock_skipped_total"))
		})
	}
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name && len(family.GetMetric()) > 0 {
			return family.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestUpdateAfterConcurrentDeleteDoesNotResurrect(t *testing.T) {
	f := newFixture(t)
	svc := f.newService(t, nil)
	ctx := context.Background()

	customer, booking := f.completedBooking(t, "stale@example.com")
	created, err := svc.Create(ctx, customer.Email, CreateReviewInput{BookingID: booking.ID, Rating: 1})
	require.NoError(t, err)

	stale, err := NewRepository(f.client.DB()).FindByID(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, customer.Email, created.ID))

	_, err = svc.(*service).update(ctx, stale, map[string]any{"rating": 3})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "got %v", err)

	var rows int64
	require.NoError(t, f.client.DB().Model(&models.Review{}).Count(&rows).Error)
	assert.Zero(t, rows)
	assertAggregate(t, f, "0", 0)

	err = svc.Delete(ctx, customer.Email, created.ID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestUpdateCommentOnly(t *testing.T) {
	f := newFixture(t)
	svc := f.newService(t, nil)
	ctx := context.Background()

	customer, booking := f.completedBooking(t, "comment@example.com")
	created, err := svc.Create(ctx, customer.Email, CreateReviewInput{BookingID: booking.ID, Rating: 4})
	require.NoError(t, err)

	comment := "  punctual and tidy  "
	updated, err := svc.Update(ctx, customer.Email, created.ID, UpdateReviewInput{Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, "punctual and tidy", *updated.Comment)
	assertAggregate(t, f, "4.00", 1)
}
