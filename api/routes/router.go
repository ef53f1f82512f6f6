package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/bookaro-backend/api/controllers"
	"github.com/angelmondragon/bookaro-backend/api/middleware"
	"github.com/angelmondragon/bookaro-backend/internal/addresses"
	"github.com/angelmondragon/bookaro-backend/internal/auth"
	"github.com/angelmondragon/bookaro-backend/internal/bookings"
	"github.com/angelmondragon/bookaro-backend/internal/catalog"
	"github.com/angelmondragon/bookaro-backend/internal/favorites"
	"github.com/angelmondragon/bookaro-backend/internal/reviews"
	"github.com/angelmondragon/bookaro-backend/internal/users"
	"github.com/angelmondragon/bookaro-backend/pkg/config"
	"github.com/angelmondragon/bookaro-backend/pkg/db"
	"github.com/angelmondragon/bookaro-backend/pkg/logger"
	"github.com/angelmondragon/bookaro-backend/pkg/metrics"
	"github.com/angelmondragon/bookaro-backend/pkg/redis"
)

// Dependencies carries everything the router mounts. Redis is optional; when
// nil, login rate limiting and idempotent replay are disabled.
type Dependencies struct {
	DB       db.Pinger
	Redis    *redis.Client
	Gatherer prometheus.Gatherer
	HTTP     *metrics.HTTPMetrics

	Auth      auth.Service
	Register  auth.RegisterService
	Users     users.Service
	Catalog   catalog.Service
	Bookings  bookings.Service
	Reviews   reviews.Service
	Addresses addresses.Service
	Favorites favorites.Service
}

func passthrough(next http.Handler) http.Handler { return next }

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
		middleware.Metrics(deps.HTTP),
		middleware.Logging(logg),
	)

	// Interfaces built from a nil *redis.Client would not compare equal to nil.
	loginLimit, idempotent := passthrough, passthrough
	readiness := map[string]controllers.Pinger{"db": deps.DB, "redis": nil}
	if deps.Redis != nil {
		loginLimit = middleware.LoginRateLimit(cfg.AuthRateLimit, deps.Redis, logg)
		idempotent = middleware.Idempotency(deps.Redis, logg)
		readiness["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.With(loginLimit).Post("/auth/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(loginLimit).Post("/auth/register", controllers.AuthRegister(deps.Register, logg))

		r.Get("/services/{serviceId}", controllers.ServiceDetail(deps.Catalog, logg))
		r.Get("/services/{serviceId}/reviews", controllers.ServiceReviews(deps.Reviews, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/users/profile", controllers.UserProfile(deps.Users, logg))
			r.Put("/users/profile", controllers.UserUpdateProfile(deps.Users, logg))
			r.Delete("/users/profile", controllers.UserDeactivate(deps.Users, logg))
			r.Put("/users/change-password", controllers.UserChangePassword(deps.Users, logg))

			r.With(idempotent).Post("/bookings", controllers.BookingCreate(deps.Bookings, logg))
			r.Get("/bookings", controllers.BookingListMine(deps.Bookings, logg))
			r.Get("/bookings/vendor", controllers.BookingListVendor(deps.Bookings, logg))
			r.Get("/bookings/{bookingId}", controllers.BookingGet(deps.Bookings, logg))
			r.Put("/bookings/{bookingId}/status", controllers.BookingUpdateStatus(deps.Bookings, logg))
			r.Delete("/bookings/{bookingId}", controllers.BookingCancel(deps.Bookings, logg))

			r.With(idempotent).Post("/reviews", controllers.ReviewCreate(deps.Reviews, logg))
			r.Get("/reviews/me", controllers.ReviewListMine(deps.Reviews, logg))
			r.Put("/reviews/{reviewId}", controllers.ReviewUpdate(deps.Reviews, logg))
			r.Delete("/reviews/{reviewId}", controllers.ReviewDelete(deps.Reviews, logg))

			r.Get("/addresses", controllers.AddressList(deps.Addresses, logg))
			r.With(idempotent).Post("/addresses", controllers.AddressCreate(deps.Addresses, logg))
			r.Put("/addresses/{addressId}", controllers.AddressUpdate(deps.Addresses, logg))
			r.Delete("/addresses/{addressId}", controllers.AddressDelete(deps.Addresses, logg))
			r.Put("/addresses/{addressId}/default", controllers.AddressSetDefault(deps.Addresses, logg))

			r.Get("/favorites", controllers.FavoriteList(deps.Favorites, logg))
			r.Post("/favorites/{serviceId}", controllers.FavoriteAdd(deps.Favorites, logg))
			r.Delete("/favorites/{serviceId}", controllers.FavoriteRemove(deps.Favorites, logg))
			r.Get("/favorites/{serviceId}/check", controllers.FavoriteCheck(deps.Favorites, logg))
		})
	})

	return r
}
