package controllers

import (
	"net/http"

	"github.com/angelmondragon/bookaro-backend/api/middleware"
	"github.com/angelmondragon/bookaro-backend/api/responses"
	"github.com/angelmondragon/bookaro-backend/api/validators"
	"github.com/angelmondragon/bookaro-backend/internal/bookings"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"github.com/angelmondragon/bookaro-backend/pkg/logger"
)

func bookingsUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bookings service unavailable"))
}

// BookingCreate reserves a slot for the authenticated customer.
func BookingCreate(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			bookingsUnavailable(w, r, logg)
			return
		}
		ctx := r.Context()

		var body bookings.CreateBookingInput
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		booking, err := svc.Create(ctx, middleware.PrincipalFromContext(ctx), body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, booking)
	}
}

// BookingListMine lists the caller's bookings as a customer.
func BookingListMine(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			bookingsUnavailable(w, r, logg)
			return
		}
		ctx := r.Context()

		status, err := validators.ParseStatusFilter(r, "status")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListForCustomer(ctx, middleware.PrincipalFromContext(ctx), status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// BookingListVendor lists bookings against services the caller's vendor offers.
func BookingListVendor(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			bookingsUnavailable(w, r, logg)
			return
		}
		ctx := r.Context()

		status, err := validators.ParseStatusFilter(r, "status")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListForVendor(ctx, middleware.PrincipalFromContext(ctx), status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func BookingGet(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			bookingsUnavailable(w, r, logg)
			return
		}
		ctx := r.Context()

		bookingID, err := validators.ParsePathID(r, "bookingId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		booking, err := svc.Get(ctx, middleware.PrincipalFromContext(ctx), bookingID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

// BookingUpdateStatus applies a participant-requested status transition.
func BookingUpdateStatus(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			bookingsUnavailable(w, r, logg)
			return
		}
		ctx := r.Context()

		bookingID, err := validators.ParsePathID(r, "bookingId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body bookings.UpdateStatusInput
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		target, err := enums.ParseBookingStatus(body.Status)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").WithDetails(map[string]any{"field": "status"}))
			return
		}

		booking, err := svc.UpdateStatus(ctx, middleware.PrincipalFromContext(ctx), bookingID, target)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}

// BookingCancel lets the customer withdraw a pending booking.
func BookingCancel(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			bookingsUnavailable(w, r, logg)
			return
		}
		ctx := r.Context()

		bookingID, err := validators.ParsePathID(r, "bookingId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		booking, err := svc.Cancel(ctx, middleware.PrincipalFromContext(ctx), bookingID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, booking)
	}
}
