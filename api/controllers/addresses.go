package controllers

import (
	"net/http"

	"github.com/angelmondragon/bookaro-backend/api/middleware"
	"github.com/angelmondragon/bookaro-backend/api/responses"
	"github.com/angelmondragon/bookaro-backend/api/validators"
	"github.com/angelmondragon/bookaro-backend/internal/addresses"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"github.com/angelmondragon/bookaro-backend/pkg/logger"
)

func addressesUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
}

// AddressList returns the caller's addresses with the default first.
func AddressList(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			addressesUnavailable(w, r, logg)
			return
		}
		ctx := r.Context()

		list, err := svc.List(ctx, middleware.PrincipalFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AddressCreate(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			addressesUnavailable(w, r, logg)
			return
		}
		ctx := r.Context()

		var body addresses.AddressInput
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		address, err := svc.Create(ctx, middleware.PrincipalFromContext(ctx), body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, address)
	}
}

func AddressUpdate(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			addressesUnavailable(w, r, logg)
			return
		}
		ctx := r.Context()

		addressID, err := validators.ParsePathID(r, "addressId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var body addresses.AddressInput
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		address, err := svc.Update(ctx, middleware.PrincipalFromContext(ctx), addressID, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}

func AddressDelete(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			addressesUnavailable(w, r, logg)
			return
		}
		ctx := r.Context()

		addressID, err := validators.ParsePathID(r, "addressId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, middleware.PrincipalFromContext(ctx), addressID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// AddressSetDefault promotes one of the caller's addresses to default.
func AddressSetDefault(svc addresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			addressesUnavailable(w, r, logg)
			return
		}
		ctx := r.Context()

		addressID, err := validators.ParsePathID(r, "addressId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		address, err := svc.SetDefault(ctx, middleware.PrincipalFromContext(ctx), addressID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, address)
	}
}
