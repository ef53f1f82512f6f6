package controllers

import (
	"net/http"

	"github.com/angelmondragon/bookaro-backend/api/middleware"
	"github.com/angelmondragon/bookaro-backend/api/responses"
	"github.com/angelmondragon/bookaro-backend/api/validators"
	"github.com/angelmondragon/bookaro-backend/internal/favorites"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"github.com/angelmondragon/bookaro-backend/pkg/logger"
)

// FavoriteList returns the caller's favorite services, newest first.
func FavoriteList(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		list, err := svc.List(ctx, middleware.PrincipalFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func FavoriteAdd(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		serviceID, err := validators.ParsePathID(r, "serviceId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		favorite, err := svc.Add(ctx, middleware.PrincipalFromContext(ctx), serviceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, favorite)
	}
}

// FavoriteRemove succeeds whether or not the service was a favorite.
func FavoriteRemove(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		serviceID, err := validators.ParsePathID(r, "serviceId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Remove(ctx, middleware.PrincipalFromContext(ctx), serviceID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func FavoriteCheck(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
			return
		}

		serviceID, err := validators.ParsePathID(r, "serviceId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status, err := svc.IsFavorite(ctx, middleware.PrincipalFromContext(ctx), serviceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
