package controllers

import (
	"net/http"

	"github.com/angelmondragon/bookaro-backend/api/responses"
	"github.com/angelmondragon/bookaro-backend/api/validators"
	"github.com/angelmondragon/bookaro-backend/internal/catalog"
	"github.com/angelmondragon/bookaro-backend/internal/reviews"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"github.com/angelmondragon/bookaro-backend/pkg/logger"
)

// ServiceDetail returns a service with its vendor and rating aggregate.
func ServiceDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		serviceID, err := validators.ParsePathID(r, "serviceId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		detail, err := svc.GetServiceDetail(ctx, serviceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// ServiceReviews lists the reviews written for a service, newest first.
func ServiceReviews(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reviews service unavailable"))
			return
		}

		serviceID, err := validators.ParsePathID(r, "serviceId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListByService(ctx, serviceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
