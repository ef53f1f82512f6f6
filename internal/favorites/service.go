package favorites

import (
	"context"
	"fmt"

	pkgdb "github.com/angelmondragon/bookaro-backend/pkg/db"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
)

type principalResolver interface {
	Resolve(ctx context.Context, principal string) (*models.User, error)
}

type serviceLookup interface {
	FindService(ctx context.Context, id int64) (*models.Service, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo     *Repository
	Catalog  serviceLookup
	Identity principalResolver
}

// Service exposes the per-user favorite set.
type Service interface {
	Add(ctx context.Context, principal string, serviceID int64) (FavoriteDTO, error)
	Remove(ctx context.Context, principal string, serviceID int64) error
	IsFavorite(ctx context.Context, principal string, serviceID int64) (FavoriteStatusDTO, error)
	List(ctx context.Context, principal string) ([]FavoriteDTO, error)
}

type service struct {
	repo     *Repository
	catalog  serviceLookup
	identity principalResolver
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("favorites repo is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog lookup is required")
	}
	if params.Identity == nil {
		return nil, fmt.Errorf("identity gate is required")
	}
	return &service{repo: params.Repo, catalog: params.Catalog, identity: params.Identity}, nil
}

// Add ensures the service exists and records it. An existing pair is a conflict.
func (s *service) Add(ctx context.Context, principal string, serviceID int64) (FavoriteDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return FavoriteDTO{}, err
	}
	svc, err := s.catalog.FindService(ctx, serviceID)
	if err != nil {
		return FavoriteDTO{}, err
	}
	exists, err := s.repo.Exists(ctx, user.ID, svc.ID)
	if err != nil {
		return FavoriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check favorite")
	}
	if exists {
		return FavoriteDTO{}, errAlreadyFavorite()
	}
	favorite, err := s.repo.Add(ctx, user.ID, svc.ID)
	if err != nil {
		if pkgdb.IsUniqueViolation(err, "favorites_user_service_key") {
			return FavoriteDTO{}, errAlreadyFavorite()
		}
		return FavoriteDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add favorite")
	}
	favorite.Service = svc
	return fromModel(favorite), nil
}

// Remove drops the favorite regardless of prior state.
func (s *service) Remove(ctx context.Context, principal string, serviceID int64) error {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return err
	}
	if serviceID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "service id is required")
	}
	if err := s.repo.Remove(ctx, user.ID, serviceID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove favorite")
	}
	return nil
}

func (s *service) IsFavorite(ctx context.Context, principal string, serviceID int64) (FavoriteStatusDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return FavoriteStatusDTO{}, err
	}
	exists, err := s.repo.Exists(ctx, user.ID, serviceID)
	if err != nil {
		return FavoriteStatusDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check favorite")
	}
	return FavoriteStatusDTO{ServiceID: serviceID, IsFavorite: exists}, nil
}

func (s *service) List(ctx context.Context, principal string) ([]FavoriteDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list favorites")
	}
	out := make([]FavoriteDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out, nil
}

func errAlreadyFavorite() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "service already in favorites")
}
