package addresses

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/bookaro-backend/internal/users"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service keeps exactly one default address per user with at least one
// address. Every mutation runs in a transaction holding the owner's row lock.
type Service interface {
	List(ctx context.Context, principal string) ([]AddressDTO, error)
	Create(ctx context.Context, principal string, input AddressInput) (AddressDTO, error)
	Update(ctx context.Context, principal string, id int64, input AddressInput) (AddressDTO, error)
	Delete(ctx context.Context, principal string, id int64) error
	SetDefault(ctx context.Context, principal string, id int64) (AddressDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type principalResolver interface {
	Resolve(ctx context.Context, principal string) (*models.User, error)
}

// ServiceParams groups dependencies for the address service.
type ServiceParams struct {
	DB       txRunner
	Repo     *Repository
	Users    *users.Repository
	Identity principalResolver
}

type service struct {
	db       txRunner
	repo     *Repository
	users    *users.Repository
	identity principalResolver
}

// NewService builds an address service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("address repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Identity == nil {
		return nil, fmt.Errorf("identity gate is required")
	}
	return &service{
		db:       params.DB,
		repo:     params.Repo,
		users:    params.Users,
		identity: params.Identity,
	}, nil
}

func (s *service) List(ctx context.Context, principal string) ([]AddressDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	out := make([]AddressDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, principal string, input AddressInput) (AddressDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return AddressDTO{}, err
	}
	address := &models.Address{UserID: user.ID}
	if err := input.apply(address); err != nil {
		return AddressDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address type")
	}

	err = s.mutate(ctx, user.ID, func(repo *Repository) error {
		count, err := repo.CountByUser(ctx, user.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count addresses")
		}
		makeDefault := input.IsDefault || count == 0
		if makeDefault {
			if err := repo.ClearDefault(ctx, user.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear default address")
			}
		}
		if err := repo.Create(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create address")
		}
		if makeDefault {
			if err := repo.MarkDefault(ctx, address.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark default address")
			}
			address.IsDefault = true
		}
		return nil
	})
	if err != nil {
		return AddressDTO{}, err
	}
	return FromModel(address), nil
}

// Update replaces the editable fields. Setting is_default on a non-default
// address moves the default to it; clearing the flag on the current default
// is ignored.
func (s *service) Update(ctx context.Context, principal string, id int64, input AddressInput) (AddressDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return AddressDTO{}, err
	}

	var address *models.Address
	err = s.mutate(ctx, user.ID, func(repo *Repository) error {
		address, err = s.loadOwned(ctx, repo, user.ID, id)
		if err != nil {
			return err
		}
		if err := input.apply(address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid address type")
		}
		if input.IsDefault && !address.IsDefault {
			if err := repo.ClearDefault(ctx, user.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear default address")
			}
			address.IsDefault = true
		}
		if err := repo.Save(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update address")
		}
		return nil
	})
	if err != nil {
		return AddressDTO{}, err
	}
	return FromModel(address), nil
}

// Delete removes the address and promotes the most recently created
// remaining address when the default was removed.
func (s *service) Delete(ctx context.Context, principal string, id int64) error {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return err
	}
	return s.mutate(ctx, user.ID, func(repo *Repository) error {
		address, err := s.loadOwned(ctx, repo, user.ID, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, address.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete address")
		}
		if !address.IsDefault {
			return nil
		}
		next, err := repo.LatestByUser(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load remaining address")
		}
		if err := repo.MarkDefault(ctx, next.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "promote default address")
		}
		return nil
	})
}

func (s *service) SetDefault(ctx context.Context, principal string, id int64) (AddressDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return AddressDTO{}, err
	}

	var address *models.Address
	err = s.mutate(ctx, user.ID, func(repo *Repository) error {
		address, err = s.loadOwned(ctx, repo, user.ID, id)
		if err != nil {
			return err
		}
		if address.IsDefault {
			return nil
		}
		if err := repo.ClearDefault(ctx, user.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear default address")
		}
		if err := repo.MarkDefault(ctx, address.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark default address")
		}
		address.IsDefault = true
		return nil
	})
	if err != nil {
		return AddressDTO{}, err
	}
	return FromModel(address), nil
}

// mutate runs fn in a transaction after locking the owning user row.
func (s *service) mutate(ctx context.Context, userID int64, fn func(repo *Repository) error) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).LockByID(ctx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock user")
		}
		return fn(s.repo.WithTx(tx))
	})
}

func (s *service) loadOwned(ctx context.Context, repo *Repository, userID, id int64) (*models.Address, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id is required")
	}
	address, err := repo.FindOwned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load address")
	}
	return address, nil
}
