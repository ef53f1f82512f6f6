package users

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/angelmondragon/bookaro-backend/pkg/config"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"github.com/angelmondragon/bookaro-backend/pkg/logger"
	"github.com/angelmondragon/bookaro-backend/pkg/security"
	"gorm.io/gorm"
)

// Service manages the signed-in user's own account.
type Service interface {
	Profile(ctx context.Context, principal string) (*UserDTO, error)
	UpdateProfile(ctx context.Context, principal string, input ProfileUpdate) (*UserDTO, error)
	ChangePassword(ctx context.Context, principal string, input ChangePasswordRequest) error
	Deactivate(ctx context.Context, principal string) error
}

type principalResolver interface {
	Resolve(ctx context.Context, principal string) (*models.User, error)
}

type ServiceParams struct {
	Repo     *Repository
	Identity principalResolver
	Password config.PasswordConfig
	Logger   *logger.Logger
}

type service struct {
	repo     *Repository
	identity principalResolver
	password config.PasswordConfig
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Identity == nil {
		return nil, fmt.Errorf("identity gate is required")
	}
	return &service{
		repo:     params.Repo,
		identity: params.Identity,
		password: params.Password,
		logg:     params.Logger,
	}, nil
}

func (s *service) Profile(ctx context.Context, principal string) (*UserDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, principal string, input ProfileUpdate) (*UserDTO, error) {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	changes := profileChanges(input)
	if name, ok := changes["full_name"]; ok && name == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
	}
	if len(changes) > 0 {
		if err := s.apply(ctx, user.ID, changes, "update profile"); err != nil {
			return nil, err
		}
	}

	fresh, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		return nil, lookupError(err)
	}
	return FromModel(fresh), nil
}

func (s *service) ChangePassword(ctx context.Context, principal string, input ChangePasswordRequest) error {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return err
	}
	ok, err := security.VerifyPassword(input.OldPassword, user.PasswordHash)
	if err != nil && !errors.Is(err, security.ErrInvalidHash) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid old password")
	}
	hash, err := security.HashPassword(input.NewPassword, s.password)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid new password")
	}
	if err := s.apply(ctx, user.ID, map[string]any{"password_hash": hash}, "change password"); err != nil {
		return err
	}
	s.log(ctx, user.ID, "password changed")
	return nil
}

// Deactivate marks the account inactive. The principal stops resolving, so
// every later call with a still-valid token answers NotFound and login fails.
func (s *service) Deactivate(ctx context.Context, principal string) error {
	user, err := s.identity.Resolve(ctx, principal)
	if err != nil {
		return err
	}
	if err := s.apply(ctx, user.ID, map[string]any{"is_active": false}, "deactivate account"); err != nil {
		return err
	}
	s.log(ctx, user.ID, "account deactivated")
	return nil
}

func (s *service) apply(ctx context.Context, id int64, changes map[string]any, action string) error {
	affected, err := s.repo.UpdateColumns(ctx, id, changes)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func (s *service) log(ctx context.Context, userID int64, msg string) {
	s.logg.Info(s.logg.WithUserID(ctx, strconv.FormatInt(userID, 10)), msg)
}

func profileChanges(in ProfileUpdate) map[string]any {
	changes := map[string]any{}
	text := map[string]*string{
		"full_name": in.FullName,
		"phone":     in.Phone,
		"address":   in.Address,
		"city":      in.City,
		"state":     in.State,
		"zip_code":  in.ZipCode,
	}
	for column, value := range text {
		if value == nil {
			continue
		}
		trimmed := strings.TrimSpace(*value)
		switch {
		case trimmed != "":
			changes[column] = trimmed
		case column == "phone":
			changes[column] = ""
		default:
			changes[column] = nil
		}
	}
	if in.Latitude != nil {
		changes["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		changes["longitude"] = *in.Longitude
	}
	return changes
}

func lookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
}
