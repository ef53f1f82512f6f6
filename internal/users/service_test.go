package users_test

import (
	"context"
	"testing"

	"github.com/angelmondragon/bookaro-backend/internal/identity"
	"github.com/angelmondragon/bookaro-backend/internal/testdb"
	"github.com/angelmondragon/bookaro-backend/internal/users"
	"github.com/angelmondragon/bookaro-backend/pkg/config"
	"github.com/angelmondragon/bookaro-backend/pkg/db"
	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"github.com/angelmondragon/bookaro-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPassword = config.PasswordConfig{ArgonMemoryKB: 8192}

func newService(t *testing.T) (users.Service, *db.Client) {
	t.Helper()
	client := testdb.New(t)
	repo := users.NewRepository(client.DB())
	gate, err := identity.NewGate(repo)
	require.NoError(t, err)
	svc, err := users.NewService(users.ServiceParams{Repo: repo, Identity: gate, Password: testPassword})
	require.NoError(t, err)
	return svc, client
}

func strPtr(v string) *string { return &v }

func TestProfileReturnsActiveAccount(t *testing.T) {
	svc, client := newService(t)
	user := testdb.User(t, client, "profile@example.com", enums.UserRoleCustomer)

	dto, err := svc.Profile(context.Background(), " Profile@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, dto.ID)
	assert.Equal(t, "profile@example.com", dto.Email)

	_, err = svc.Profile(context.Background(), "ghost@example.com")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateProfileWritesOnlyProvidedFields(t *testing.T) {
	svc, client := newService(t)
	testdb.User(t, client, "edit@example.com", enums.UserRoleCustomer)
	ctx := context.Background()
	lat := 12.97

	dto, err := svc.UpdateProfile(ctx, "edit@example.com", users.ProfileUpdate{
		FullName: strPtr("  Ravi Kumar "),
		City:     strPtr("Bengaluru"),
		ZipCode:  strPtr("560001"),
		Latitude: &lat,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ravi Kumar", dto.FullName)
	assert.Equal(t, "555-0100", dto.Phone)
	require.NotNil(t, dto.City)
	assert.Equal(t, "Bengaluru", *dto.City)
	require.NotNil(t, dto.Latitude)
	assert.InDelta(t, 12.97, *dto.Latitude, 1e-9)
	assert.Nil(t, dto.Address)

	dto, err = svc.UpdateProfile(ctx, "edit@example.com", users.ProfileUpdate{City: strPtr("  ")})
	require.NoError(t, err)
	assert.Nil(t, dto.City)
	assert.Equal(t, "Ravi Kumar", dto.FullName)

	_, err = svc.UpdateProfile(ctx, "edit@example.com", users.ProfileUpdate{FullName: strPtr(" ")})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestUpdateProfileWithNoChangesReturnsCurrent(t *testing.T) {
	svc, client := newService(t)
	user := testdb.User(t, client, "same@example.com", enums.UserRoleVendor)

	dto, err := svc.UpdateProfile(context.Background(), "same@example.com", users.ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, user.ID, dto.ID)
	assert.Equal(t, enums.UserRoleVendor, dto.Role)
}

func TestChangePassword(t *testing.T) {
	svc, client := newService(t)
	ctx := context.Background()
	hash, err := security.HashPassword("old-secret", testPassword)
	require.NoError(t, err)
	user := &models.User{Email: "pw@example.com", PasswordHash: hash, FullName: "Pw", Role: enums.UserRoleCustomer, IsActive: true}
	require.NoError(t, users.NewRepository(client.DB()).Create(ctx, user))

	err = svc.ChangePassword(ctx, "pw@example.com", users.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "new-secret"})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	require.NoError(t, svc.ChangePassword(ctx, "pw@example.com", users.ChangePasswordRequest{OldPassword: "old-secret", NewPassword: "new-secret"}))

	stored, err := users.NewRepository(client.DB()).FindByID(ctx, user.ID)
	require.NoError(t, err)
	ok, err := security.VerifyPassword("new-secret", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = security.VerifyPassword("old-secret", stored.PasswordHash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChangePasswordWithUnreadableHashIsValidationError(t *testing.T) {
	svc, client := newService(t)
	testdb.User(t, client, "legacy@example.com", enums.UserRoleCustomer)

	err := svc.ChangePassword(context.Background(), "legacy@example.com", users.ChangePasswordRequest{OldPassword: "unused", NewPassword: "new-secret"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestDeactivateStopsResolution(t *testing.T) {
	svc, client := newService(t)
	user := testdb.User(t, client, "leave@example.com", enums.UserRoleCustomer)
	ctx := context.Background()

	require.NoError(t, svc.Deactivate(ctx, "leave@example.com"))

	stored, err := users.NewRepository(client.DB()).FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	_, err = svc.Profile(ctx, "leave@example.com")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
	err = svc.Deactivate(ctx, "leave@example.com")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := users.NewService(users.ServiceParams{})
	assert.Error(t, err)
	_, err = users.NewService(users.ServiceParams{Repo: users.NewRepository(testdb.New(t).DB())})
	assert.Error(t, err)
}
