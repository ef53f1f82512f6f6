package favorites

import (
	"context"
	"testing"

	"github.com/angelmondragon/bookaro-backend/internal/catalog"
	"github.com/angelmondragon/bookaro-backend/internal/identity"
	"github.com/angelmondragon/bookaro-backend/internal/testdb"
	"github.com/angelmondragon/bookaro-backend/internal/users"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteSetSemantics(t *testing.T) {
	client := testdb.New(t)
	gate, err := identity.NewGate(users.NewRepository(client.DB()))
	require.NoError(t, err)
	catalogSvc, err := catalog.NewService(catalog.NewRepository(client.DB()))
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(client.DB()),
		Catalog:  catalogSvc,
		Identity: gate,
	})
	require.NoError(t, err)

	customer := testdb.User(t, client, "customer@example.com", enums.UserRoleCustomer)
	owner := testdb.User(t, client, "vendor@example.com", enums.UserRoleVendor)
	vendor := testdb.Vendor(t, client, owner, "Sparkle Cleaners")
	cleaning := testdb.Service(t, client, vendor, "Deep Cleaning", "1500.00")
	plumbing := testdb.Service(t, client, vendor, "Pipe Repair", "800.00")
	ctx := context.Background()

	added, err := svc.Add(ctx, customer.Email, cleaning.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deep Cleaning", added.Service.Name)

	_, err = svc.Add(ctx, customer.Email, cleaning.ID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))

	_, err = svc.Add(ctx, customer.Email, plumbing.ID+100)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Add(ctx, customer.Email, plumbing.ID)
	require.NoError(t, err)

	list, err := svc.List(ctx, customer.Email)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Pipe Repair", list[0].Service.Name)
	assert.Equal(t, "Sparkle Cleaners", list[0].Service.VendorName)

	status, err := svc.IsFavorite(ctx, customer.Email, cleaning.ID)
	require.NoError(t, err)
	assert.True(t, status.IsFavorite)

	require.NoError(t, svc.Remove(ctx, customer.Email, cleaning.ID))
	require.NoError(t, svc.Remove(ctx, customer.Email, cleaning.ID))

	status, err = svc.IsFavorite(ctx, customer.Email, cleaning.ID)
	require.NoError(t, err)
	assert.False(t, status.IsFavorite)

	ownerList, err := svc.List(ctx, owner.Email)
	require.NoError(t, err)
	assert.Empty(t, ownerList)
}
