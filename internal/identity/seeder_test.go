package identity_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/bookaro-backend/internal/identity"
	"github.com/angelmondragon/bookaro-backend/internal/testdb"
	"github.com/angelmondragon/bookaro-backend/internal/users"
	"github.com/angelmondragon/bookaro-backend/pkg/config"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	"github.com/angelmondragon/bookaro-backend/pkg/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastArgon = config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16}

func TestSeederCreatesThenRefreshes(t *testing.T) {
	client := testdb.New(t)
	repo := users.NewRepository(client.DB())
	seeder, err := identity.NewSeeder(repo, fastArgon, nil)
	require.NoError(t, err)
	ctx := context.Background()

	seeds := []identity.SeedIdentity{
		{Email: "user@bookaro.test", Password: "password123", FullName: "Test User", Role: enums.UserRoleCustomer},
		{Email: "vendor@bookaro.test", Password: "password123", FullName: "Test Vendor", Role: enums.UserRoleVendor},
	}
	result, err := seeder.Seed(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, identity.SeedResult{Created: 2}, result)

	result, err = seeder.Seed(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, identity.SeedResult{}, result, "second run is a no-op")

	seeds[0].Password = "rotated"
	result, err = seeder.Seed(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)

	stored, err := repo.FindByEmail(ctx, "user@bookaro.test")
	require.NoError(t, err)
	ok, err := security.VerifyPassword("rotated", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSeederRejectsInvalidIdentity(t *testing.T) {
	client := testdb.New(t)
	seeder, err := identity.NewSeeder(users.NewRepository(client.DB()), fastArgon, nil)
	require.NoError(t, err)

	_, err = seeder.Seed(context.Background(), []identity.SeedIdentity{{Email: "x@y.z", Password: "p", FullName: "X", Role: "ROOT"}})
	assert.Error(t, err)
}

func TestLoadSeedIdentities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	payload := `{"identities":[{"email":"admin@bookaro.test","password":"admin123","full_name":"Admin","role":"ADMIN"}],"vendors":[]}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	identities, err := identity.LoadSeedIdentities(path)
	require.NoError(t, err)
	require.Len(t, identities, 1)
	assert.Equal(t, enums.UserRoleAdmin, identities[0].Role)

	_, err = identity.LoadSeedIdentities(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
