package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUsers struct {
	users map[string]*models.User
	err   error
}

func (s stubUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestResolve(t *testing.T) {
	gate, err := NewGate(stubUsers{users: map[string]*models.User{
		"asha@example.com": {ID: 1, Email: "asha@example.com", IsActive: true},
		"dormant@example.com": {ID: 2, Email: "dormant@example.com", IsActive: false},
	}})
	require.NoError(t, err)
	ctx := context.Background()

	user, err := gate.Resolve(ctx, " Asha@Example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	_, err = gate.Resolve(ctx, "ghost@example.com")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = gate.Resolve(ctx, "dormant@example.com")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	_, err = gate.Resolve(ctx, "")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeUnauthorized))
}

func TestResolveLookupFailure(t *testing.T) {
	gate, err := NewGate(stubUsers{err: errors.New("connection reset")})
	require.NoError(t, err)

	_, err = gate.Resolve(context.Background(), "a@b.c")
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInternal))
}

func TestClassifyUsesOwnershipOnly(t *testing.T) {
	customer := &models.User{ID: 10, Role: "VENDOR"}
	vendorOwner := &models.User{ID: 20, Role: "CUSTOMER"}
	stranger := &models.User{ID: 30, Role: "ADMIN"}
	booking := &models.Booking{
		UserID:  10,
		Service: &models.Service{Vendor: &models.Vendor{ID: 5, OwnerUserID: 20}},
	}

	assert.Equal(t, Relationship{Customer: true}, Classify(customer, booking))
	assert.Equal(t, Relationship{Vendor: true}, Classify(vendorOwner, booking))
	assert.Equal(t, Relationship{}, Classify(stranger, booking))

	_, err := RequireParticipant(stranger, booking)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeForbidden))

	rel, err := RequireParticipant(vendorOwner, booking)
	require.NoError(t, err)
	assert.True(t, rel.Vendor)
}

func TestClassifySelfBooking(t *testing.T) {
	owner := &models.User{ID: 7}
	booking := &models.Booking{UserID: 7, Service: &models.Service{Vendor: &models.Vendor{OwnerUserID: 7}}}
	assert.Equal(t, Relationship{Customer: true, Vendor: true}, Classify(owner, booking))
}

func TestIsVendorOfWithoutLoadedVendor(t *testing.T) {
	assert.False(t, IsVendorOf(&models.User{ID: 1}, &models.Booking{UserID: 2}))
	assert.False(t, IsCustomerOf(nil, &models.Booking{UserID: 2}))
	assert.False(t, IsCustomerOf(&models.User{}, &models.Booking{}))
}
