package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/bookaro-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"gorm.io/gorm"
)

type userLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Gate resolves authenticated principals and classifies them against bookings.
// Classification is derived from ownership links only; the stored role is
// never consulted.
type Gate struct {
	users userLookup
}

// NewGate builds a Gate over the user lookup.
func NewGate(users userLookup) (*Gate, error) {
	if users == nil {
		return nil, fmt.Errorf("user lookup is required")
	}
	return &Gate{users: users}, nil
}

// Resolve maps a principal email to its active account.
func (g *Gate) Resolve(ctx context.Context, principal string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(principal))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "principal required")
	}
	user, err := g.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return user, nil
}

// Relationship tells how a user relates to a booking. Both flags may be set
// when a vendor books their own service.
type Relationship struct {
	Customer bool
	Vendor   bool
}

// IsParticipant reports whether the user is the customer or the vendor.
func (r Relationship) IsParticipant() bool {
	return r.Customer || r.Vendor
}

// Classify computes the relationship of user to booking. The booking must
// carry its service and vendor for the vendor side to be recognised.
func Classify(user *models.User, booking *models.Booking) Relationship {
	return Relationship{
		Customer: IsCustomerOf(user, booking),
		Vendor:   IsVendorOf(user, booking),
	}
}

// IsCustomerOf reports whether user placed the booking.
func IsCustomerOf(user *models.User, booking *models.Booking) bool {
	if user == nil || booking == nil {
		return false
	}
	return user.ID != 0 && user.ID == booking.UserID
}

// IsVendorOf reports whether user operates the vendor that owns the booked service.
func IsVendorOf(user *models.User, booking *models.Booking) bool {
	if user == nil || booking == nil || booking.Service == nil || booking.Service.Vendor == nil {
		return false
	}
	return user.ID != 0 && user.ID == booking.Service.Vendor.OwnerUserID
}

// RequireParticipant fails with Forbidden unless the user is the customer or the vendor.
func RequireParticipant(user *models.User, booking *models.Booking) (Relationship, error) {
	rel := Classify(user, booking)
	if !rel.IsParticipant() {
		return rel, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	return rel, nil
}
