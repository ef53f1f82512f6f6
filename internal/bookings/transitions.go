package bookings

import (
	"github.com/angelmondragon/bookaro-backend/internal/identity"
	"github.com/angelmondragon/bookaro-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
)

// Actor is the side of a booking allowed to trigger a transition.
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorVendor   Actor = "vendor"
)

type transitionRule struct {
	from  enums.BookingStatus
	to    enums.BookingStatus
	actor Actor
}

// transitionTable lists every permitted status change. Anything absent is rejected.
var transitionTable = []transitionRule{
	{from: enums.BookingStatusPending, to: enums.BookingStatusCancelled, actor: ActorCustomer},
	{from: enums.BookingStatusPending, to: enums.BookingStatusConfirmed, actor: ActorVendor},
	{from: enums.BookingStatusConfirmed, to: enums.BookingStatusCompleted, actor: ActorVendor},
	// Vendors may complete straight from PENDING.
	{from: enums.BookingStatusPending, to: enums.BookingStatusCompleted, actor: ActorVendor},
}

func (a Actor) matches(rel identity.Relationship) bool {
	switch a {
	case ActorCustomer:
		return rel.Customer
	case ActorVendor:
		return rel.Vendor
	default:
		return false
	}
}

// authorizeTransition checks a requested change against the table. Only a
// caller unrelated to the booking is Forbidden; any participant asking for a
// pair the table does not grant gets InvalidTransition.
func authorizeTransition(rel identity.Relationship, from, to enums.BookingStatus) error {
	if !rel.IsParticipant() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a participant of this booking")
	}
	if from.IsTerminal() {
		return invalidTransition(from, to)
	}
	for _, rule := range transitionTable {
		if rule.from == from && rule.to == to && rule.actor.matches(rel) {
			return nil
		}
	}
	return invalidTransition(from, to)
}

func invalidTransition(from, to enums.BookingStatus) error {
	return pkgerrors.New(pkgerrors.CodeInvalidTransition, "invalid status transition").
		WithDetails(map[string]string{"from": string(from), "to": string(to)})
}
