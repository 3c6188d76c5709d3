// Package policy decides who may see or mutate which resource.
//
// Decide is a pure function: it performs no I/O and trusts the role and
// subject taken from verified token claims. Callers load the ownership facts
// of the resource first and pass them in a Resource value.
package policy

import "github.com/ariebrainware/therapist-booking/model"

// Operation names an action on a resource type.
type Operation string

const (
	BookingCreate       Operation = "booking.create"
	BookingList         Operation = "booking.list"
	BookingRead         Operation = "booking.read"
	BookingDelete       Operation = "booking.delete"
	BookingUpdateStatus Operation = "booking.update_status"

	ReviewCreate Operation = "review.create"
	ReviewRead   Operation = "review.read"

	TherapistCreate       Operation = "therapist.create"
	TherapistUpdate       Operation = "therapist.update"
	TherapistUpdateStatus Operation = "therapist.update_status"
	TherapistDelete       Operation = "therapist.delete"

	UserList   Operation = "user.list"
	UserCreate Operation = "user.create"
	UserRead   Operation = "user.read"
	UserUpdate Operation = "user.update"
	UserDelete Operation = "user.delete"

	NotificationCreate   Operation = "notification.create"
	NotificationRead     Operation = "notification.read"
	NotificationMarkRead Operation = "notification.mark_read"
)

// Decision is the outcome of a policy check.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// Actor is the authenticated caller.
type Actor struct {
	ID   uint
	Role model.Role
}

// Resource carries the ownership facts of the target.
//
// OwnerID is the account that owns the row: the booking requester, the
// notification recipient, the user record itself, or for reviews the
// requester of the reviewed booking. AssigneeID is the account owning the
// therapist profile involved (booking's assigned therapist, or the profile
// being edited).
type Resource struct {
	OwnerID    uint
	AssigneeID uint
}

func (a Actor) owns(id uint) bool {
	return a.ID != 0 && a.ID == id
}

// Decide evaluates op for actor against res. Unknown roles and unknown
// operations are always denied.
func Decide(op Operation, actor Actor, res Resource) Decision {
	if !actor.Role.Valid() {
		return Deny
	}
	isAdmin := actor.Role == model.RoleAdmin

	switch op {
	case BookingCreate:
		return Decision(actor.Role == model.RoleUser)

	case BookingList, BookingRead, BookingDelete:
		switch actor.Role {
		case model.RoleAdmin:
			return Allow
		case model.RoleUser:
			return Decision(actor.owns(res.OwnerID))
		case model.RoleTherapist:
			return Decision(actor.owns(res.AssigneeID))
		}

	case BookingUpdateStatus:
		switch actor.Role {
		case model.RoleAdmin:
			return Allow
		case model.RoleTherapist:
			return Decision(actor.owns(res.AssigneeID))
		}
		return Deny

	case ReviewCreate:
		return Decision(actor.Role == model.RoleUser && actor.owns(res.OwnerID))

	case ReviewRead:
		return Allow

	case TherapistUpdate, TherapistUpdateStatus:
		if isAdmin {
			return Allow
		}
		return Decision(actor.Role == model.RoleTherapist && actor.owns(res.AssigneeID))

	case TherapistCreate, TherapistDelete, UserList, UserCreate, UserDelete, NotificationCreate:
		return Decision(isAdmin)

	case UserRead, UserUpdate:
		return Decision(isAdmin || actor.owns(res.OwnerID))

	case NotificationRead, NotificationMarkRead:
		return Decision(actor.owns(res.OwnerID))
	}
	return Deny
}

// ScopeKind selects which rows a list query may return.
type ScopeKind int

const (
	ScopeNone ScopeKind = iota
	ScopeAll
	// ScopeOwner restricts rows to OwnerID == Scope.UserID.
	ScopeOwner
	// ScopeAssignee restricts rows to AssigneeID == Scope.UserID.
	ScopeAssignee
)

// Scope is the list filter equivalent of Decide for BookingList.
type Scope struct {
	Kind   ScopeKind
	UserID uint
}

// BookingScope returns the rows of the bookings table actor may list.
// Applying the scope yields exactly the rows for which Decide(BookingList)
// would allow.
func BookingScope(actor Actor) Scope {
	if actor.ID == 0 && actor.Role != model.RoleAdmin {
		return Scope{Kind: ScopeNone}
	}
	switch actor.Role {
	case model.RoleAdmin:
		return Scope{Kind: ScopeAll}
	case model.RoleUser:
		return Scope{Kind: ScopeOwner, UserID: actor.ID}
	case model.RoleTherapist:
		return Scope{Kind: ScopeAssignee, UserID: actor.ID}
	}
	return Scope{Kind: ScopeNone}
}
