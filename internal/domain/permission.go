package domain

import "fmt"

// Permission is an opaque authorization tag granted to a user. The set is
// closed: tags outside this enumeration are rejected at parse time instead of
// silently evaluating to "denied" later.
type Permission string

const (
	PermCreateUsers   Permission = "CAN_CREATE_USERS"
	PermReadUsers     Permission = "CAN_READ_USERS"
	PermUpdateUsers   Permission = "CAN_UPDATE_USERS"
	PermDeleteUsers   Permission = "CAN_DELETE_USERS"
	PermPlaceOrder    Permission = "CAN_PLACE_ORDER"
	PermSearchOrder   Permission = "CAN_SEARCH_ORDER"
	PermCancelOrder   Permission = "CAN_CANCEL_ORDER"
	PermTrackOrder    Permission = "CAN_TRACK_ORDER"
	PermScheduleOrder Permission = "CAN_SCHEDULE_ORDER"
)

var allPermissions = map[Permission]struct{}{
	PermCreateUsers:   {},
	PermReadUsers:     {},
	PermUpdateUsers:   {},
	PermDeleteUsers:   {},
	PermPlaceOrder:    {},
	PermSearchOrder:   {},
	PermCancelOrder:   {},
	PermTrackOrder:    {},
	PermScheduleOrder: {},
}

// ParsePermission validates a raw tag against the closed enumeration.
func ParsePermission(raw string) (Permission, error) {
	p := Permission(raw)
	if !p.Valid() {
		return "", fmt.Errorf("unknown permission %q", raw)
	}
	return p, nil
}

// ParsePermissions validates a list of raw tags.
func ParsePermissions(raw []string) ([]Permission, error) {
	perms := make([]Permission, 0, len(raw))
	for _, r := range raw {
		p, err := ParsePermission(r)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, nil
}

// Valid reports whether the tag belongs to the enumeration.
func (p Permission) Valid() bool {
	_, ok := allPermissions[p]
	return ok
}

func (p Permission) String() string {
	return string(p)
}

// AllPermissions returns every known tag.
func AllPermissions() []Permission {
	return []Permission{
		PermCreateUsers,
		PermReadUsers,
		PermUpdateUsers,
		PermDeleteUsers,
		PermPlaceOrder,
		PermSearchOrder,
		PermCancelOrder,
		PermTrackOrder,
		PermScheduleOrder,
	}
}

// AdminPermissions is the permission set whose full possession marks a caller
// as administrator on the server: every user-management tag plus the core
// order tags. There is no dedicated role flag; administrator status is
// inferred from holding all of these.
var AdminPermissions = []Permission{
	PermCreateUsers,
	PermReadUsers,
	PermUpdateUsers,
	PermDeleteUsers,
	PermPlaceOrder,
	PermCancelOrder,
	PermSearchOrder,
	PermScheduleOrder,
}
