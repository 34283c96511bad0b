// Package permissions evaluates set-membership predicates over an identity's
// permission tags. The tags are opaque: the client never interprets their
// semantics beyond membership.
package permissions

import "github.com/aaleksaaleksic/food-ordering-system/internal/domain"

// Set is an identity's granted permissions.
type Set map[domain.Permission]struct{}

// NewSet builds a Set from raw tags, rejecting anything outside the closed
// enumeration at construction time rather than letting a typoed tag silently
// evaluate false forever.
func NewSet(raw []string) (Set, error) {
	perms, err := domain.ParsePermissions(raw)
	if err != nil {
		return nil, err
	}
	set := make(Set, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set, nil
}

// MustSet is NewSet for fixed, known-valid tag lists in tests.
func MustSet(raw []string) Set {
	set, err := NewSet(raw)
	if err != nil {
		panic(err)
	}
	return set
}

// Can reports membership of a single permission. A nil set always denies.
func (s Set) Can(p domain.Permission) bool {
	_, ok := s[p]
	return ok
}

// CanAny reports whether at least one of perms is held.
func (s Set) CanAny(perms ...domain.Permission) bool {
	for _, p := range perms {
		if s.Can(p) {
			return true
		}
	}
	return false
}

// CanAll reports whether every one of perms is held. CanAll() with no
// arguments is vacuously true; callers must not pass an empty requirement
// list expecting a deny.
func (s Set) CanAll(perms ...domain.Permission) bool {
	for _, p := range perms {
		if !s.Can(p) {
			return false
		}
	}
	return true
}

// adminSet is the fixed reference list that defines administrator status on
// the client. Admin is not a server-side flag: it is inferred from holding
// every user-management permission. A permission added to this list later
// would silently demote existing admins, which is why the list is pinned
// here and covered by tests.
var adminSet = []domain.Permission{
	domain.PermCreateUsers,
	domain.PermReadUsers,
	domain.PermUpdateUsers,
	domain.PermDeleteUsers,
}

// IsAdmin reports whether the set covers the whole admin reference list.
func (s Set) IsAdmin() bool {
	return s.CanAll(adminSet...)
}

// AdminSet returns a copy of the admin reference list.
func AdminSet() []domain.Permission {
	return append([]domain.Permission(nil), adminSet...)
}
