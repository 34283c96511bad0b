package domain

import "time"

// User is an account in the ordering system. Authorization is entirely
// permission-set membership; there is no separate role column.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Permissions  []Permission
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName is the display name used in order and error summaries.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// HasPermission reports membership of a single tag.
func (u *User) HasPermission(p Permission) bool {
	if u == nil {
		return false
	}
	for _, held := range u.Permissions {
		if held == p {
			return true
		}
	}
	return false
}

// HasAll reports whether every given tag is held. Vacuously true for an
// empty list.
func (u *User) HasAll(perms ...Permission) bool {
	if u == nil {
		return false
	}
	for _, p := range perms {
		if !u.HasPermission(p) {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one given tag is held.
func (u *User) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if u.HasPermission(p) {
			return true
		}
	}
	return false
}

// IsAdmin infers administrator status from holding the full admin set.
func (u *User) IsAdmin() bool {
	return u.HasAll(AdminPermissions...)
}
