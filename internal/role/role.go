// Package role defines the access levels users hold and maps them
// between their database, JWT claim and in-memory representations.
package role

import (
	"math"

	"github.com/foodgram-app/backend/internal/database"
)

// Role is an ordered access level. Higher values grant strictly more
// access, so handlers gate with a simple comparison.
type Role int

const (
	RoleUnknown Role = math.MinInt
	RoleUser    Role = 100
	RoleAdmin   Role = 200
)

var roleNames = map[Role]string{
	RoleAdmin: "admin",
	RoleUser:  "user",
}

// String returns the claim name for the role, "unknown" for
// unrecognized values.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// ToRole parses a role claim. Unrecognized names map to RoleUnknown,
// which fails every authorization check.
func ToRole(name string) Role {
	for r, n := range roleNames {
		if n == name {
			return r
		}
	}
	return RoleUnknown
}

// FromUser resolves a user's effective role. Superuser and staff
// flags imported from legacy data grant admin regardless of the
// role column.
func FromUser(u database.User) Role {
	if u.IsAdmin() {
		return RoleAdmin
	}
	switch u.Role {
	case database.RoleAdmin:
		return RoleAdmin
	case database.RoleUser:
		return RoleUser
	}
	return RoleUnknown
}
