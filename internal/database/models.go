package database

import "github.com/jackc/pgx/v5/pgtype"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
	IsSuperuser  bool
	IsStaff      bool
	CreatedAt    pgtype.Timestamptz
}

// IsAdmin reports whether the user holds admin rights through any of the
// role, superuser or staff markers.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsSuperuser || u.IsStaff
}

type Tag struct {
	ID    int64
	Name  string
	Color string
	Slug  string
}

type Ingredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
}
