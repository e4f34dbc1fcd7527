package database

import "context"

const createUser = `
INSERT INTO users (email, username, first_name, last_name, password_hash, role)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, email, username, first_name, last_name, password_hash, role, is_superuser, is_staff, created_at
`

type CreateUserParams struct {
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         Role
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.Email, arg.Username, arg.FirstName, arg.LastName, arg.PasswordHash, arg.Role)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.Role, &u.IsSuperuser, &u.IsStaff, &u.CreatedAt)
	return u, err
}

const getUserByID = `
SELECT id, email, username, first_name, last_name, password_hash, role, is_superuser, is_staff, created_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.Role, &u.IsSuperuser, &u.IsStaff, &u.CreatedAt)
	return u, err
}

const getUserByEmail = `
SELECT id, email, username, first_name, last_name, password_hash, role, is_superuser, is_staff, created_at
FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.Role, &u.IsSuperuser, &u.IsStaff, &u.CreatedAt)
	return u, err
}

const getAdminCount = `
SELECT COUNT(*) FROM users WHERE role = 'admin' OR is_superuser OR is_staff
`

func (q *Queries) GetAdminCount(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, getAdminCount).Scan(&count)
	return count, err
}

const updateUserPassword = `
UPDATE users SET password_hash = $2 WHERE id = $1
`

type UpdateUserPasswordParams struct {
	ID           int64
	PasswordHash string
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.Exec(ctx, updateUserPassword, arg.ID, arg.PasswordHash)
	return err
}

const checkUsersTableExists = `
SELECT EXISTS (
    SELECT 1 FROM information_schema.tables
    WHERE table_schema = 'public' AND table_name = 'users'
)
`

func (q *Queries) CheckUsersTableExists(ctx context.Context) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, checkUsersTableExists).Scan(&exists)
	return exists, err
}
