package users

import (
	"net/http"
	"strconv"
)

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// parseRecipesLimit reads the optional recipes_limit query parameter that
// caps the recipes embedded in each subscription feed entry. Malformed or
// negative values are ignored.
func parseRecipesLimit(r *http.Request) *int32 {
	raw := r.URL.Query().Get("recipes_limit")
	if raw == "" {
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || n < 0 {
		return nil
	}
	limit := int32(n)
	return &limit
}
