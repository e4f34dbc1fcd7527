package error

import "net/http"

type ErrorCode string

const (
	UnknownError            ErrorCode = "unknown_error"
	InternalServerError     ErrorCode = "internal_server_error"
	BadRequest              ErrorCode = "bad_request"
	ValidationFailed        ErrorCode = "validation_failed"
	InvalidCredentials      ErrorCode = "invalid_credentials"
	InvalidAccessToken      ErrorCode = "invalid_access_token"
	ExpiredAccessToken      ErrorCode = "expired_access_token"
	InsufficientPermissions ErrorCode = "insufficient_permissions"
	WeakPassword            ErrorCode = "weak_password"
	EmailConflict           ErrorCode = "email_conflict"
	UsernameConflict        ErrorCode = "username_conflict"
	RecipeNotFound          ErrorCode = "recipe_not_found"
	RecipeNotOwned          ErrorCode = "recipe_not_owned"
	IngredientNotFound      ErrorCode = "ingredient_not_found"
	TagNotFound             ErrorCode = "tag_not_found"
	UserNotFound            ErrorCode = "user_not_found"
	AlreadyInFavorites      ErrorCode = "already_in_favorites"
	NotInFavorites          ErrorCode = "not_in_favorites"
	AlreadyInCart           ErrorCode = "already_in_shopping_cart"
	NotInCart               ErrorCode = "not_in_shopping_cart"
	SelfSubscription        ErrorCode = "self_subscription"
	AlreadySubscribed       ErrorCode = "already_subscribed"
	NotSubscribed           ErrorCode = "not_subscribed"
	InvalidPassword         ErrorCode = "invalid_password"
)

var errorCodeToStatusCode = map[ErrorCode]int{
	UnknownError:            0, // No error code - unknown
	InternalServerError:     http.StatusInternalServerError,
	BadRequest:              http.StatusBadRequest,
	ValidationFailed:        http.StatusBadRequest,
	InvalidAccessToken:      http.StatusUnauthorized,
	ExpiredAccessToken:      http.StatusUnauthorized,
	InsufficientPermissions: http.StatusForbidden,
	WeakPassword:            http.StatusBadRequest,
	EmailConflict:           http.StatusConflict,
	UsernameConflict:        http.StatusConflict,
	RecipeNotFound:          http.StatusNotFound,
	RecipeNotOwned:          http.StatusForbidden,
	IngredientNotFound:      http.StatusNotFound,
	TagNotFound:             http.StatusNotFound,
	UserNotFound:            http.StatusNotFound,
	AlreadyInFavorites:      http.StatusBadRequest,
	NotInFavorites:          http.StatusBadRequest,
	AlreadyInCart:           http.StatusBadRequest,
	NotInCart:               http.StatusBadRequest,
	SelfSubscription:        http.StatusBadRequest,
	AlreadySubscribed:       http.StatusBadRequest,
	NotSubscribed:           http.StatusBadRequest,
	InvalidCredentials:      http.StatusUnauthorized,
	InvalidPassword:         http.StatusBadRequest,
}

func (ec ErrorCode) StatusCode() int {
	return errorCodeToStatusCode[ec]
}

func (ec ErrorCode) String() string {
	return string(ec)
}
