package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Querier is implemented by *Queries and by the committed mock used in tests.
type Querier interface {
	// Users
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetAdminCount(ctx context.Context) (int64, error)
	UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error
	CheckUsersTableExists(ctx context.Context) (bool, error)

	// Tags
	ListTags(ctx context.Context) ([]Tag, error)
	GetTag(ctx context.Context, id int64) (Tag, error)
	GetTagsByIDs(ctx context.Context, ids []int64) ([]Tag, error)
	GetRecipeTags(ctx context.Context, recipeID int64) ([]Tag, error)

	// Ingredients
	SearchIngredients(ctx context.Context, name pgtype.Text) ([]Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (Ingredient, error)
	GetIngredientsByIDs(ctx context.Context, ids []int64) ([]Ingredient, error)
	GetRecipeIngredients(ctx context.Context, recipeID int64) ([]GetRecipeIngredientsRow, error)
	CountIngredientsByIDs(ctx context.Context, ids []int64) (int64, error)

	// Recipes
	GetRecipe(ctx context.Context, arg GetRecipeParams) (RecipeRow, error)
	ListRecipes(ctx context.Context, arg ListRecipesParams) ([]RecipeRow, error)
	CountRecipes(ctx context.Context, arg CountRecipesParams) (int64, error)
	CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error)
	UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error
	DeleteRecipe(ctx context.Context, id int64) (int64, error)
	GetRecipeAuthor(ctx context.Context, id int64) (int64, error)
	GetRecipeSummary(ctx context.Context, id int64) (GetRecipeSummaryRow, error)
	AddRecipeTag(ctx context.Context, arg AddRecipeTagParams) error
	ClearRecipeTags(ctx context.Context, recipeID int64) error
	AddRecipeIngredient(ctx context.Context, arg AddRecipeIngredientParams) error
	ClearRecipeIngredients(ctx context.Context, recipeID int64) error
	UpdateRecipeImage(ctx context.Context, arg UpdateRecipeImageParams) error
	ListAuthorRecipes(ctx context.Context, arg ListAuthorRecipesParams) ([]GetRecipeSummaryRow, error)
	CountAuthorRecipes(ctx context.Context, authorID int64) (int64, error)

	// Favorites, purchases, subscriptions
	CreateFavorite(ctx context.Context, arg CreateFavoriteParams) error
	DeleteFavorite(ctx context.Context, arg DeleteFavoriteParams) (int64, error)
	CountFavorites(ctx context.Context, recipeID int64) (int64, error)
	CreatePurchase(ctx context.Context, arg CreatePurchaseParams) error
	DeletePurchase(ctx context.Context, arg DeletePurchaseParams) (int64, error)
	CreateSubscription(ctx context.Context, arg CreateSubscriptionParams) error
	DeleteSubscription(ctx context.Context, arg DeleteSubscriptionParams) (int64, error)
	CheckSubscription(ctx context.Context, arg CheckSubscriptionParams) (bool, error)
	ListSubscriptions(ctx context.Context, arg ListSubscriptionsParams) ([]ListSubscriptionsRow, error)
	CountSubscriptions(ctx context.Context, subscriberID int64) (int64, error)
	AggregateShoppingList(ctx context.Context, userID int64) ([]AggregateShoppingListRow, error)
}

var _ Querier = (*Queries)(nil)
