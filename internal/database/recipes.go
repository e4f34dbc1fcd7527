package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// recipeViewColumns is shared by the single-recipe and listing queries so both
// produce the same annotated shape. The viewer id is always $1; a null viewer
// short-circuits every per-viewer flag without touching the relation tables.
const recipeViewColumns = `
SELECT r.id, r.author_id, r.name, r.image_url, r.text, r.cooking_time, r.created_at,
       u.email, u.username, u.first_name, u.last_name,
       ($1::bigint IS NOT NULL AND EXISTS (
           SELECT 1 FROM favorites f WHERE f.user_id = $1 AND f.recipe_id = r.id
       )) AS is_favorited,
       ($1::bigint IS NOT NULL AND EXISTS (
           SELECT 1 FROM purchases p WHERE p.user_id = $1 AND p.recipe_id = r.id
       )) AS is_in_shopping_cart,
       ($1::bigint IS NOT NULL AND EXISTS (
           SELECT 1 FROM subscriptions s WHERE s.subscriber_id = $1 AND s.target_id = r.author_id
       )) AS author_subscribed
FROM recipes r
JOIN users u ON u.id = r.author_id
`

type RecipeRow struct {
	ID               int64
	AuthorID         int64
	Name             string
	ImageUrl         pgtype.Text
	Text             string
	CookingTime      int32
	CreatedAt        pgtype.Timestamptz
	AuthorEmail      string
	AuthorUsername   string
	AuthorFirstName  string
	AuthorLastName   string
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

func scanRecipeRow(row pgx.Row, r *RecipeRow) error {
	return row.Scan(&r.ID, &r.AuthorID, &r.Name, &r.ImageUrl, &r.Text,
		&r.CookingTime, &r.CreatedAt,
		&r.AuthorEmail, &r.AuthorUsername, &r.AuthorFirstName, &r.AuthorLastName,
		&r.IsFavorited, &r.IsInShoppingCart, &r.AuthorSubscribed)
}

const getRecipe = recipeViewColumns + `
WHERE r.id = $2
`

type GetRecipeParams struct {
	ViewerID pgtype.Int8
	ID       int64
}

func (q *Queries) GetRecipe(ctx context.Context, arg GetRecipeParams) (RecipeRow, error) {
	row := q.db.QueryRow(ctx, getRecipe, arg.ViewerID, arg.ID)
	var r RecipeRow
	err := scanRecipeRow(row, &r)
	return r, err
}

// recipeFilters AND-combines the optional listing filters. Unknown authors or
// slugs simply match nothing. The favorited/cart restrictions are only applied
// when requested by an authenticated viewer.
const recipeFilters = `
WHERE ($2::bigint IS NULL OR r.author_id = $2)
  AND (cardinality($3::text[]) = 0 OR EXISTS (
      SELECT 1 FROM recipe_tags rt
      JOIN tags t ON t.id = rt.tag_id
      WHERE rt.recipe_id = r.id AND t.slug = ANY($3)
  ))
  AND (NOT $4::boolean OR EXISTS (
      SELECT 1 FROM favorites f WHERE f.user_id = $1 AND f.recipe_id = r.id
  ))
  AND (NOT $5::boolean OR EXISTS (
      SELECT 1 FROM purchases p WHERE p.user_id = $1 AND p.recipe_id = r.id
  ))
`

const listRecipes = recipeViewColumns + recipeFilters + `
ORDER BY r.created_at DESC, r.id DESC
LIMIT $6 OFFSET $7
`

type ListRecipesParams struct {
	ViewerID      pgtype.Int8
	AuthorID      pgtype.Int8
	TagSlugs      []string
	OnlyFavorited bool
	OnlyInCart    bool
	Limit         int32
	Offset        int32
}

func (q *Queries) ListRecipes(ctx context.Context, arg ListRecipesParams) ([]RecipeRow, error) {
	slugs := arg.TagSlugs
	if slugs == nil {
		slugs = []string{}
	}
	rows, err := q.db.Query(ctx, listRecipes, arg.ViewerID, arg.AuthorID, slugs,
		arg.OnlyFavorited, arg.OnlyInCart, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RecipeRow
	for rows.Next() {
		var r RecipeRow
		if err := scanRecipeRow(rows, &r); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const countRecipes = `
SELECT COUNT(*)
FROM recipes r
` + recipeFilters

type CountRecipesParams struct {
	ViewerID      pgtype.Int8
	AuthorID      pgtype.Int8
	TagSlugs      []string
	OnlyFavorited bool
	OnlyInCart    bool
}

func (q *Queries) CountRecipes(ctx context.Context, arg CountRecipesParams) (int64, error) {
	slugs := arg.TagSlugs
	if slugs == nil {
		slugs = []string{}
	}
	var count int64
	err := q.db.QueryRow(ctx, countRecipes, arg.ViewerID, arg.AuthorID, slugs,
		arg.OnlyFavorited, arg.OnlyInCart).Scan(&count)
	return count, err
}

const createRecipe = `
INSERT INTO recipes (author_id, name, image_url, text, cooking_time)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

type CreateRecipeParams struct {
	AuthorID    int64
	Name        string
	ImageUrl    pgtype.Text
	Text        string
	CookingTime int32
}

func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createRecipe,
		arg.AuthorID, arg.Name, arg.ImageUrl, arg.Text, arg.CookingTime).Scan(&id)
	return id, err
}

const updateRecipe = `
UPDATE recipes
SET name = COALESCE($2, name),
    image_url = COALESCE($3, image_url),
    text = COALESCE($4, text),
    cooking_time = COALESCE($5, cooking_time)
WHERE id = $1
`

// UpdateRecipeParams leaves any invalid (null) field untouched, so fields the
// payload omits retain their previous values.
type UpdateRecipeParams struct {
	ID          int64
	Name        pgtype.Text
	ImageUrl    pgtype.Text
	Text        pgtype.Text
	CookingTime pgtype.Int4
}

func (q *Queries) UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error {
	_, err := q.db.Exec(ctx, updateRecipe,
		arg.ID, arg.Name, arg.ImageUrl, arg.Text, arg.CookingTime)
	return err
}

const deleteRecipe = `
DELETE FROM recipes WHERE id = $1
`

func (q *Queries) DeleteRecipe(ctx context.Context, id int64) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteRecipe, id)
	return tag.RowsAffected(), err
}

const getRecipeAuthor = `
SELECT author_id FROM recipes WHERE id = $1
`

func (q *Queries) GetRecipeAuthor(ctx context.Context, id int64) (int64, error) {
	var authorID int64
	err := q.db.QueryRow(ctx, getRecipeAuthor, id).Scan(&authorID)
	return authorID, err
}

const getRecipeSummary = `
SELECT id, name, image_url, cooking_time FROM recipes WHERE id = $1
`

type GetRecipeSummaryRow struct {
	ID          int64
	Name        string
	ImageUrl    pgtype.Text
	CookingTime int32
}

func (q *Queries) GetRecipeSummary(ctx context.Context, id int64) (GetRecipeSummaryRow, error) {
	row := q.db.QueryRow(ctx, getRecipeSummary, id)
	var r GetRecipeSummaryRow
	err := row.Scan(&r.ID, &r.Name, &r.ImageUrl, &r.CookingTime)
	return r, err
}

const addRecipeTag = `
INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2)
`

type AddRecipeTagParams struct {
	RecipeID int64
	TagID    int64
}

func (q *Queries) AddRecipeTag(ctx context.Context, arg AddRecipeTagParams) error {
	_, err := q.db.Exec(ctx, addRecipeTag, arg.RecipeID, arg.TagID)
	return err
}

const clearRecipeTags = `
DELETE FROM recipe_tags WHERE recipe_id = $1
`

func (q *Queries) ClearRecipeTags(ctx context.Context, recipeID int64) error {
	_, err := q.db.Exec(ctx, clearRecipeTags, recipeID)
	return err
}

const addRecipeIngredient = `
INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount) VALUES ($1, $2, $3)
`

type AddRecipeIngredientParams struct {
	RecipeID     int64
	IngredientID int64
	Amount       int32
}

func (q *Queries) AddRecipeIngredient(ctx context.Context, arg AddRecipeIngredientParams) error {
	_, err := q.db.Exec(ctx, addRecipeIngredient, arg.RecipeID, arg.IngredientID, arg.Amount)
	return err
}

const clearRecipeIngredients = `
DELETE FROM recipe_ingredients WHERE recipe_id = $1
`

func (q *Queries) ClearRecipeIngredients(ctx context.Context, recipeID int64) error {
	_, err := q.db.Exec(ctx, clearRecipeIngredients, recipeID)
	return err
}

const updateRecipeImage = `
UPDATE recipes SET image_url = $2 WHERE id = $1
`

type UpdateRecipeImageParams struct {
	ID       int64
	ImageUrl pgtype.Text
}

func (q *Queries) UpdateRecipeImage(ctx context.Context, arg UpdateRecipeImageParams) error {
	_, err := q.db.Exec(ctx, updateRecipeImage, arg.ID, arg.ImageUrl)
	return err
}

const listAuthorRecipes = `
SELECT id, name, image_url, cooking_time
FROM recipes
WHERE author_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`

type ListAuthorRecipesParams struct {
	AuthorID int64
	Limit    pgtype.Int4
}

func (q *Queries) ListAuthorRecipes(ctx context.Context, arg ListAuthorRecipesParams) ([]GetRecipeSummaryRow, error) {
	rows, err := q.db.Query(ctx, listAuthorRecipes, arg.AuthorID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetRecipeSummaryRow
	for rows.Next() {
		var r GetRecipeSummaryRow
		if err := rows.Scan(&r.ID, &r.Name, &r.ImageUrl, &r.CookingTime); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const countAuthorRecipes = `
SELECT COUNT(*) FROM recipes WHERE author_id = $1
`

func (q *Queries) CountAuthorRecipes(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countAuthorRecipes, authorID).Scan(&count)
	return count, err
}
