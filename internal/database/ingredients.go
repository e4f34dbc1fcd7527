package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const searchIngredients = `
SELECT id, name, measurement_unit
FROM ingredients
WHERE $1::text IS NULL OR name ILIKE '%' || $1 || '%'
ORDER BY name
`

// SearchIngredients returns the case-insensitive substring candidates for a
// query. A null query returns the full set. Callers must escape LIKE
// metacharacters; prefix-before-contains ranking happens in the ingredient
// package.
func (q *Queries) SearchIngredients(ctx context.Context, name pgtype.Text) ([]Ingredient, error) {
	rows, err := q.db.Query(ctx, searchIngredients, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Ingredient
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getIngredient = `
SELECT id, name, measurement_unit FROM ingredients WHERE id = $1
`

func (q *Queries) GetIngredient(ctx context.Context, id int64) (Ingredient, error) {
	row := q.db.QueryRow(ctx, getIngredient, id)
	var i Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.MeasurementUnit)
	return i, err
}

const getIngredientsByIDs = `
SELECT id, name, measurement_unit FROM ingredients WHERE id = ANY($1::bigint[]) ORDER BY id
`

func (q *Queries) GetIngredientsByIDs(ctx context.Context, ids []int64) ([]Ingredient, error) {
	rows, err := q.db.Query(ctx, getIngredientsByIDs, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Ingredient
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getRecipeIngredients = `
SELECT ri.ingredient_id, i.name, i.measurement_unit, ri.amount
FROM recipe_ingredients ri
JOIN ingredients i ON i.id = ri.ingredient_id
WHERE ri.recipe_id = $1
ORDER BY ri.id
`

type GetRecipeIngredientsRow struct {
	IngredientID    int64
	Name            string
	MeasurementUnit string
	Amount          int32
}

func (q *Queries) GetRecipeIngredients(ctx context.Context, recipeID int64) ([]GetRecipeIngredientsRow, error) {
	rows, err := q.db.Query(ctx, getRecipeIngredients, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetRecipeIngredientsRow
	for rows.Next() {
		var r GetRecipeIngredientsRow
		if err := rows.Scan(&r.IngredientID, &r.Name, &r.MeasurementUnit, &r.Amount); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const countIngredientsByIDs = `
SELECT COUNT(*) FROM ingredients WHERE id = ANY($1::bigint[])
`

// CountIngredientsByIDs lets the mutation engine detect dangling ingredient
// references before writing any lines.
func (q *Queries) CountIngredientsByIDs(ctx context.Context, ids []int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countIngredientsByIDs, ids).Scan(&count)
	return count, err
}
