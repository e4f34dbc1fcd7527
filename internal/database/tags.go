package database

import "context"

const listTags = `
SELECT id, name, color, slug FROM tags ORDER BY id
`

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := q.db.Query(ctx, listTags)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const getTag = `
SELECT id, name, color, slug FROM tags WHERE id = $1
`

func (q *Queries) GetTag(ctx context.Context, id int64) (Tag, error) {
	row := q.db.QueryRow(ctx, getTag, id)
	var t Tag
	err := row.Scan(&t.ID, &t.Name, &t.Color, &t.Slug)
	return t, err
}

const getTagsByIDs = `
SELECT id, name, color, slug FROM tags WHERE id = ANY($1::bigint[]) ORDER BY id
`

func (q *Queries) GetTagsByIDs(ctx context.Context, ids []int64) ([]Tag, error) {
	rows, err := q.db.Query(ctx, getTagsByIDs, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const getRecipeTags = `
SELECT t.id, t.name, t.color, t.slug
FROM recipe_tags rt
JOIN tags t ON t.id = rt.tag_id
WHERE rt.recipe_id = $1
ORDER BY t.id
`

func (q *Queries) GetRecipeTags(ctx context.Context, recipeID int64) ([]Tag, error) {
	rows, err := q.db.Query(ctx, getRecipeTags, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Slug); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
