package database

import "context"

const createFavorite = `
INSERT INTO favorites (user_id, recipe_id) VALUES ($1, $2)
`

type CreateFavoriteParams struct {
	UserID   int64
	RecipeID int64
}

func (q *Queries) CreateFavorite(ctx context.Context, arg CreateFavoriteParams) error {
	_, err := q.db.Exec(ctx, createFavorite, arg.UserID, arg.RecipeID)
	return err
}

const deleteFavorite = `
DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2
`

type DeleteFavoriteParams struct {
	UserID   int64
	RecipeID int64
}

func (q *Queries) DeleteFavorite(ctx context.Context, arg DeleteFavoriteParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteFavorite, arg.UserID, arg.RecipeID)
	return tag.RowsAffected(), err
}

const countFavorites = `
SELECT COUNT(*) FROM favorites WHERE recipe_id = $1
`

func (q *Queries) CountFavorites(ctx context.Context, recipeID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countFavorites, recipeID).Scan(&count)
	return count, err
}

const createPurchase = `
INSERT INTO purchases (user_id, recipe_id) VALUES ($1, $2)
`

type CreatePurchaseParams struct {
	UserID   int64
	RecipeID int64
}

func (q *Queries) CreatePurchase(ctx context.Context, arg CreatePurchaseParams) error {
	_, err := q.db.Exec(ctx, createPurchase, arg.UserID, arg.RecipeID)
	return err
}

const deletePurchase = `
DELETE FROM purchases WHERE user_id = $1 AND recipe_id = $2
`

type DeletePurchaseParams struct {
	UserID   int64
	RecipeID int64
}

func (q *Queries) DeletePurchase(ctx context.Context, arg DeletePurchaseParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deletePurchase, arg.UserID, arg.RecipeID)
	return tag.RowsAffected(), err
}

const createSubscription = `
INSERT INTO subscriptions (subscriber_id, target_id) VALUES ($1, $2)
`

type CreateSubscriptionParams struct {
	SubscriberID int64
	TargetID     int64
}

func (q *Queries) CreateSubscription(ctx context.Context, arg CreateSubscriptionParams) error {
	_, err := q.db.Exec(ctx, createSubscription, arg.SubscriberID, arg.TargetID)
	return err
}

const deleteSubscription = `
DELETE FROM subscriptions WHERE subscriber_id = $1 AND target_id = $2
`

type DeleteSubscriptionParams struct {
	SubscriberID int64
	TargetID     int64
}

func (q *Queries) DeleteSubscription(ctx context.Context, arg DeleteSubscriptionParams) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteSubscription, arg.SubscriberID, arg.TargetID)
	return tag.RowsAffected(), err
}

const checkSubscription = `
SELECT EXISTS (
    SELECT 1 FROM subscriptions WHERE subscriber_id = $1 AND target_id = $2
)
`

type CheckSubscriptionParams struct {
	SubscriberID int64
	TargetID     int64
}

func (q *Queries) CheckSubscription(ctx context.Context, arg CheckSubscriptionParams) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, checkSubscription, arg.SubscriberID, arg.TargetID).Scan(&exists)
	return exists, err
}

const listSubscriptions = `
SELECT u.id, u.email, u.username, u.first_name, u.last_name
FROM subscriptions s
JOIN users u ON u.id = s.target_id
WHERE s.subscriber_id = $1
ORDER BY s.created_at DESC, s.id DESC
LIMIT $2 OFFSET $3
`

type ListSubscriptionsParams struct {
	SubscriberID int64
	Limit        int32
	Offset       int32
}

type ListSubscriptionsRow struct {
	ID        int64
	Email     string
	Username  string
	FirstName string
	LastName  string
}

func (q *Queries) ListSubscriptions(ctx context.Context, arg ListSubscriptionsParams) ([]ListSubscriptionsRow, error) {
	rows, err := q.db.Query(ctx, listSubscriptions, arg.SubscriberID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListSubscriptionsRow
	for rows.Next() {
		var r ListSubscriptionsRow
		if err := rows.Scan(&r.ID, &r.Email, &r.Username, &r.FirstName, &r.LastName); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const countSubscriptions = `
SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1
`

func (q *Queries) CountSubscriptions(ctx context.Context, subscriberID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countSubscriptions, subscriberID).Scan(&count)
	return count, err
}

const aggregateShoppingList = `
SELECT i.name, i.measurement_unit, SUM(ri.amount)::bigint AS total_amount
FROM recipe_ingredients ri
JOIN ingredients i ON i.id = ri.ingredient_id
JOIN purchases p ON p.recipe_id = ri.recipe_id
WHERE p.user_id = $1
GROUP BY i.name, i.measurement_unit
ORDER BY i.name, i.measurement_unit
`

type AggregateShoppingListRow struct {
	Name            string
	MeasurementUnit string
	TotalAmount     int64
}

func (q *Queries) AggregateShoppingList(ctx context.Context, userID int64) ([]AggregateShoppingListRow, error) {
	rows, err := q.db.Query(ctx, aggregateShoppingList, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AggregateShoppingListRow
	for rows.Next() {
		var r AggregateShoppingListRow
		if err := rows.Scan(&r.Name, &r.MeasurementUnit, &r.TotalAmount); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
