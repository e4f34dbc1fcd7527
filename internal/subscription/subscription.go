// Package subscription manages author subscriptions and the
// subscription feed.
package subscription

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/filestore"
	"github.com/foodgram-app/backend/internal/recipe"
)

var (
	ErrSelfSubscribe     = errors.New("cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("already subscribed to author")
	ErrNotSubscribed     = errors.New("not subscribed to author")
	ErrAuthorNotFound    = errors.New("author not found")
)

// View is the subscription feed entry: the followed author plus a
// sample of their recipes and the total count.
type View struct {
	ID           int64            `json:"id"`
	Email        string           `json:"email"`
	Username     string           `json:"username"`
	FirstName    string           `json:"first_name"`
	LastName     string           `json:"last_name"`
	IsSubscribed bool             `json:"is_subscribed"`
	Recipes      []recipe.Summary `json:"recipes"`
	RecipesCount int64            `json:"recipes_count"`
}

type Service struct {
	db    database.DB
	files filestore.FileStoreInterface
}

func NewService(db database.DB, files filestore.FileStoreInterface) *Service {
	return &Service{db: db, files: files}
}

const DefaultPageSize = 6

// Subscribe follows an author and returns the feed entry. Following
// yourself or following twice is rejected.
func (s *Service) Subscribe(ctx context.Context, subscriberID, authorID int64, recipesLimit *int32) (View, error) {
	if subscriberID == authorID {
		return View{}, ErrSelfSubscribe
	}

	author, err := s.db.GetUserByID(ctx, authorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return View{}, ErrAuthorNotFound
	} else if err != nil {
		return View{}, fmt.Errorf("getting author: %w", err)
	}

	err = s.db.CreateSubscription(ctx, database.CreateSubscriptionParams{
		SubscriberID: subscriberID,
		TargetID:     authorID,
	})
	if database.UniqueViolation(err, "subscriptions_unique_pair") {
		return View{}, ErrAlreadySubscribed
	} else if err != nil {
		return View{}, fmt.Errorf("creating subscription: %w", err)
	}

	return s.authorView(ctx, author, recipesLimit)
}

// Unsubscribe stops following an author.
func (s *Service) Unsubscribe(ctx context.Context, subscriberID, authorID int64) error {
	if _, err := s.db.GetUserByID(ctx, authorID); errors.Is(err, pgx.ErrNoRows) {
		return ErrAuthorNotFound
	} else if err != nil {
		return fmt.Errorf("getting author: %w", err)
	}

	affected, err := s.db.DeleteSubscription(ctx, database.DeleteSubscriptionParams{
		SubscriberID: subscriberID,
		TargetID:     authorID,
	})
	if err != nil {
		return fmt.Errorf("deleting subscription: %w", err)
	}
	if affected == 0 {
		return ErrNotSubscribed
	}
	return nil
}

// List returns a page of the user's subscription feed with the
// total number of followed authors.
func (s *Service) List(ctx context.Context, subscriberID int64, page, limit int32, recipesLimit *int32) ([]View, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}

	total, err := s.db.CountSubscriptions(ctx, subscriberID)
	if err != nil {
		return nil, 0, fmt.Errorf("counting subscriptions: %w", err)
	}

	rows, err := s.db.ListSubscriptions(ctx, database.ListSubscriptionsParams{
		SubscriberID: subscriberID,
		Limit:        limit,
		Offset:       (page - 1) * limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listing subscriptions: %w", err)
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		view, err := s.feedEntry(ctx, row.ID, row.Email, row.Username, row.FirstName, row.LastName, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}

func (s *Service) authorView(ctx context.Context, author database.User, recipesLimit *int32) (View, error) {
	return s.feedEntry(ctx, author.ID, author.Email, author.Username, author.FirstName, author.LastName, recipesLimit)
}

// feedEntry attaches the author's recipe sample and count. Feed
// entries are by construction subscribed.
func (s *Service) feedEntry(ctx context.Context, id int64, email, username, firstName, lastName string, recipesLimit *int32) (View, error) {
	var limit pgtype.Int4
	if recipesLimit != nil && *recipesLimit >= 0 {
		limit = pgtype.Int4{Int32: *recipesLimit, Valid: true}
	}

	rows, err := s.db.ListAuthorRecipes(ctx, database.ListAuthorRecipesParams{
		AuthorID: id,
		Limit:    limit,
	})
	if err != nil {
		return View{}, fmt.Errorf("listing author recipes: %w", err)
	}
	count, err := s.db.CountAuthorRecipes(ctx, id)
	if err != nil {
		return View{}, fmt.Errorf("counting author recipes: %w", err)
	}

	view := View{
		ID:           id,
		Email:        email,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		IsSubscribed: true,
		Recipes:      make([]recipe.Summary, 0, len(rows)),
		RecipesCount: count,
	}
	for _, r := range rows {
		summary := recipe.Summary{
			ID:          r.ID,
			Name:        r.Name,
			CookingTime: r.CookingTime,
		}
		if r.ImageUrl.Valid && s.files != nil {
			summary.Image = s.files.FileURL(r.ImageUrl.String)
		}
		view.Recipes = append(view.Recipes, summary)
	}
	return view, nil
}
