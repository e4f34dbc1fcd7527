// Package recipe contains utilities for managing recipes.
package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/filestore"
	"github.com/foodgram-app/backend/internal/http"
	"github.com/foodgram-app/backend/internal/image"
)

var (
	ErrNotFound       = errors.New("recipe not found")
	ErrNotOwner       = errors.New("recipe not owned by user")
	ErrInFavorites    = errors.New("recipe already in favorites")
	ErrNotInFavorites = errors.New("recipe not in favorites")
	ErrInCart         = errors.New("recipe already in shopping cart")
	ErrNotInCart      = errors.New("recipe not in shopping cart")
)

// Tag is the API shape of a recipe tag.
type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// Author is the embedded author block of a recipe view.
type Author struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// IngredientLine is a denormalized ingredient row of a recipe view.
type IngredientLine struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int32  `json:"amount"`
}

// View is the full denormalized recipe representation returned by
// reads and by every successful mutation.
type View struct {
	ID               int64            `json:"id"`
	Tags             []Tag            `json:"tags"`
	Author           Author           `json:"author"`
	Ingredients      []IngredientLine `json:"ingredients"`
	IsFavorited      bool             `json:"is_favorited"`
	IsInShoppingCart bool             `json:"is_in_shopping_cart"`
	Name             string           `json:"name"`
	Image            string           `json:"image"`
	Text             string           `json:"text"`
	CookingTime      int32            `json:"cooking_time"`
}

// Summary is the short recipe form used in favorites, cart and
// subscription responses.
type Summary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int32  `json:"cooking_time"`
}

// ListFilter narrows a recipe listing. Viewer is nil for anonymous
// requests; the favorited and cart filters only apply when a viewer
// is set.
type ListFilter struct {
	Viewer        *int64
	AuthorID      *int64
	TagSlugs      []string
	OnlyFavorited bool
	OnlyInCart    bool
	Page          int32
	Limit         int32
}

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

type Service struct {
	db    database.DB
	files filestore.FileStoreInterface
	http  http.HTTPDoer
}

func NewService(db database.DB, files filestore.FileStoreInterface, client http.HTTPDoer) *Service {
	return &Service{db: db, files: files, http: client}
}

func viewerID(viewer *int64) pgtype.Int8 {
	if viewer == nil {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: *viewer, Valid: true}
}

// List returns a page of recipes newest-first along with the total
// count matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]View, int64, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	slugs := filter.TagSlugs
	if slugs == nil {
		slugs = []string{}
	}

	var author pgtype.Int8
	if filter.AuthorID != nil {
		author = pgtype.Int8{Int64: *filter.AuthorID, Valid: true}
	}

	viewer := viewerID(filter.Viewer)
	onlyFavorited := filter.OnlyFavorited && viewer.Valid
	onlyInCart := filter.OnlyInCart && viewer.Valid

	total, err := s.db.CountRecipes(ctx, database.CountRecipesParams{
		ViewerID:      viewer,
		AuthorID:      author,
		TagSlugs:      slugs,
		OnlyFavorited: onlyFavorited,
		OnlyInCart:    onlyInCart,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("counting recipes: %w", err)
	}

	rows, err := s.db.ListRecipes(ctx, database.ListRecipesParams{
		ViewerID:      viewer,
		AuthorID:      author,
		TagSlugs:      slugs,
		OnlyFavorited: onlyFavorited,
		OnlyInCart:    onlyInCart,
		Limit:         limit,
		Offset:        (page - 1) * limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listing recipes: %w", err)
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		view, err := s.assembleView(ctx, s.db, row)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, view)
	}
	return views, total, nil
}

// Get returns the denormalized view of one recipe.
func (s *Service) Get(ctx context.Context, viewer *int64, id int64) (View, error) {
	row, err := s.db.GetRecipe(ctx, database.GetRecipeParams{
		ViewerID: viewerID(viewer),
		ID:       id,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return View{}, ErrNotFound
	} else if err != nil {
		return View{}, fmt.Errorf("getting recipe: %w", err)
	}
	return s.assembleView(ctx, s.db, row)
}

// assembleView joins the tag set and ingredient lines onto a recipe
// row and resolves the image URL.
func (s *Service) assembleView(ctx context.Context, q database.Querier, row database.RecipeRow) (View, error) {
	tags, err := q.GetRecipeTags(ctx, row.ID)
	if err != nil {
		return View{}, fmt.Errorf("getting recipe tags: %w", err)
	}
	lines, err := q.GetRecipeIngredients(ctx, row.ID)
	if err != nil {
		return View{}, fmt.Errorf("getting recipe ingredients: %w", err)
	}

	view := View{
		ID: row.ID,
		Author: Author{
			ID:           row.AuthorID,
			Email:        row.AuthorEmail,
			Username:     row.AuthorUsername,
			FirstName:    row.AuthorFirstName,
			LastName:     row.AuthorLastName,
			IsSubscribed: row.AuthorSubscribed,
		},
		IsFavorited:      row.IsFavorited,
		IsInShoppingCart: row.IsInShoppingCart,
		Name:             row.Name,
		Text:             row.Text,
		CookingTime:      row.CookingTime,
		Tags:             make([]Tag, 0, len(tags)),
		Ingredients:      make([]IngredientLine, 0, len(lines)),
	}
	if row.ImageUrl.Valid && s.files != nil {
		view.Image = s.files.FileURL(row.ImageUrl.String)
	}

	for _, t := range tags {
		view.Tags = append(view.Tags, Tag{
			ID:    t.ID,
			Name:  t.Name,
			Color: t.Color,
			Slug:  t.Slug,
		})
	}
	for _, l := range lines {
		view.Ingredients = append(view.Ingredients, IngredientLine{
			ID:              l.IngredientID,
			Name:            l.Name,
			MeasurementUnit: l.MeasurementUnit,
			Amount:          l.Amount,
		})
	}
	return view, nil
}

func (s *Service) summary(ctx context.Context, recipeID int64) (Summary, error) {
	row, err := s.db.GetRecipeSummary(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Summary{}, ErrNotFound
	} else if err != nil {
		return Summary{}, fmt.Errorf("getting recipe summary: %w", err)
	}

	summary := Summary{
		ID:          row.ID,
		Name:        row.Name,
		CookingTime: row.CookingTime,
	}
	if row.ImageUrl.Valid && s.files != nil {
		summary.Image = s.files.FileURL(row.ImageUrl.String)
	}
	return summary, nil
}

// resolveImage decodes an image reference into bytes, failing before
// any database work happens.
func (s *Service) resolveImage(ref string) (*image.Image, error) {
	img, err := image.Decode(s.http, ref)
	if err != nil {
		return nil, fmt.Errorf("resolving image: %w", err)
	}
	return img, nil
}

// storeImage writes the decoded image and records its URL path.
func (s *Service) storeImage(ctx context.Context, recipeID int64, img *image.Image) error {
	urlPath, _, err := s.files.WriteRecipeImage(ctx, recipeID, img.Suffix, img.Data)
	if err != nil {
		return fmt.Errorf("writing recipe image: %w", err)
	}
	if err := s.db.UpdateRecipeImage(ctx, database.UpdateRecipeImageParams{
		ImageUrl: pgtype.Text{String: urlPath, Valid: true},
		ID:       recipeID,
	}); err != nil {
		return fmt.Errorf("updating recipe image: %w", err)
	}
	return nil
}
