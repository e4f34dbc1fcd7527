package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/image"
)

// Create validates the payload, stores the recipe with its tag set
// and ingredient lines in one transaction, then attaches the image.
func (s *Service) Create(ctx context.Context, authorID int64, payload CreatePayload) (View, error) {
	if err := s.validateCreate(ctx, payload); err != nil {
		return View{}, err
	}

	img, err := s.resolveImage(payload.Image)
	if err != nil {
		return View{}, errors.Join(ErrValidation, err)
	}

	var recipeID int64
	err = s.db.WithTx(ctx, func(q database.Querier) error {
		var err error
		recipeID, err = q.CreateRecipe(ctx, database.CreateRecipeParams{
			AuthorID:    authorID,
			Name:        payload.Name,
			Text:        payload.Text,
			CookingTime: payload.CookingTime,
		})
		if err != nil {
			return fmt.Errorf("creating recipe: %w", err)
		}
		return replaceRelations(ctx, q, recipeID, payload.Tags, payload.Ingredients)
	})
	if err != nil {
		return View{}, err
	}

	if err := s.storeImage(ctx, recipeID, img); err != nil {
		// The recipe row is already committed. Remove it rather than
		// leave an image-less recipe behind.
		if _, delErr := s.db.DeleteRecipe(ctx, recipeID); delErr != nil {
			return View{}, errors.Join(err, fmt.Errorf("removing recipe after image failure: %w", delErr))
		}
		return View{}, err
	}

	return s.Get(ctx, &authorID, recipeID)
}

// Update replaces the tag set and ingredient lines wholesale and
// patches the scalar fields that were provided. The author never
// changes.
func (s *Service) Update(ctx context.Context, userID int64, isAdmin bool, recipeID int64, payload UpdatePayload) (View, error) {
	if err := s.authorize(ctx, userID, isAdmin, recipeID); err != nil {
		return View{}, err
	}
	if err := s.validateUpdate(ctx, payload); err != nil {
		return View{}, err
	}

	var img *image.Image
	if payload.Image != nil {
		decoded, err := s.resolveImage(*payload.Image)
		if err != nil {
			return View{}, errors.Join(ErrValidation, err)
		}
		img = decoded
	}

	params := database.UpdateRecipeParams{ID: recipeID}
	if payload.Name != nil {
		params.Name = pgtype.Text{String: *payload.Name, Valid: true}
	}
	if payload.Text != nil {
		params.Text = pgtype.Text{String: *payload.Text, Valid: true}
	}
	if payload.CookingTime != nil {
		params.CookingTime = pgtype.Int4{Int32: *payload.CookingTime, Valid: true}
	}

	err := s.db.WithTx(ctx, func(q database.Querier) error {
		if err := q.UpdateRecipe(ctx, params); err != nil {
			return fmt.Errorf("updating recipe: %w", err)
		}
		if err := q.ClearRecipeTags(ctx, recipeID); err != nil {
			return fmt.Errorf("clearing recipe tags: %w", err)
		}
		if err := q.ClearRecipeIngredients(ctx, recipeID); err != nil {
			return fmt.Errorf("clearing recipe ingredients: %w", err)
		}
		return replaceRelations(ctx, q, recipeID, payload.Tags, payload.Ingredients)
	})
	if err != nil {
		return View{}, err
	}

	if img != nil {
		if err := s.storeImage(ctx, recipeID, img); err != nil {
			return View{}, err
		}
	}

	return s.Get(ctx, &userID, recipeID)
}

// Delete removes a recipe and its stored image. Relation rows go
// with it via cascade.
func (s *Service) Delete(ctx context.Context, userID int64, isAdmin bool, recipeID int64) error {
	if err := s.authorize(ctx, userID, isAdmin, recipeID); err != nil {
		return err
	}

	row, err := s.db.GetRecipeSummary(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("getting recipe summary: %w", err)
	}

	affected, err := s.db.DeleteRecipe(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if row.ImageUrl.Valid && s.files != nil {
		if err := s.files.DeleteURLPath(ctx, row.ImageUrl.String); err != nil {
			return fmt.Errorf("deleting recipe image: %w", err)
		}
	}
	return nil
}

// authorize resolves the recipe author and enforces author-or-admin
// access for mutations.
func (s *Service) authorize(ctx context.Context, userID int64, isAdmin bool, recipeID int64) error {
	authorID, err := s.db.GetRecipeAuthor(ctx, recipeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("getting recipe author: %w", err)
	}
	if authorID != userID && !isAdmin {
		return ErrNotOwner
	}
	return nil
}

func replaceRelations(ctx context.Context, q database.Querier, recipeID int64, tags []int64, lines []LinePayload) error {
	for _, tagID := range tags {
		if err := q.AddRecipeTag(ctx, database.AddRecipeTagParams{
			RecipeID: recipeID,
			TagID:    tagID,
		}); err != nil {
			return fmt.Errorf("adding recipe tag: %w", err)
		}
	}
	for _, line := range lines {
		if err := q.AddRecipeIngredient(ctx, database.AddRecipeIngredientParams{
			RecipeID:     recipeID,
			IngredientID: line.ID,
			Amount:       line.Amount,
		}); err != nil {
			return fmt.Errorf("adding recipe ingredient: %w", err)
		}
	}
	return nil
}

// Favorite adds the recipe to the user's favorites and returns its
// short form. Adding twice is a conflict.
func (s *Service) Favorite(ctx context.Context, userID, recipeID int64) (Summary, error) {
	summary, err := s.summary(ctx, recipeID)
	if err != nil {
		return Summary{}, err
	}

	err = s.db.CreateFavorite(ctx, database.CreateFavoriteParams{
		UserID:   userID,
		RecipeID: recipeID,
	})
	if database.UniqueViolation(err, "favorites_unique_user_recipe") {
		return Summary{}, ErrInFavorites
	} else if err != nil {
		return Summary{}, fmt.Errorf("creating favorite: %w", err)
	}
	return summary, nil
}

// Unfavorite removes the recipe from the user's favorites.
func (s *Service) Unfavorite(ctx context.Context, userID, recipeID int64) error {
	if _, err := s.summary(ctx, recipeID); err != nil {
		return err
	}

	affected, err := s.db.DeleteFavorite(ctx, database.DeleteFavoriteParams{
		UserID:   userID,
		RecipeID: recipeID,
	})
	if err != nil {
		return fmt.Errorf("deleting favorite: %w", err)
	}
	if affected == 0 {
		return ErrNotInFavorites
	}
	return nil
}

// AddToCart puts the recipe in the user's shopping cart and returns
// its short form. Adding twice is a conflict.
func (s *Service) AddToCart(ctx context.Context, userID, recipeID int64) (Summary, error) {
	summary, err := s.summary(ctx, recipeID)
	if err != nil {
		return Summary{}, err
	}

	err = s.db.CreatePurchase(ctx, database.CreatePurchaseParams{
		UserID:   userID,
		RecipeID: recipeID,
	})
	if database.UniqueViolation(err, "purchases_unique_user_recipe") {
		return Summary{}, ErrInCart
	} else if err != nil {
		return Summary{}, fmt.Errorf("creating purchase: %w", err)
	}
	return summary, nil
}

// RemoveFromCart takes the recipe out of the user's shopping cart.
func (s *Service) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	if _, err := s.summary(ctx, recipeID); err != nil {
		return err
	}

	affected, err := s.db.DeletePurchase(ctx, database.DeletePurchaseParams{
		UserID:   userID,
		RecipeID: recipeID,
	})
	if err != nil {
		return fmt.Errorf("deleting purchase: %w", err)
	}
	if affected == 0 {
		return ErrNotInCart
	}
	return nil
}
