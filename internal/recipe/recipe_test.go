package recipe

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/mock/gomock"

	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/filestore"
)

type fakeDB struct {
	*database.MockQuerier
}

func (f fakeDB) WithTx(_ context.Context, fn func(database.Querier) error) error {
	return fn(f.MockQuerier)
}

// fakeFiles stands in for the filestore so mutation tests can observe
// image writes without touching disk.
type fakeFiles struct {
	writeErr error
	writes   int
}

var _ filestore.FileStoreInterface = (*fakeFiles)(nil)

func (f *fakeFiles) WriteRecipeImage(_ context.Context, recipeID int64, suffix string, data []byte) (string, int, error) {
	if f.writeErr != nil {
		return "", 0, f.writeErr
	}
	f.writes++
	return fmt.Sprintf("/media/recipes/%d%s", recipeID, suffix), len(data), nil
}

func (f *fakeFiles) DeleteURLPath(context.Context, string) error { return nil }

func (f *fakeFiles) FileURL(urlpath string) string { return "http://localhost:8080" + urlpath }

func newTestService(t *testing.T) (*Service, *database.MockQuerier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)
	return NewService(fakeDB{mockDB}, nil, nil), mockDB
}

func newMutationService(t *testing.T, files *fakeFiles) (*Service, *database.MockQuerier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockDB := database.NewMockQuerier(ctrl)
	return NewService(fakeDB{mockDB}, files, nil), mockDB
}

// pngDataURI decodes to the PNG magic bytes, so content sniffing
// accepts it.
const pngDataURI = "data:image/png;base64,iVBORw0KGgo="

func validCreatePayload() CreatePayload {
	return CreatePayload{
		Tags: []int64{1, 2},
		Ingredients: []LinePayload{
			{ID: 10, Amount: 100},
			{ID: 11, Amount: 2},
		},
		Name:        "Pancakes",
		Image:       "data:image/png;base64,abcd",
		Text:        "Mix and fry.",
		CookingTime: 15,
	}
}

func TestValidateRelations(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate tag id", func(t *testing.T) {
		svc, _ := newTestService(t)

		payload := validCreatePayload()
		payload.Tags = []int64{1, 1}

		err := svc.validateCreate(ctx, payload)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("duplicate ingredient id", func(t *testing.T) {
		svc, _ := newTestService(t)

		payload := validCreatePayload()
		payload.Ingredients = []LinePayload{
			{ID: 10, Amount: 100},
			{ID: 10, Amount: 5},
		}

		err := svc.validateCreate(ctx, payload)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("unknown tag id", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetTagsByIDs(gomock.Any(), []int64{1, 2}).
			Return([]database.Tag{{ID: 1}}, nil)

		err := svc.validateCreate(ctx, validCreatePayload())
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("unknown ingredient id", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetTagsByIDs(gomock.Any(), []int64{1, 2}).
			Return([]database.Tag{{ID: 1}, {ID: 2}}, nil)
		mockDB.EXPECT().
			CountIngredientsByIDs(gomock.Any(), []int64{10, 11}).
			Return(int64(1), nil)

		err := svc.validateCreate(ctx, validCreatePayload())
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestValidateCreate_StructuralRules(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreatePayload)
	}{
		{
			name:   "empty tags",
			mutate: func(p *CreatePayload) { p.Tags = nil },
		},
		{
			name:   "empty ingredients",
			mutate: func(p *CreatePayload) { p.Ingredients = nil },
		},
		{
			name:   "missing name",
			mutate: func(p *CreatePayload) { p.Name = "" },
		},
		{
			name:   "missing image",
			mutate: func(p *CreatePayload) { p.Image = "" },
		},
		{
			name:   "missing text",
			mutate: func(p *CreatePayload) { p.Text = "" },
		},
		{
			name:   "zero cooking time",
			mutate: func(p *CreatePayload) { p.CookingTime = 0 },
		},
		{
			name: "zero ingredient amount",
			mutate: func(p *CreatePayload) {
				p.Ingredients = []LinePayload{{ID: 10, Amount: 0}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)

			payload := validCreatePayload()
			tt.mutate(&payload)

			err := svc.validateCreate(ctx, payload)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	ctx := context.Background()

	validTags := []int64{1}
	validLines := []LinePayload{{ID: 10, Amount: 100}}

	t.Run("nil scalars keep stored values", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetTagsByIDs(gomock.Any(), validTags).
			Return([]database.Tag{{ID: 1}}, nil)
		mockDB.EXPECT().
			CountIngredientsByIDs(gomock.Any(), []int64{10}).
			Return(int64(1), nil)

		err := svc.validateUpdate(ctx, UpdatePayload{
			Tags:        validTags,
			Ingredients: validLines,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("explicit empty name rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		name := ""
		err := svc.validateUpdate(ctx, UpdatePayload{
			Tags:        validTags,
			Ingredients: validLines,
			Name:        &name,
		})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("explicit empty text rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		text := ""
		err := svc.validateUpdate(ctx, UpdatePayload{
			Tags:        validTags,
			Ingredients: validLines,
			Text:        &text,
		})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("missing tags rejected", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.validateUpdate(ctx, UpdatePayload{
			Ingredients: validLines,
		})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()

	t.Run("recipe not found", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeAuthor(gomock.Any(), int64(5)).
			Return(int64(0), pgx.ErrNoRows)

		if err := svc.authorize(ctx, 1, false, 5); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeAuthor(gomock.Any(), int64(5)).
			Return(int64(99), nil)

		if err := svc.authorize(ctx, 1, false, 5); !errors.Is(err, ErrNotOwner) {
			t.Fatalf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("owner allowed", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeAuthor(gomock.Any(), int64(5)).
			Return(int64(1), nil)

		if err := svc.authorize(ctx, 1, false, 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("admin allowed on foreign recipe", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeAuthor(gomock.Any(), int64(5)).
			Return(int64(99), nil)

		if err := svc.authorize(ctx, 1, true, 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestFavorite(t *testing.T) {
	ctx := context.Background()

	summaryRow := database.GetRecipeSummaryRow{
		ID:          5,
		Name:        "Pancakes",
		CookingTime: 15,
	}

	t.Run("recipe not found", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeSummary(gomock.Any(), int64(5)).
			Return(database.GetRecipeSummaryRow{}, pgx.ErrNoRows)

		if _, err := svc.Favorite(ctx, 1, 5); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("already in favorites", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeSummary(gomock.Any(), int64(5)).
			Return(summaryRow, nil)
		mockDB.EXPECT().
			CreateFavorite(gomock.Any(), database.CreateFavoriteParams{
				UserID:   1,
				RecipeID: 5,
			}).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "favorites_unique_user_recipe"})

		if _, err := svc.Favorite(ctx, 1, 5); !errors.Is(err, ErrInFavorites) {
			t.Fatalf("expected ErrInFavorites, got %v", err)
		}
	})

	t.Run("successful favorite returns summary", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeSummary(gomock.Any(), int64(5)).
			Return(summaryRow, nil)
		mockDB.EXPECT().
			CreateFavorite(gomock.Any(), gomock.Any()).
			Return(nil)

		summary, err := svc.Favorite(ctx, 1, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.ID != 5 || summary.Name != "Pancakes" || summary.CookingTime != 15 {
			t.Errorf("unexpected summary: %+v", summary)
		}
	})
}

func TestUnfavorite(t *testing.T) {
	ctx := context.Background()

	summaryRow := database.GetRecipeSummaryRow{ID: 5, Name: "Pancakes", CookingTime: 15}

	t.Run("not in favorites", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeSummary(gomock.Any(), int64(5)).
			Return(summaryRow, nil)
		mockDB.EXPECT().
			DeleteFavorite(gomock.Any(), database.DeleteFavoriteParams{
				UserID:   1,
				RecipeID: 5,
			}).
			Return(int64(0), nil)

		if err := svc.Unfavorite(ctx, 1, 5); !errors.Is(err, ErrNotInFavorites) {
			t.Fatalf("expected ErrNotInFavorites, got %v", err)
		}
	})

	t.Run("successful unfavorite", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeSummary(gomock.Any(), int64(5)).
			Return(summaryRow, nil)
		mockDB.EXPECT().
			DeleteFavorite(gomock.Any(), gomock.Any()).
			Return(int64(1), nil)

		if err := svc.Unfavorite(ctx, 1, 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestAddToCart(t *testing.T) {
	ctx := context.Background()

	summaryRow := database.GetRecipeSummaryRow{ID: 5, Name: "Pancakes", CookingTime: 15}

	t.Run("already in cart", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeSummary(gomock.Any(), int64(5)).
			Return(summaryRow, nil)
		mockDB.EXPECT().
			CreatePurchase(gomock.Any(), database.CreatePurchaseParams{
				UserID:   1,
				RecipeID: 5,
			}).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "purchases_unique_user_recipe"})

		if _, err := svc.AddToCart(ctx, 1, 5); !errors.Is(err, ErrInCart) {
			t.Fatalf("expected ErrInCart, got %v", err)
		}
	})

	t.Run("successful add returns summary", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeSummary(gomock.Any(), int64(5)).
			Return(summaryRow, nil)
		mockDB.EXPECT().
			CreatePurchase(gomock.Any(), gomock.Any()).
			Return(nil)

		summary, err := svc.AddToCart(ctx, 1, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if summary.ID != 5 {
			t.Errorf("expected summary ID 5, got %d", summary.ID)
		}
	})
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()

	summaryRow := database.GetRecipeSummaryRow{ID: 5, Name: "Pancakes", CookingTime: 15}

	t.Run("not in cart", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeSummary(gomock.Any(), int64(5)).
			Return(summaryRow, nil)
		mockDB.EXPECT().
			DeletePurchase(gomock.Any(), database.DeletePurchaseParams{
				UserID:   1,
				RecipeID: 5,
			}).
			Return(int64(0), nil)

		if err := svc.RemoveFromCart(ctx, 1, 5); !errors.Is(err, ErrNotInCart) {
			t.Fatalf("expected ErrNotInCart, got %v", err)
		}
	})

	t.Run("successful remove", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeSummary(gomock.Any(), int64(5)).
			Return(summaryRow, nil)
		mockDB.EXPECT().
			DeletePurchase(gomock.Any(), gomock.Any()).
			Return(int64(1), nil)

		if err := svc.RemoveFromCart(ctx, 1, 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestGet_NotFound(t *testing.T) {
	svc, mockDB := newTestService(t)

	mockDB.EXPECT().
		GetRecipe(gomock.Any(), gomock.Any()).
		Return(database.RecipeRow{}, pgx.ErrNoRows)

	if _, err := svc.Get(context.Background(), nil, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("non-owner rejected before any deletion", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeAuthor(gomock.Any(), int64(5)).
			Return(int64(99), nil)

		if err := svc.Delete(ctx, 1, false, 5); !errors.Is(err, ErrNotOwner) {
			t.Fatalf("expected ErrNotOwner, got %v", err)
		}
	})

	t.Run("owner deletes recipe", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeAuthor(gomock.Any(), int64(5)).
			Return(int64(1), nil)
		mockDB.EXPECT().
			GetRecipeSummary(gomock.Any(), int64(5)).
			Return(database.GetRecipeSummaryRow{ID: 5, Name: "Pancakes"}, nil)
		mockDB.EXPECT().
			DeleteRecipe(gomock.Any(), int64(5)).
			Return(int64(1), nil)

		if err := svc.Delete(ctx, 1, false, 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("vanished between author check and delete", func(t *testing.T) {
		svc, mockDB := newTestService(t)

		mockDB.EXPECT().
			GetRecipeAuthor(gomock.Any(), int64(5)).
			Return(int64(1), nil)
		mockDB.EXPECT().
			GetRecipeSummary(gomock.Any(), int64(5)).
			Return(database.GetRecipeSummaryRow{ID: 5}, nil)
		mockDB.EXPECT().
			DeleteRecipe(gomock.Any(), int64(5)).
			Return(int64(0), nil)

		if err := svc.Delete(ctx, 1, false, 5); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	expectValidRelations := func(mockDB *database.MockQuerier) {
		mockDB.EXPECT().
			GetTagsByIDs(gomock.Any(), []int64{1, 2}).
			Return([]database.Tag{{ID: 1}, {ID: 2}}, nil)
		mockDB.EXPECT().
			CountIngredientsByIDs(gomock.Any(), []int64{10, 11}).
			Return(int64(2), nil)
	}

	t.Run("stores recipe with relations and image", func(t *testing.T) {
		files := &fakeFiles{}
		svc, mockDB := newMutationService(t, files)

		payload := validCreatePayload()
		payload.Image = pngDataURI

		expectValidRelations(mockDB)
		gomock.InOrder(
			mockDB.EXPECT().
				CreateRecipe(gomock.Any(), database.CreateRecipeParams{
					AuthorID:    1,
					Name:        "Pancakes",
					Text:        "Mix and fry.",
					CookingTime: 15,
				}).
				Return(int64(7), nil),
			mockDB.EXPECT().
				AddRecipeTag(gomock.Any(), database.AddRecipeTagParams{RecipeID: 7, TagID: 1}).
				Return(nil),
			mockDB.EXPECT().
				AddRecipeTag(gomock.Any(), database.AddRecipeTagParams{RecipeID: 7, TagID: 2}).
				Return(nil),
			mockDB.EXPECT().
				AddRecipeIngredient(gomock.Any(), database.AddRecipeIngredientParams{
					RecipeID: 7, IngredientID: 10, Amount: 100,
				}).
				Return(nil),
			mockDB.EXPECT().
				AddRecipeIngredient(gomock.Any(), database.AddRecipeIngredientParams{
					RecipeID: 7, IngredientID: 11, Amount: 2,
				}).
				Return(nil),
			mockDB.EXPECT().
				UpdateRecipeImage(gomock.Any(), database.UpdateRecipeImageParams{
					ImageUrl: pgtype.Text{String: "/media/recipes/7.png", Valid: true},
					ID:       7,
				}).
				Return(nil),
		)
		mockDB.EXPECT().
			GetRecipe(gomock.Any(), database.GetRecipeParams{
				ViewerID: pgtype.Int8{Int64: 1, Valid: true},
				ID:       7,
			}).
			Return(database.RecipeRow{
				ID:          7,
				AuthorID:    1,
				Name:        "Pancakes",
				Text:        "Mix and fry.",
				CookingTime: 15,
				ImageUrl:    pgtype.Text{String: "/media/recipes/7.png", Valid: true},
			}, nil)
		mockDB.EXPECT().
			GetRecipeTags(gomock.Any(), int64(7)).
			Return([]database.Tag{{ID: 1, Name: "breakfast"}, {ID: 2, Name: "sweet"}}, nil)
		mockDB.EXPECT().
			GetRecipeIngredients(gomock.Any(), int64(7)).
			Return([]database.GetRecipeIngredientsRow{
				{IngredientID: 10, Name: "flour", MeasurementUnit: "g", Amount: 100},
				{IngredientID: 11, Name: "eggs", MeasurementUnit: "pcs", Amount: 2},
			}, nil)

		view, err := svc.Create(ctx, 1, payload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.ID != 7 || view.Name != "Pancakes" {
			t.Errorf("unexpected view: %+v", view)
		}
		if view.Image != "http://localhost:8080/media/recipes/7.png" {
			t.Errorf("unexpected image URL %q", view.Image)
		}
		if len(view.Tags) != 2 || len(view.Ingredients) != 2 {
			t.Errorf("expected 2 tags and 2 ingredients, got %d and %d",
				len(view.Tags), len(view.Ingredients))
		}
	})

	t.Run("failed ingredient write aborts without an image", func(t *testing.T) {
		files := &fakeFiles{}
		svc, mockDB := newMutationService(t, files)

		payload := validCreatePayload()
		payload.Image = pngDataURI

		expectValidRelations(mockDB)
		mockDB.EXPECT().
			CreateRecipe(gomock.Any(), gomock.Any()).
			Return(int64(7), nil)
		mockDB.EXPECT().
			AddRecipeTag(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)
		mockDB.EXPECT().
			AddRecipeIngredient(gomock.Any(), gomock.Any()).
			Return(errors.New("constraint violation"))

		if _, err := svc.Create(ctx, 1, payload); err == nil {
			t.Fatal("expected error, got nil")
		}
		if files.writes != 0 {
			t.Errorf("expected no image writes, got %d", files.writes)
		}
	})

	t.Run("image store failure removes the recipe", func(t *testing.T) {
		files := &fakeFiles{writeErr: errors.New("disk full")}
		svc, mockDB := newMutationService(t, files)

		payload := validCreatePayload()
		payload.Image = pngDataURI

		expectValidRelations(mockDB)
		mockDB.EXPECT().
			CreateRecipe(gomock.Any(), gomock.Any()).
			Return(int64(7), nil)
		mockDB.EXPECT().
			AddRecipeTag(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)
		mockDB.EXPECT().
			AddRecipeIngredient(gomock.Any(), gomock.Any()).
			Return(nil).
			Times(2)
		mockDB.EXPECT().
			DeleteRecipe(gomock.Any(), int64(7)).
			Return(int64(1), nil)

		if _, err := svc.Create(ctx, 1, payload); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("fully replaces tag set and ingredient lines", func(t *testing.T) {
		svc, mockDB := newMutationService(t, &fakeFiles{})

		mockDB.EXPECT().
			GetRecipeAuthor(gomock.Any(), int64(7)).
			Return(int64(1), nil)
		mockDB.EXPECT().
			GetTagsByIDs(gomock.Any(), []int64{1}).
			Return([]database.Tag{{ID: 1}}, nil)
		mockDB.EXPECT().
			CountIngredientsByIDs(gomock.Any(), []int64{10}).
			Return(int64(1), nil)
		gomock.InOrder(
			mockDB.EXPECT().
				UpdateRecipe(gomock.Any(), gomock.Cond(func(arg database.UpdateRecipeParams) bool {
					return arg.ID == 7 && !arg.Name.Valid && !arg.Text.Valid && !arg.CookingTime.Valid
				})).
				Return(nil),
			mockDB.EXPECT().
				ClearRecipeTags(gomock.Any(), int64(7)).
				Return(nil),
			mockDB.EXPECT().
				ClearRecipeIngredients(gomock.Any(), int64(7)).
				Return(nil),
			mockDB.EXPECT().
				AddRecipeTag(gomock.Any(), database.AddRecipeTagParams{RecipeID: 7, TagID: 1}).
				Return(nil),
			mockDB.EXPECT().
				AddRecipeIngredient(gomock.Any(), database.AddRecipeIngredientParams{
					RecipeID: 7, IngredientID: 10, Amount: 5,
				}).
				Return(nil),
		)
		mockDB.EXPECT().
			GetRecipe(gomock.Any(), gomock.Any()).
			Return(database.RecipeRow{ID: 7, AuthorID: 1, Name: "Pancakes"}, nil)
		mockDB.EXPECT().
			GetRecipeTags(gomock.Any(), int64(7)).
			Return([]database.Tag{{ID: 1}}, nil)
		mockDB.EXPECT().
			GetRecipeIngredients(gomock.Any(), int64(7)).
			Return([]database.GetRecipeIngredientsRow{
				{IngredientID: 10, Name: "flour", MeasurementUnit: "g", Amount: 5},
			}, nil)

		view, err := svc.Update(ctx, 1, false, 7, UpdatePayload{
			Tags:        []int64{1},
			Ingredients: []LinePayload{{ID: 10, Amount: 5}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(view.Ingredients) != 1 {
			t.Fatalf("expected exactly 1 ingredient line, got %d", len(view.Ingredients))
		}
		if line := view.Ingredients[0]; line.ID != 10 || line.Amount != 5 {
			t.Errorf("unexpected line: %+v", line)
		}
	})

	t.Run("patches provided scalar fields", func(t *testing.T) {
		svc, mockDB := newMutationService(t, &fakeFiles{})

		name := "Crepes"
		cookingTime := int32(20)

		mockDB.EXPECT().
			GetRecipeAuthor(gomock.Any(), int64(7)).
			Return(int64(1), nil)
		mockDB.EXPECT().
			GetTagsByIDs(gomock.Any(), []int64{1}).
			Return([]database.Tag{{ID: 1}}, nil)
		mockDB.EXPECT().
			CountIngredientsByIDs(gomock.Any(), []int64{10}).
			Return(int64(1), nil)
		mockDB.EXPECT().
			UpdateRecipe(gomock.Any(), database.UpdateRecipeParams{
				ID:          7,
				Name:        pgtype.Text{String: "Crepes", Valid: true},
				CookingTime: pgtype.Int4{Int32: 20, Valid: true},
			}).
			Return(nil)
		mockDB.EXPECT().ClearRecipeTags(gomock.Any(), int64(7)).Return(nil)
		mockDB.EXPECT().ClearRecipeIngredients(gomock.Any(), int64(7)).Return(nil)
		mockDB.EXPECT().AddRecipeTag(gomock.Any(), gomock.Any()).Return(nil)
		mockDB.EXPECT().AddRecipeIngredient(gomock.Any(), gomock.Any()).Return(nil)
		mockDB.EXPECT().
			GetRecipe(gomock.Any(), gomock.Any()).
			Return(database.RecipeRow{ID: 7, AuthorID: 1, Name: "Crepes", CookingTime: 20}, nil)
		mockDB.EXPECT().GetRecipeTags(gomock.Any(), int64(7)).Return([]database.Tag{{ID: 1}}, nil)
		mockDB.EXPECT().
			GetRecipeIngredients(gomock.Any(), int64(7)).
			Return([]database.GetRecipeIngredientsRow{{IngredientID: 10, Amount: 5}}, nil)

		view, err := svc.Update(ctx, 1, false, 7, UpdatePayload{
			Tags:        []int64{1},
			Ingredients: []LinePayload{{ID: 10, Amount: 5}},
			Name:        &name,
			CookingTime: &cookingTime,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.Name != "Crepes" || view.CookingTime != 20 {
			t.Errorf("unexpected view: %+v", view)
		}
	})

	t.Run("non-owner rejected before any write", func(t *testing.T) {
		svc, mockDB := newMutationService(t, &fakeFiles{})

		mockDB.EXPECT().
			GetRecipeAuthor(gomock.Any(), int64(7)).
			Return(int64(99), nil)

		_, err := svc.Update(ctx, 1, false, 7, UpdatePayload{
			Tags:        []int64{1},
			Ingredients: []LinePayload{{ID: 10, Amount: 5}},
		})
		if !errors.Is(err, ErrNotOwner) {
			t.Fatalf("expected ErrNotOwner, got %v", err)
		}
	})
}

func TestList_FilterNormalization(t *testing.T) {
	ctx := context.Background()
	svc, mockDB := newTestService(t)

	viewer := int64(1)
	mockDB.EXPECT().
		CountRecipes(gomock.Any(), gomock.Any()).
		Return(int64(0), nil)
	mockDB.EXPECT().
		ListRecipes(gomock.Any(), gomock.Cond(func(arg database.ListRecipesParams) bool {
			return arg.Limit == MaxPageSize && arg.Offset == 0 && arg.OnlyFavorited
		})).
		Return([]database.RecipeRow{}, nil)

	views, total, err := svc.List(ctx, ListFilter{
		Viewer:        &viewer,
		OnlyFavorited: true,
		Page:          0,
		Limit:         10000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 || len(views) != 0 {
		t.Errorf("expected empty listing, got total %d, %d views", total, len(views))
	}
}

func TestList_AnonymousViewerIgnoresFavoritedFilter(t *testing.T) {
	ctx := context.Background()
	svc, mockDB := newTestService(t)

	mockDB.EXPECT().
		CountRecipes(gomock.Any(), gomock.Cond(func(arg database.CountRecipesParams) bool {
			return !arg.OnlyFavorited && !arg.ViewerID.Valid
		})).
		Return(int64(0), nil)
	mockDB.EXPECT().
		ListRecipes(gomock.Any(), gomock.Any()).
		Return([]database.RecipeRow{}, nil)

	_, _, err := svc.List(ctx, ListFilter{OnlyFavorited: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
