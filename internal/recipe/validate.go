package recipe

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks payload rejections so handlers can map them to
// a 400 without inspecting the cause.
var ErrValidation = errors.New("invalid recipe payload")

// LinePayload is one ingredient reference in a recipe payload.
type LinePayload struct {
	ID     int64 `json:"id" validate:"required,min=1"`
	Amount int32 `json:"amount" validate:"required,min=1"`
}

// CreatePayload carries a new recipe. Tags and ingredient lines are
// both mandatory and non-empty.
type CreatePayload struct {
	Tags        []int64       `json:"tags" validate:"required,min=1"`
	Ingredients []LinePayload `json:"ingredients" validate:"required,min=1,dive"`
	Name        string        `json:"name" validate:"required,max=200"`
	Image       string        `json:"image" validate:"required"`
	Text        string        `json:"text" validate:"required"`
	CookingTime int32         `json:"cooking_time" validate:"required,min=1"`
}

// UpdatePayload patches a recipe. The tag set and ingredient lines
// are always replaced wholesale; scalar fields left nil keep their
// stored values.
type UpdatePayload struct {
	Tags        []int64       `json:"tags" validate:"required,min=1"`
	Ingredients []LinePayload `json:"ingredients" validate:"required,min=1,dive"`
	Name        *string       `json:"name" validate:"omitempty,max=200"`
	Image       *string       `json:"image"`
	Text        *string       `json:"text"`
	CookingTime *int32        `json:"cooking_time" validate:"omitempty,min=1"`
}

func (s *Service) validateCreate(ctx context.Context, payload CreatePayload) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(payload); err != nil {
		return errors.Join(ErrValidation, err)
	}
	return s.validateRelations(ctx, payload.Tags, payload.Ingredients)
}

func (s *Service) validateUpdate(ctx context.Context, payload UpdatePayload) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(payload); err != nil {
		return errors.Join(ErrValidation, err)
	}
	if payload.Name != nil && *payload.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if payload.Text != nil && *payload.Text == "" {
		return fmt.Errorf("%w: text must not be empty", ErrValidation)
	}
	return s.validateRelations(ctx, payload.Tags, payload.Ingredients)
}

// validateRelations rejects duplicate references and references to
// tags or ingredients that do not exist.
func (s *Service) validateRelations(ctx context.Context, tags []int64, lines []LinePayload) error {
	seenTags := make(map[int64]struct{}, len(tags))
	for _, id := range tags {
		if _, ok := seenTags[id]; ok {
			return fmt.Errorf("%w: duplicate tag id %d", ErrValidation, id)
		}
		seenTags[id] = struct{}{}
	}

	ingredientIDs := make([]int64, 0, len(lines))
	seenLines := make(map[int64]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seenLines[line.ID]; ok {
			return fmt.Errorf("%w: duplicate ingredient id %d", ErrValidation, line.ID)
		}
		seenLines[line.ID] = struct{}{}
		ingredientIDs = append(ingredientIDs, line.ID)
	}

	found, err := s.db.GetTagsByIDs(ctx, tags)
	if err != nil {
		return fmt.Errorf("checking tags: %w", err)
	}
	if len(found) != len(tags) {
		return fmt.Errorf("%w: unknown tag id", ErrValidation)
	}

	count, err := s.db.CountIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return fmt.Errorf("checking ingredients: %w", err)
	}
	if count != int64(len(ingredientIDs)) {
		return fmt.Errorf("%w: unknown ingredient id", ErrValidation)
	}

	return nil
}
