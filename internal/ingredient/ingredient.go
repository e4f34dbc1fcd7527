// Package ingredient implements the ingredient catalog and its
// name search.
package ingredient

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/foodgram-app/backend/internal/database"
)

// Ingredient is the API shape of a catalog entry.
type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type Service struct {
	db database.DB
}

func NewService(db database.DB) *Service {
	return &Service{db: db}
}

// likeEscaper neutralizes LIKE metacharacters so they match
// literally. Postgres treats backslash as the default escape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search returns catalog entries matching the query, name-prefix
// matches first, then substring matches, each group alphabetical.
// An empty query lists the whole catalog alphabetically.
func (s *Service) Search(ctx context.Context, query string) ([]Ingredient, error) {
	var name pgtype.Text
	query = strings.TrimSpace(query)
	if query != "" {
		name = pgtype.Text{String: likeEscaper.Replace(query), Valid: true}
	}

	rows, err := s.db.SearchIngredients(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("searching ingredients: %w", err)
	}

	out := make([]Ingredient, 0, len(rows))
	for _, r := range rows {
		out = append(out, Ingredient{
			ID:              r.ID,
			Name:            r.Name,
			MeasurementUnit: r.MeasurementUnit,
		})
	}

	RankMatches(query, out)
	return out, nil
}

// Get returns a single catalog entry.
func (s *Service) Get(ctx context.Context, id int64) (Ingredient, error) {
	row, err := s.db.GetIngredient(ctx, id)
	if err != nil {
		return Ingredient{}, err
	}
	return Ingredient{
		ID:              row.ID,
		Name:            row.Name,
		MeasurementUnit: row.MeasurementUnit,
	}, nil
}

// RankMatches orders results so that names starting with the query
// come before names merely containing it. Within each tier names
// sort alphabetically. Matching is case-insensitive. An empty query
// leaves the alphabetical order untouched.
func RankMatches(query string, items []Ingredient) {
	if query == "" {
		return
	}
	q := strings.ToLower(query)

	tier := func(name string) int {
		if strings.HasPrefix(strings.ToLower(name), q) {
			return 0
		}
		return 1
	}

	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := tier(items[i].Name), tier(items[j].Name)
		if ti != tj {
			return ti < tj
		}
		return items[i].Name < items[j].Name
	})
}
