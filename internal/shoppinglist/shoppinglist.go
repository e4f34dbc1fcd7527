// Package shoppinglist aggregates the ingredients of the recipes in
// a user's shopping cart into a downloadable list.
package shoppinglist

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/foodgram-app/backend/internal/database"
)

// Line is one aggregated shopping-list entry: equal (name, unit)
// pairs across recipes are summed.
type Line struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int64  `json:"amount"`
}

type Service struct {
	db database.DB
}

func NewService(db database.DB) *Service {
	return &Service{db: db}
}

// Aggregate sums ingredient amounts across every recipe in the
// user's cart, grouped by (name, unit) and ordered by name. An empty
// cart yields an empty list.
func (s *Service) Aggregate(ctx context.Context, userID int64) ([]Line, error) {
	rows, err := s.db.AggregateShoppingList(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregating shopping list: %w", err)
	}

	lines := make([]Line, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, Line{
			Name:            r.Name,
			MeasurementUnit: r.MeasurementUnit,
			Amount:          r.TotalAmount,
		})
	}
	return lines, nil
}

// RenderCSV renders the list as a CSV document with a header row.
func RenderCSV(lines []Line) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"name", "measurement_unit", "amount"}); err != nil {
		return nil, fmt.Errorf("writing csv header: %w", err)
	}
	for _, line := range lines {
		record := []string{
			line.Name,
			line.MeasurementUnit,
			strconv.FormatInt(line.Amount, 10),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing csv: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderText renders the list as a plain text document, one entry
// per line.
func RenderText(lines []Line) []byte {
	var buf bytes.Buffer
	buf.WriteString("Shopping list\n\n")
	for _, line := range lines {
		fmt.Fprintf(&buf, "%s (%s) - %d\n", line.Name, line.MeasurementUnit, line.Amount)
	}
	return buf.Bytes()
}
