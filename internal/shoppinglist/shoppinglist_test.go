package shoppinglist

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/foodgram-app/backend/internal/database"
)

type fakeDB struct {
	*database.MockQuerier
}

func (f fakeDB) WithTx(_ context.Context, fn func(database.Querier) error) error {
	return fn(f.MockQuerier)
}

func TestAggregate(t *testing.T) {
	ctx := context.Background()

	t.Run("sums grouped ingredient rows", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			AggregateShoppingList(gomock.Any(), int64(42)).
			Return([]database.AggregateShoppingListRow{
				{Name: "flour", MeasurementUnit: "g", TotalAmount: 700},
				{Name: "milk", MeasurementUnit: "ml", TotalAmount: 250},
			}, nil)

		svc := NewService(fakeDB{mockDB})
		lines, err := svc.Aggregate(ctx, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []Line{
			{Name: "flour", MeasurementUnit: "g", Amount: 700},
			{Name: "milk", MeasurementUnit: "ml", Amount: 250},
		}
		if len(lines) != len(want) {
			t.Fatalf("expected %d lines, got %d", len(want), len(lines))
		}
		for i := range want {
			if lines[i] != want[i] {
				t.Errorf("line %d: expected %+v, got %+v", i, want[i], lines[i])
			}
		}
	})

	t.Run("empty cart yields empty list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			AggregateShoppingList(gomock.Any(), int64(42)).
			Return([]database.AggregateShoppingListRow{}, nil)

		svc := NewService(fakeDB{mockDB})
		lines, err := svc.Aggregate(ctx, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lines == nil {
			t.Error("expected empty slice, got nil")
		}
		if len(lines) != 0 {
			t.Errorf("expected 0 lines, got %d", len(lines))
		}
	})

	t.Run("database error is propagated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := database.NewMockQuerier(ctrl)

		mockDB.EXPECT().
			AggregateShoppingList(gomock.Any(), int64(42)).
			Return(nil, errors.New("connection lost"))

		svc := NewService(fakeDB{mockDB})
		if _, err := svc.Aggregate(ctx, 42); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestRenderCSV(t *testing.T) {
	lines := []Line{
		{Name: "flour", MeasurementUnit: "g", Amount: 700},
		{Name: "milk, whole", MeasurementUnit: "ml", Amount: 250},
	}

	out, err := RenderCSV(lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "name,measurement_unit,amount\n" +
		"flour,g,700\n" +
		"\"milk, whole\",ml,250\n"
	if string(out) != want {
		t.Errorf("expected CSV:\n%s\ngot:\n%s", want, string(out))
	}
}

func TestRenderCSV_Empty(t *testing.T) {
	out, err := RenderCSV(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "name,measurement_unit,amount\n"
	if string(out) != want {
		t.Errorf("expected header only:\n%s\ngot:\n%s", want, string(out))
	}
}

func TestRenderText(t *testing.T) {
	lines := []Line{
		{Name: "flour", MeasurementUnit: "g", Amount: 700},
		{Name: "milk", MeasurementUnit: "ml", Amount: 250},
	}

	out := RenderText(lines)

	want := "Shopping list\n\n" +
		"flour (g) - 700\n" +
		"milk (ml) - 250\n"
	if string(out) != want {
		t.Errorf("expected text:\n%s\ngot:\n%s", want, string(out))
	}
}

func TestRenderText_Empty(t *testing.T) {
	out := RenderText(nil)
	if string(out) != "Shopping list\n\n" {
		t.Errorf("expected header only, got:\n%s", string(out))
	}
}
