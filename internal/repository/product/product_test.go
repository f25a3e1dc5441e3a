package product

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"coffeeshop-pos/internal/domain"
	"coffeeshop-pos/internal/migrate"
)

func TestPostgres_ListAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	latte, err := repo.Upsert(ctx, domain.Product{
		Name:       "Latte",
		Category:   domain.CategoryCoffee,
		PriceCents: 350,
		Available:  true,
		Options: []domain.Option{
			{Name: "Size", Choices: []domain.Choice{
				{Label: "Small", PriceDeltaCents: 0},
				{Label: "Large", PriceDeltaCents: 75},
			}},
		},
	})
	if err != nil {
		t.Fatalf("upsert latte: %v", err)
	}
	if _, err := repo.Upsert(ctx, domain.Product{
		Name:       "Croissant",
		Category:   domain.CategoryPastry,
		PriceCents: 300,
		Available:  true,
	}); err != nil {
		t.Fatalf("upsert croissant: %v", err)
	}
	if _, err := repo.Upsert(ctx, domain.Product{
		Name:       "Seasonal Blend",
		Category:   domain.CategoryCoffee,
		PriceCents: 400,
		Available:  false,
	}); err != nil {
		t.Fatalf("upsert seasonal: %v", err)
	}

	list, err := repo.List(ctx, "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 available products, got %d", len(list))
	}

	coffee, err := repo.List(ctx, domain.CategoryCoffee)
	if err != nil {
		t.Fatalf("List coffee: %v", err)
	}
	if len(coffee) != 1 || coffee[0].Name != "Latte" {
		t.Fatalf("unexpected coffee list %+v", coffee)
	}
	if len(coffee[0].Options) != 1 || len(coffee[0].Options[0].Choices) != 2 {
		t.Fatalf("expected latte options loaded, got %+v", coffee[0].Options)
	}

	got, err := repo.GetByID(ctx, latte.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Latte" || got.Options[0].Choices[1].PriceDeltaCents != 75 {
		t.Fatalf("unexpected product %+v", got)
	}

	if _, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_UpsertKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	p, err := repo.Upsert(ctx, domain.Product{
		Name:       "Espresso",
		Category:   domain.CategoryCoffee,
		PriceCents: 250,
		Available:  true,
	})
	if err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("expected ID set")
	}

	updated, err := repo.Upsert(ctx, domain.Product{
		Name:        "Espresso",
		Category:    domain.CategoryCoffee,
		Description: "double shot",
		PriceCents:  275,
		Available:   true,
		Options: []domain.Option{
			{Name: "Shots", Choices: []domain.Choice{{Label: "Triple", PriceDeltaCents: 50}}},
		},
	})
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if updated.ID != p.ID {
		t.Fatalf("expected same ID after update")
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PriceCents != 275 || got.Description != "double shot" {
		t.Fatalf("unexpected updated product %+v", got)
	}
	if len(got.Options) != 1 || got.Options[0].Name != "Shots" {
		t.Fatalf("expected option set replaced, got %+v", got.Options)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, product_options, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
