package product

import (
	"context"

	"coffeeshop-pos/internal/domain"
)

// Repository is the catalog store. Registers only read it; writes happen
// out of band through the seeder and the menu importer.
type Repository interface {
	// List returns available products, optionally narrowed to one
	// category. An empty category means the whole menu.
	List(ctx context.Context, category domain.Category) ([]domain.Product, error)
	// GetByID returns the product regardless of availability so callers
	// can distinguish "unknown" from "currently unavailable".
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// Upsert writes a product keyed by name and replaces its option set.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

// appendChoice folds one option row into a product's option list, keeping
// first-seen option order.
func appendChoice(opts []domain.Option, name, label string, delta int64) []domain.Option {
	for i := range opts {
		if opts[i].Name == name {
			opts[i].Choices = append(opts[i].Choices, domain.Choice{Label: label, PriceDeltaCents: delta})
			return opts
		}
	}
	return append(opts, domain.Option{
		Name:    name,
		Choices: []domain.Choice{{Label: label, PriceDeltaCents: delta}},
	})
}
