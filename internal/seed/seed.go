package seed

import (
	"context"
	"fmt"

	"coffeeshop-pos/internal/domain"
)

// ProductWriter is the slice of the catalog repository the seeder needs.
// Both storage backends satisfy it, so one menu seeds either.
type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

var sizeOption = domain.Option{Name: "Size", Choices: []domain.Choice{
	{Label: "Small", PriceDeltaCents: 0},
	{Label: "Medium", PriceDeltaCents: 50},
	{Label: "Large", PriceDeltaCents: 100},
}}

var milkOption = domain.Option{Name: "Milk Type", Choices: []domain.Choice{
	{Label: "Whole Milk", PriceDeltaCents: 0},
	{Label: "Almond Milk", PriceDeltaCents: 50},
	{Label: "Oat Milk", PriceDeltaCents: 60},
	{Label: "Soy Milk", PriceDeltaCents: 50},
}}

var syrupOption = domain.Option{Name: "Syrup", Choices: []domain.Choice{
	{Label: "Vanilla", PriceDeltaCents: 50},
	{Label: "Caramel", PriceDeltaCents: 50},
	{Label: "Hazelnut", PriceDeltaCents: 50},
}}

// menu is the stock coffee-shop menu. Prices are cents.
var menu = []domain.Product{
	{Name: "Espresso", Category: domain.CategoryCoffee, PriceCents: 250,
		Description: "Rich and bold espresso shot",
		Options:     []domain.Option{sizeOption, milkOption, syrupOption}},
	{Name: "Latte", Category: domain.CategoryCoffee, PriceCents: 350,
		Description: "Smooth espresso with steamed milk",
		Options:     []domain.Option{sizeOption, milkOption, syrupOption}},
	{Name: "Cappuccino", Category: domain.CategoryCoffee, PriceCents: 350,
		Description: "Equal parts espresso, steamed milk, and foam",
		Options:     []domain.Option{sizeOption, milkOption, syrupOption}},
	{Name: "Americano", Category: domain.CategoryCoffee, PriceCents: 300,
		Description: "Espresso diluted with hot water",
		Options:     []domain.Option{sizeOption, syrupOption}},
	{Name: "Mocha", Category: domain.CategoryCoffee, PriceCents: 400,
		Description: "Espresso with chocolate and steamed milk",
		Options:     []domain.Option{sizeOption, milkOption, syrupOption}},
	{Name: "Macchiato", Category: domain.CategoryCoffee, PriceCents: 375,
		Description: "Espresso with a dollop of steamed milk foam",
		Options:     []domain.Option{sizeOption, milkOption}},

	{Name: "Earl Grey", Category: domain.CategoryTea, PriceCents: 275,
		Description: "Classic black tea with bergamot",
		Options:     []domain.Option{sizeOption}},
	{Name: "Green Tea", Category: domain.CategoryTea, PriceCents: 250,
		Description: "Fresh and light green tea",
		Options:     []domain.Option{sizeOption}},
	{Name: "Chamomile", Category: domain.CategoryTea, PriceCents: 250,
		Description: "Soothing herbal tea",
		Options:     []domain.Option{sizeOption}},
	{Name: "Chai Latte", Category: domain.CategoryTea, PriceCents: 325,
		Description: "Spiced tea with steamed milk",
		Options:     []domain.Option{sizeOption, milkOption}},

	{Name: "Croissant", Category: domain.CategoryPastry, PriceCents: 200,
		Description: "Buttery, flaky pastry"},
	{Name: "Blueberry Muffin", Category: domain.CategoryPastry, PriceCents: 250,
		Description: "Fresh baked muffin with blueberries"},
	{Name: "Danish", Category: domain.CategoryPastry, PriceCents: 275,
		Description: "Sweet pastry with fruit filling"},
	{Name: "Chocolate Chip Cookie", Category: domain.CategoryPastry, PriceCents: 150,
		Description: "Homemade chocolate chip cookie"},

	{Name: "Orange Juice", Category: domain.CategoryOther, PriceCents: 300,
		Description: "Fresh squeezed orange juice"},
	{Name: "Bottled Water", Category: domain.CategoryOther, PriceCents: 150,
		Description: "Premium bottled water"},
	{Name: "Granola Bar", Category: domain.CategoryOther, PriceCents: 225,
		Description: "Healthy granola bar snack"},
}

// Apply writes the stock menu. It is idempotent: products upsert by name,
// so reruns refresh prices and options without duplicating rows.
func Apply(ctx context.Context, writer ProductWriter) error {
	for _, p := range menu {
		p.Available = true
		if _, err := writer.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}
	return nil
}
