package domain

import (
	"fmt"
	"time"
)

// Product is one menu entry. Catalog data is read-mostly; the register
// snapshots name and resolved unit price into order lines at add time, so
// later menu edits never change an open order.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	PriceCents  int64     `json:"priceCents"`
	Description string    `json:"description,omitempty"`
	Available   bool      `json:"available"`
	Options     []Option  `json:"options,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Option is one customization axis of a product, e.g. "Size".
type Option struct {
	Name    string   `json:"name"`
	Choices []Choice `json:"choices"`
}

// Choice is a selectable option value and its price adjustment.
type Choice struct {
	Label           string `json:"label"`
	PriceDeltaCents int64  `json:"priceDeltaCents"`
}

// UnitPriceCents resolves the unit price for the given selections: base
// price plus the delta of every chosen value. Every selection must name a
// defined option and one of its choices, else ErrInvalidCustomization.
func (p Product) UnitPriceCents(selections map[string]string) (int64, error) {
	price := p.PriceCents
	for name, label := range selections {
		opt, ok := p.option(name)
		if !ok {
			return 0, fmt.Errorf("%w: product %q has no option %q", ErrInvalidCustomization, p.Name, name)
		}
		choice, ok := opt.choice(label)
		if !ok {
			return 0, fmt.Errorf("%w: option %q has no choice %q", ErrInvalidCustomization, name, label)
		}
		price += choice.PriceDeltaCents
	}
	return price, nil
}

func (p Product) option(name string) (Option, bool) {
	for _, opt := range p.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return Option{}, false
}

func (o Option) choice(label string) (Choice, bool) {
	for _, c := range o.Choices {
		if c.Label == label {
			return c, true
		}
	}
	return Choice{}, false
}
