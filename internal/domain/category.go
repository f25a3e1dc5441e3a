package domain

import (
	"fmt"
	"strings"
)

// Category buckets menu products into the register's tab row.
type Category string

const (
	CategoryCoffee Category = "coffee"
	CategoryTea    Category = "tea"
	CategoryPastry Category = "pastry"
	CategoryOther  Category = "other"
)

// Categories returns every valid category in display order.
func Categories() []Category {
	return []Category{CategoryCoffee, CategoryTea, CategoryPastry, CategoryOther}
}

// ParseCategory normalizes s into a Category, accepting the display label
// spellings ("Pastries") as well as the canonical values.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "coffee":
		return CategoryCoffee, nil
	case "tea", "teas":
		return CategoryTea, nil
	case "pastry", "pastries":
		return CategoryPastry, nil
	case "other":
		return CategoryOther, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

// Label returns the human tab label for the category.
func (c Category) Label() string {
	switch c {
	case CategoryCoffee:
		return "Coffee"
	case CategoryTea:
		return "Tea"
	case CategoryPastry:
		return "Pastries"
	case CategoryOther:
		return "Other"
	}
	return string(c)
}

func (c Category) String() string { return string(c) }
