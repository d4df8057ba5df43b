package models

import (
	"fmt"
	"strings"
)

// Category is the closed set of transaction categories.
type Category string

const (
	CategoryGroceries      Category = "Groceries"
	CategoryUtilities      Category = "Utilities"
	CategoryRentMortgage   Category = "Rent/Mortgage"
	CategoryTransportation Category = "Transportation"
	CategoryDiningOut      Category = "Dining Out"
	CategoryEntertainment  Category = "Entertainment"
	CategoryShopping       Category = "Shopping"
	CategoryHealthcare     Category = "Healthcare"
	CategoryIncome         Category = "Income"
	CategoryOther          Category = "Other"
)

var categories = []Category{
	CategoryGroceries,
	CategoryUtilities,
	CategoryRentMortgage,
	CategoryTransportation,
	CategoryDiningOut,
	CategoryEntertainment,
	CategoryShopping,
	CategoryHealthcare,
	CategoryIncome,
	CategoryOther,
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryNames returns the category values as plain strings.
func CategoryNames() []string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return names
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves user input to a category, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, known := range categories {
		if strings.EqualFold(s, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown category %q", string(c))
	}
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Stored records carrying
// an unknown category fail to decode.
func (c *Category) UnmarshalText(text []byte) error {
	parsed := Category(text)
	if !parsed.Valid() {
		return fmt.Errorf("unknown category %q", string(text))
	}
	*c = parsed
	return nil
}
