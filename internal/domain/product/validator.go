package product

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrNegativePrice indicates a product was submitted with a base price below zero.
var ErrNegativePrice = errors.New("base price must be >= 0")

// InvalidCategoryError indicates a category outside the configured set.
type InvalidCategoryError struct {
	Category Category
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid category %q", e.Category)
}

// InvalidColorError indicates a color outside the configured palette.
type InvalidColorError struct {
	Color Color
}

func (e *InvalidColorError) Error() string {
	return fmt.Sprintf("invalid color %q", e.Color)
}

// Validator checks new products against the deployment's allowed sets.
// The sets are injected rather than read from package state so they can be
// varied per deployment without touching the validation logic.
type Validator struct {
	Categories CategorySet
	Colors     Palette
}

// NewValidator returns a Validator for the given allowed sets.
func NewValidator(cats CategorySet, colors Palette) Validator {
	return Validator{Categories: cats, Colors: colors}
}

// Validate checks a product at creation time. The first violation wins.
func (v Validator) Validate(p Product) error {
	if !v.Categories.Contains(p.Category) {
		return &InvalidCategoryError{Category: p.Category}
	}
	for _, c := range p.Colors {
		if !v.Colors.Contains(c) {
			return &InvalidColorError{Color: c}
		}
	}
	if p.BasePrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
