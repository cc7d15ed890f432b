package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() Validator {
	return NewValidator(DefaultCategories(), DefaultPalette())
}

func TestValidate_OK(t *testing.T) {
	v := newTestValidator()

	err := v.Validate(Product{
		Title:     "Classic Hoodie",
		Category:  CategoryHoodie,
		BasePrice: decimal.RequireFromString("39.50"),
		Colors:    []Color{ColorGreen, ColorBlack},
	})
	assert.NoError(t, err)
}

func TestValidate_NoColors(t *testing.T) {
	v := newTestValidator()

	// A product without declared colors is valid; the palette only bounds
	// the colors it does declare.
	err := v.Validate(Product{
		Title:     "Plain Shirt",
		Category:  CategoryShirt,
		BasePrice: decimal.RequireFromString("15.00"),
	})
	assert.NoError(t, err)
}

func TestValidate_InvalidCategory(t *testing.T) {
	v := newTestValidator()

	err := v.Validate(Product{
		Title:     "Socks",
		Category:  "socks",
		BasePrice: decimal.NewFromInt(5),
	})

	var icErr *InvalidCategoryError
	require.ErrorAs(t, err, &icErr)
	assert.Equal(t, Category("socks"), icErr.Category)
}

func TestValidate_InvalidColor(t *testing.T) {
	v := newTestValidator()

	err := v.Validate(Product{
		Title:     "Classic Hoodie",
		Category:  CategoryHoodie,
		BasePrice: decimal.NewFromInt(40),
		Colors:    []Color{ColorGreen, "purple"},
	})

	var colErr *InvalidColorError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, Color("purple"), colErr.Color)
}

func TestValidate_NegativePrice(t *testing.T) {
	v := newTestValidator()

	err := v.Validate(Product{
		Title:     "Classic Hoodie",
		Category:  CategoryHoodie,
		BasePrice: decimal.RequireFromString("-0.01"),
	})
	assert.ErrorIs(t, err, ErrNegativePrice)
}

func TestValidate_CustomSets(t *testing.T) {
	// Deployments can narrow the allowed sets without touching the logic.
	v := NewValidator(NewCategorySet(CategoryBeanie), NewPalette(ColorBlack))

	err := v.Validate(Product{
		Title:     "Winter Beanie",
		Category:  CategoryBeanie,
		BasePrice: decimal.NewFromInt(12),
		Colors:    []Color{ColorBlack},
	})
	assert.NoError(t, err)

	err = v.Validate(Product{
		Title:     "Classic Hoodie",
		Category:  CategoryHoodie,
		BasePrice: decimal.NewFromInt(40),
	})
	var icErr *InvalidCategoryError
	assert.ErrorAs(t, err, &icErr)
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("6f1c1bd1-9e63-4a85-9f6d-8a3f0f1c2d3e"))
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("42"))
	assert.False(t, ValidID("not-an-id"))
}
