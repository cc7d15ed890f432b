package product

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category classifies a catalog item.
type Category string

// Categories stocked by default.
const (
	CategoryHoodie     Category = "hoodie"
	CategoryBeanie     Category = "beanie"
	CategoryShirt      Category = "shirt"
	CategoryTrackpants Category = "trackpants"
)

// Color is a garment color offered by the store.
type Color string

// Colors offered by default.
const (
	ColorGreen  Color = "green"
	ColorBlack  Color = "black"
	ColorYellow Color = "yellow"
	ColorWhite  Color = "white"
)

// Product represents a sellable catalog item. Order placement copies the
// fields it needs into the order line items, so later edits to a product do
// not alter past orders.
type Product struct {
	ID          string
	Title       string
	Category    Category
	Description string
	BasePrice   decimal.Decimal
	Colors      []Color
	Images      []string
	InStock     bool
}

// ValidID reports whether id is a syntactically valid store identifier.
// Identifiers are assigned by the store on insert; the predicate lets callers
// reject malformed ids before hitting the database.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

// CategorySet holds the categories a deployment accepts.
type CategorySet map[Category]struct{}

// NewCategorySet builds a CategorySet from the given categories.
func NewCategorySet(cats ...Category) CategorySet {
	s := make(CategorySet, len(cats))
	for _, c := range cats {
		s[c] = struct{}{}
	}
	return s
}

// DefaultCategories returns the standard merchandise categories.
func DefaultCategories() CategorySet {
	return NewCategorySet(CategoryHoodie, CategoryBeanie, CategoryShirt, CategoryTrackpants)
}

// Contains reports whether c is in the set.
func (s CategorySet) Contains(c Category) bool {
	_, ok := s[c]
	return ok
}

// Palette holds the colors a deployment accepts. Order placement validates
// requested colors against the store-wide palette, not against the product's
// own Colors list.
type Palette map[Color]struct{}

// NewPalette builds a Palette from the given colors.
func NewPalette(colors ...Color) Palette {
	p := make(Palette, len(colors))
	for _, c := range colors {
		p[c] = struct{}{}
	}
	return p
}

// DefaultPalette returns the standard garment colors.
func DefaultPalette() Palette {
	return NewPalette(ColorGreen, ColorBlack, ColorYellow, ColorWhite)
}

// Contains reports whether c is in the palette.
func (p Palette) Contains(c Color) bool {
	_, ok := p[c]
	return ok
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	Create(ctx context.Context, p Product) (string, error)
}
