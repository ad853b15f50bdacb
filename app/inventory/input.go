package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/storefront/inventory-api/models"
)

type CreateCategoryInput struct {
	Name        string
	Description *string
}

// CategoryPatch lists the mutable category fields; nil fields are left
// unchanged.
type CategoryPatch struct {
	Name        *string
	Description *string
	Active      *bool
}

type CreateProductInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Quantity    int
	CategoryID  uint
}

// ProductPatch lists the mutable product fields; nil fields are left
// unchanged.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Quantity    *int
	CategoryID  *uint
	Active      *bool
}

// CategoryDetail is a category together with every product it owns.
type CategoryDetail struct {
	Category models.Category
	Products []models.Product
}
