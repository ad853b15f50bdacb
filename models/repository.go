package models

import (
	"context"
	"errors"
)

var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateCategoryName is returned when the unique index on category
	// names rejects a write.
	ErrDuplicateCategoryName = errors.New("category name already in use")
)

// Repository is the storage contract the inventory service runs against.
// Lookups by id return ErrCategoryNotFound or ErrProductNotFound; lookups by
// name return (nil, nil) when nothing matches.
type Repository interface {
	GetCategory(ctx context.Context, id uint) (*Category, error)
	FindCategoryByName(ctx context.Context, name string) (*Category, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]Category, error)
	CreateCategory(ctx context.Context, category *Category) error
	SaveCategory(ctx context.Context, category *Category) error

	GetProduct(ctx context.Context, id uint) (*Product, error)
	// GetProductForUpdate reads a product and holds it until the surrounding
	// transaction ends.
	GetProductForUpdate(ctx context.Context, id uint) (*Product, error)
	ListProducts(ctx context.Context, filters ProductFilters) ([]Product, int64, error)
	ListProductsByCategory(ctx context.Context, categoryID uint) ([]Product, error)
	CreateProduct(ctx context.Context, product *Product) error
	SaveProduct(ctx context.Context, product *Product) error
}

// TxFunc runs inside a transaction. Returning an error rolls it back.
type TxFunc func(repo Repository) error
