package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/storefront/inventory-api/models"
)

// Prices are stored as numeric(10,2).
const priceScale = 2

var maxPrice = decimal.New(1, 8)

func checkPrice(op string, price decimal.Decimal) error {
	if !price.IsPositive() {
		return validation(op, ErrInvalidPrice)
	}
	if !price.Equal(price.Round(priceScale)) {
		return validation(op, ErrPricePrecision)
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return validation(op, ErrPriceTooLarge)
	}
	return nil
}

func checkQuantity(op string, quantity int) error {
	if quantity < 0 {
		return validation(op, ErrInvalidQuantity)
	}
	return nil
}

func checkAmount(op string, amount int) error {
	if amount <= 0 {
		return validation(op, ErrInvalidAmount)
	}
	return nil
}

// activeCategory resolves a category a product may be attached to.
func activeCategory(ctx context.Context, repo models.Repository, op string, id uint) (*models.Category, error) {
	category, err := repo.GetCategory(ctx, id)
	if errors.Is(err, models.ErrCategoryNotFound) {
		return nil, validation(op, ErrInvalidCategory)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: load category %d: %w", op, id, err)
	}
	if !category.Active {
		return nil, validation(op, ErrInvalidCategory)
	}
	return category, nil
}

func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (product *models.Product, err error) {
	const op = "inventory.CreateProduct"
	ctx, span := s.start(ctx, op, attribute.Int64("category.id", int64(input.CategoryID)))
	defer func() { s.finish(span, op, err) }()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, validation(op, ErrNameRequired)
	}
	if err := checkPrice(op, input.Price); err != nil {
		return nil, err
	}
	if err := checkQuantity(op, input.Quantity); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		category, err := activeCategory(ctx, repo, op, input.CategoryID)
		if err != nil {
			return err
		}

		p := &models.Product{
			Name:        name,
			Description: input.Description,
			Price:       input.Price,
			Quantity:    input.Quantity,
			CategoryID:  category.ID,
			Active:      true,
		}
		if err := repo.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("%s: create product: %w", op, err)
		}
		p.Category = *category
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.Uint("product_id", product.ID),
		zap.Uint("category_id", product.CategoryID),
		zap.Int("quantity", product.Quantity),
	)
	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id uint) (product *models.Product, err error) {
	const op = "inventory.GetProduct"
	ctx, span := s.start(ctx, op, attribute.Int64("product.id", int64(id)))
	defer func() { s.finish(span, op, err) }()

	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		p, err := repo.GetProduct(ctx, id)
		if errors.Is(err, models.ErrProductNotFound) {
			return notFound(op, ErrProductNotFound)
		}
		if err != nil {
			return fmt.Errorf("%s: load product %d: %w", op, id, err)
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ListProducts returns the page selected by filters and the number of
// matches before pagination. A nil Active matches both states.
func (s *Service) ListProducts(ctx context.Context, filters models.ProductFilters) (products []models.Product, total int64, err error) {
	const op = "inventory.ListProducts"
	ctx, span := s.start(ctx, op)
	defer func() { s.finish(span, op, err) }()

	if filters.StockMin != nil && *filters.StockMin < 0 {
		return nil, 0, validation(op, ErrInvalidFilter)
	}
	if filters.PriceMax != nil && filters.PriceMax.IsNegative() {
		return nil, 0, validation(op, ErrInvalidFilter)
	}
	if filters.Offset < 0 {
		return nil, 0, validation(op, ErrInvalidPage)
	}

	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		list, count, err := repo.ListProducts(ctx, filters)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		products, total = list, count
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListProductsByCategory returns every product of an existing category.
func (s *Service) ListProductsByCategory(ctx context.Context, categoryID uint) (products []models.Product, err error) {
	const op = "inventory.ListProductsByCategory"
	ctx, span := s.start(ctx, op, attribute.Int64("category.id", int64(categoryID)))
	defer func() { s.finish(span, op, err) }()

	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		if _, err := loadCategory(ctx, repo, op, categoryID); err != nil {
			return err
		}
		list, err := repo.ListProductsByCategory(ctx, categoryID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		products = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateProduct applies a partial update, re-validating every provided
// field that carries an invariant.
func (s *Service) UpdateProduct(ctx context.Context, id uint, patch ProductPatch) (product *models.Product, err error) {
	const op = "inventory.UpdateProduct"
	ctx, span := s.start(ctx, op, attribute.Int64("product.id", int64(id)))
	defer func() { s.finish(span, op, err) }()

	var name string
	if patch.Name != nil {
		if name = strings.TrimSpace(*patch.Name); name == "" {
			return nil, validation(op, ErrNameRequired)
		}
	}
	if patch.Price != nil {
		if err := checkPrice(op, *patch.Price); err != nil {
			return nil, err
		}
	}
	if patch.Quantity != nil {
		if err := checkQuantity(op, *patch.Quantity); err != nil {
			return nil, err
		}
	}

	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		p, err := lockProduct(ctx, repo, op, id)
		if err != nil {
			return err
		}

		if patch.CategoryID != nil && *patch.CategoryID != p.CategoryID {
			if _, err := activeCategory(ctx, repo, op, *patch.CategoryID); err != nil {
				return err
			}
			p.CategoryID = *patch.CategoryID
		}
		if patch.Name != nil {
			p.Name = name
		}
		if patch.Description != nil {
			p.Description = patch.Description
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Quantity != nil {
			p.Quantity = *patch.Quantity
		}
		if patch.Active != nil {
			p.Active = *patch.Active
		}

		if err := repo.SaveProduct(ctx, p); err != nil {
			return fmt.Errorf("%s: save product %d: %w", op, id, err)
		}
		product, err = reloadProduct(ctx, repo, op, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.Uint("product_id", product.ID), zap.Bool("active", product.Active))
	return product, nil
}

// DeactivateProduct soft-deletes a product.
func (s *Service) DeactivateProduct(ctx context.Context, id uint) (product *models.Product, err error) {
	const op = "inventory.DeactivateProduct"
	ctx, span := s.start(ctx, op, attribute.Int64("product.id", int64(id)))
	defer func() { s.finish(span, op, err) }()

	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		p, err := lockProduct(ctx, repo, op, id)
		if err != nil {
			return err
		}
		p.Active = false
		if err := repo.SaveProduct(ctx, p); err != nil {
			return fmt.Errorf("%s: save product %d: %w", op, id, err)
		}
		product, err = reloadProduct(ctx, repo, op, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product deactivated", zap.Uint("product_id", product.ID))
	return product, nil
}

// Restock adds amount units to the product's stock. Inactive products can
// be restocked.
func (s *Service) Restock(ctx context.Context, id uint, amount int) (product *models.Product, err error) {
	const op = "inventory.Restock"
	ctx, span := s.start(ctx, op,
		attribute.Int64("product.id", int64(id)),
		attribute.Int("stock.amount", amount),
	)
	defer func() { s.finish(span, op, err) }()

	if err := checkAmount(op, amount); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		p, err := lockProduct(ctx, repo, op, id)
		if err != nil {
			return err
		}
		if amount > math.MaxInt-p.Quantity {
			return conflict(op, ErrStockOverflow)
		}
		p.Quantity += amount
		if err := repo.SaveProduct(ctx, p); err != nil {
			return fmt.Errorf("%s: save product %d: %w", op, id, err)
		}
		product, err = reloadProduct(ctx, repo, op, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product restocked",
		zap.Uint("product_id", product.ID),
		zap.Int("amount", amount),
		zap.Int("quantity", product.Quantity),
	)
	return product, nil
}

// Purchase removes amount units from an active product. The stock check and
// the decrement happen under the product's row lock.
func (s *Service) Purchase(ctx context.Context, id uint, amount int) (product *models.Product, err error) {
	const op = "inventory.Purchase"
	ctx, span := s.start(ctx, op,
		attribute.Int64("product.id", int64(id)),
		attribute.Int("stock.amount", amount),
	)
	defer func() { s.finish(span, op, err) }()

	if err := checkAmount(op, amount); err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		p, err := lockProduct(ctx, repo, op, id)
		if err != nil {
			return err
		}
		if !p.Active {
			return conflict(op, ErrInactiveProduct)
		}
		if p.Quantity < amount {
			return conflict(op, ErrInsufficientStock)
		}

		p.Quantity -= amount
		if err := repo.SaveProduct(ctx, p); err != nil {
			return fmt.Errorf("%s: save product %d: %w", op, id, err)
		}
		product, err = reloadProduct(ctx, repo, op, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product purchased",
		zap.Uint("product_id", product.ID),
		zap.Int("amount", amount),
		zap.Int("quantity", product.Quantity),
	)
	return product, nil
}
