package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/storefront/inventory-api/models"
)

const minCategoryNameLength = 3

// normalizeCategoryName trims the name and checks its length.
func normalizeCategoryName(op, name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minCategoryNameLength {
		return "", validation(op, ErrNameTooShort)
	}
	return name, nil
}

// ensureNameAvailable fails when a category other than selfID already uses name.
func ensureNameAvailable(ctx context.Context, repo models.Repository, op, name string, selfID uint) error {
	existing, err := repo.FindCategoryByName(ctx, name)
	if err != nil {
		return fmt.Errorf("%s: find category by name: %w", op, err)
	}
	if existing != nil && existing.ID != selfID {
		return conflict(op, ErrDuplicateName)
	}
	return nil
}

func saveCategory(ctx context.Context, repo models.Repository, op string, category *models.Category) error {
	err := repo.SaveCategory(ctx, category)
	if errors.Is(err, models.ErrDuplicateCategoryName) {
		return conflict(op, ErrDuplicateName)
	}
	if err != nil {
		return fmt.Errorf("%s: save category %d: %w", op, category.ID, err)
	}
	return nil
}

// deactivateProducts marks every product of the category inactive.
func deactivateProducts(ctx context.Context, repo models.Repository, op string, categoryID uint) (int, error) {
	products, err := repo.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		return 0, fmt.Errorf("%s: list products of category %d: %w", op, categoryID, err)
	}

	changed := 0
	for i := range products {
		if !products[i].Active {
			continue
		}
		products[i].Active = false
		if err := repo.SaveProduct(ctx, &products[i]); err != nil {
			return 0, fmt.Errorf("%s: deactivate product %d: %w", op, products[i].ID, err)
		}
		changed++
	}
	return changed, nil
}

func (s *Service) CreateCategory(ctx context.Context, input CreateCategoryInput) (category *models.Category, err error) {
	const op = "inventory.CreateCategory"
	ctx, span := s.start(ctx, op)
	defer func() { s.finish(span, op, err) }()

	name, err := normalizeCategoryName(op, input.Name)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		if err := ensureNameAvailable(ctx, repo, op, name, 0); err != nil {
			return err
		}

		c := &models.Category{
			Name:        name,
			Description: input.Description,
			Active:      true,
		}
		err := repo.CreateCategory(ctx, c)
		if errors.Is(err, models.ErrDuplicateCategoryName) {
			return conflict(op, ErrDuplicateName)
		}
		if err != nil {
			return fmt.Errorf("%s: create category: %w", op, err)
		}
		category = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category created", zap.Uint("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

func (s *Service) GetCategory(ctx context.Context, id uint) (category *models.Category, err error) {
	const op = "inventory.GetCategory"
	ctx, span := s.start(ctx, op, attribute.Int64("category.id", int64(id)))
	defer func() { s.finish(span, op, err) }()

	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		c, err := loadCategory(ctx, repo, op, id)
		if err != nil {
			return err
		}
		category = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// GetCategoryDetail returns the category with all of its products, active or not.
func (s *Service) GetCategoryDetail(ctx context.Context, id uint) (detail *CategoryDetail, err error) {
	const op = "inventory.GetCategoryDetail"
	ctx, span := s.start(ctx, op, attribute.Int64("category.id", int64(id)))
	defer func() { s.finish(span, op, err) }()

	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		c, err := loadCategory(ctx, repo, op, id)
		if err != nil {
			return err
		}
		products, err := repo.ListProductsByCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("%s: list products of category %d: %w", op, id, err)
		}
		detail = &CategoryDetail{Category: *c, Products: products}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *Service) ListCategories(ctx context.Context, activeOnly bool) (categories []models.Category, err error) {
	const op = "inventory.ListCategories"
	ctx, span := s.start(ctx, op, attribute.Bool("filter.active_only", activeOnly))
	defer func() { s.finish(span, op, err) }()

	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		list, err := repo.ListCategories(ctx, activeOnly)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		categories = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateCategory applies a partial update. Turning an active category
// inactive through the patch cascades exactly like DeactivateCategory.
func (s *Service) UpdateCategory(ctx context.Context, id uint, patch CategoryPatch) (category *models.Category, err error) {
	const op = "inventory.UpdateCategory"
	ctx, span := s.start(ctx, op, attribute.Int64("category.id", int64(id)))
	defer func() { s.finish(span, op, err) }()

	var name string
	if patch.Name != nil {
		if name, err = normalizeCategoryName(op, *patch.Name); err != nil {
			return nil, err
		}
	}

	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		c, err := loadCategory(ctx, repo, op, id)
		if err != nil {
			return err
		}

		if patch.Name != nil && name != c.Name {
			if err := ensureNameAvailable(ctx, repo, op, name, c.ID); err != nil {
				return err
			}
			c.Name = name
		}
		if patch.Description != nil {
			c.Description = patch.Description
		}

		cascade := false
		if patch.Active != nil {
			cascade = c.Active && !*patch.Active
			c.Active = *patch.Active
		}

		if err := saveCategory(ctx, repo, op, c); err != nil {
			return err
		}
		if cascade {
			if _, err := deactivateProducts(ctx, repo, op, c.ID); err != nil {
				return err
			}
		}
		category = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("category updated", zap.Uint("category_id", category.ID), zap.Bool("active", category.Active))
	return category, nil
}

// DeactivateCategory soft-deletes the category and every product in it.
func (s *Service) DeactivateCategory(ctx context.Context, id uint) (category *models.Category, err error) {
	const op = "inventory.DeactivateCategory"
	ctx, span := s.start(ctx, op, attribute.Int64("category.id", int64(id)))
	defer func() { s.finish(span, op, err) }()

	var deactivated int
	err = s.store.Transaction(ctx, func(repo models.Repository) error {
		c, err := loadCategory(ctx, repo, op, id)
		if err != nil {
			return err
		}

		c.Active = false
		if err := saveCategory(ctx, repo, op, c); err != nil {
			return err
		}
		if deactivated, err = deactivateProducts(ctx, repo, op, c.ID); err != nil {
			return err
		}
		category = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("category.products_deactivated", deactivated))
	s.logger.Info("category deactivated",
		zap.Uint("category_id", category.ID),
		zap.Int("products_deactivated", deactivated),
	)
	return category, nil
}
