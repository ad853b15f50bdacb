package models

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the gorm-backed Repository.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db: db,
	}
}

// Migrate creates or updates the categories and products tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Category{}, &Product{})
}

// Transaction runs fn against a Store bound to a single database transaction.
func (s *Store) Transaction(ctx context.Context, fn TxFunc) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

func (s *Store) GetCategory(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (s *Store) FindCategoryByName(ctx context.Context, name string) (*Category, error) {
	var category Category
	if err := s.db.WithContext(ctx).
		Where("name = ?", name).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (s *Store) ListCategories(ctx context.Context, activeOnly bool) ([]Category, error) {
	var categories []Category
	query := s.db.WithContext(ctx).Order("id")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) CreateCategory(ctx context.Context, category *Category) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error
	return translateError(err)
}

func (s *Store) SaveCategory(ctx context.Context, category *Category) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Save(category).Error
	return translateError(err)
}

func (s *Store) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := s.db.WithContext(ctx).
		Preload("Category").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *Store) GetProductForUpdate(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *Store) ListProducts(ctx context.Context, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	query := s.db.WithContext(ctx).Model(&Product{})

	// Filter
	if filters.StockMin != nil {
		query = query.Where("products.quantity >= ?", *filters.StockMin)
	}
	if filters.PriceMax != nil {
		query = query.Where("products.price <= ?", *filters.PriceMax)
	}
	if filters.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filters.CategoryID)
	}
	if filters.Active != nil {
		query = query.Where("products.active = ?", *filters.Active)
	}

	// Count total after filtering
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination
	query = query.Preload("Category").Order("products.id").Offset(filters.Offset)
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (s *Store) ListProductsByCategory(ctx context.Context, categoryID uint) ([]Product, error) {
	var products []Product
	if err := s.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("id").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) CreateProduct(ctx context.Context, product *Product) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (s *Store) SaveProduct(ctx context.Context, product *Product) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

// translateError maps a unique_violation raised by postgres to
// ErrDuplicateCategoryName; categories.name is the only unique column.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return ErrDuplicateCategoryName
	}
	return err
}
