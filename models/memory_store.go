package models

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Repository. Transactions are serialized on a
// single mutex and work on a copy of the data that replaces the live copy
// only when the transaction function succeeds.
type MemoryStore struct {
	mu   sync.Mutex
	data *memoryData
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: newMemoryData()}
}

func (m *MemoryStore) Transaction(_ context.Context, fn TxFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	working := m.data.clone()
	if err := fn(working); err != nil {
		return err
	}
	m.data = working
	return nil
}

func (m *MemoryStore) GetCategory(ctx context.Context, id uint) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetCategory(ctx, id)
}

func (m *MemoryStore) FindCategoryByName(ctx context.Context, name string) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.FindCategoryByName(ctx, name)
}

func (m *MemoryStore) ListCategories(ctx context.Context, activeOnly bool) ([]Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ListCategories(ctx, activeOnly)
}

func (m *MemoryStore) CreateCategory(ctx context.Context, category *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.CreateCategory(ctx, category)
}

func (m *MemoryStore) SaveCategory(ctx context.Context, category *Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SaveCategory(ctx, category)
}

func (m *MemoryStore) GetProduct(ctx context.Context, id uint) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetProduct(ctx, id)
}

func (m *MemoryStore) GetProductForUpdate(ctx context.Context, id uint) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetProductForUpdate(ctx, id)
}

func (m *MemoryStore) ListProducts(ctx context.Context, filters ProductFilters) ([]Product, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ListProducts(ctx, filters)
}

func (m *MemoryStore) ListProductsByCategory(ctx context.Context, categoryID uint) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ListProductsByCategory(ctx, categoryID)
}

func (m *MemoryStore) CreateProduct(ctx context.Context, product *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.CreateProduct(ctx, product)
}

func (m *MemoryStore) SaveProduct(ctx context.Context, product *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SaveProduct(ctx, product)
}

// memoryData implements Repository without locking; callers hold the
// MemoryStore mutex.
type memoryData struct {
	categories   map[uint]Category
	products     map[uint]Product
	nextCategory uint
	nextProduct  uint
}

func newMemoryData() *memoryData {
	return &memoryData{
		categories:   map[uint]Category{},
		products:     map[uint]Product{},
		nextCategory: 1,
		nextProduct:  1,
	}
}

func (d *memoryData) clone() *memoryData {
	c := &memoryData{
		categories:   make(map[uint]Category, len(d.categories)),
		products:     make(map[uint]Product, len(d.products)),
		nextCategory: d.nextCategory,
		nextProduct:  d.nextProduct,
	}
	for id, category := range d.categories {
		c.categories[id] = category
	}
	for id, product := range d.products {
		c.products[id] = product
	}
	return c
}

func (d *memoryData) GetCategory(_ context.Context, id uint) (*Category, error) {
	category, ok := d.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	return &category, nil
}

func (d *memoryData) FindCategoryByName(_ context.Context, name string) (*Category, error) {
	for _, category := range d.categories {
		if category.Name == name {
			return &category, nil
		}
	}
	return nil, nil
}

func (d *memoryData) ListCategories(_ context.Context, activeOnly bool) ([]Category, error) {
	categories := make([]Category, 0, len(d.categories))
	for _, category := range d.categories {
		if activeOnly && !category.Active {
			continue
		}
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (d *memoryData) CreateCategory(ctx context.Context, category *Category) error {
	category.ID = d.nextCategory
	if err := d.SaveCategory(ctx, category); err != nil {
		category.ID = 0
		return err
	}
	d.nextCategory++
	return nil
}

func (d *memoryData) SaveCategory(_ context.Context, category *Category) error {
	for id, existing := range d.categories {
		if id != category.ID && existing.Name == category.Name {
			return ErrDuplicateCategoryName
		}
	}
	stored := *category
	stored.Products = nil
	d.categories[category.ID] = stored
	return nil
}

func (d *memoryData) GetProduct(_ context.Context, id uint) (*Product, error) {
	product, ok := d.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	product.Category = d.categories[product.CategoryID]
	return &product, nil
}

func (d *memoryData) GetProductForUpdate(_ context.Context, id uint) (*Product, error) {
	product, ok := d.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

func (d *memoryData) ListProducts(_ context.Context, filters ProductFilters) ([]Product, int64, error) {
	var matched []Product
	for _, p := range d.products {
		if filters.StockMin != nil && p.Quantity < *filters.StockMin {
			continue
		}
		if filters.PriceMax != nil && p.Price.GreaterThan(*filters.PriceMax) {
			continue
		}
		if filters.CategoryID != nil && p.CategoryID != *filters.CategoryID {
			continue
		}
		if filters.Active != nil && p.Active != *filters.Active {
			continue
		}
		p.Category = d.categories[p.CategoryID]
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))

	start := filters.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filters.Limit > 0 && start+filters.Limit < end {
		end = start + filters.Limit
	}

	return matched[start:end], total, nil
}

func (d *memoryData) ListProductsByCategory(_ context.Context, categoryID uint) ([]Product, error) {
	products := []Product{}
	for _, p := range d.products {
		if p.CategoryID == categoryID {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (d *memoryData) CreateProduct(ctx context.Context, product *Product) error {
	if _, ok := d.categories[product.CategoryID]; !ok {
		return ErrCategoryNotFound
	}
	product.ID = d.nextProduct
	d.nextProduct++
	return d.SaveProduct(ctx, product)
}

func (d *memoryData) SaveProduct(_ context.Context, product *Product) error {
	stored := *product
	stored.Category = Category{}
	d.products[product.ID] = stored
	return nil
}
