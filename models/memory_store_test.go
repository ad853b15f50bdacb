package models

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func seedStore(t *testing.T) *MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := NewMemoryStore()

	tools := &Category{Name: "Tools", Active: true}
	garden := &Category{Name: "Garden", Active: false}
	require.NoError(t, store.CreateCategory(ctx, tools))
	require.NoError(t, store.CreateCategory(ctx, garden))

	for _, p := range []*Product{
		{Name: "Hammer", Price: decimal.NewFromFloat(10), Quantity: 5, CategoryID: tools.ID, Active: true},
		{Name: "Saw", Price: decimal.NewFromFloat(25.5), Quantity: 0, CategoryID: tools.ID, Active: true},
		{Name: "Rake", Price: decimal.NewFromFloat(12), Quantity: 8, CategoryID: garden.ID, Active: false},
	} {
		require.NoError(t, store.CreateProduct(ctx, p))
	}
	return store
}

func ptr[T any](v T) *T {
	return &v
}

// --- Tests ---

func TestMemoryStoreCategories(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	all, err := store.ListCategories(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Tools", all[0].Name, "categories keep insertion order")

	active, err := store.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	found, err := store.FindCategoryByName(ctx, "Garden")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, uint(2), found.ID)

	missing, err := store.FindCategoryByName(ctx, "garden")
	assert.NoError(t, err)
	assert.Nil(t, missing, "name lookup is exact-match")

	_, err = store.GetCategory(ctx, 99)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	err = store.CreateCategory(ctx, &Category{Name: "Tools"})
	assert.ErrorIs(t, err, ErrDuplicateCategoryName)
}

func TestMemoryStoreListProducts(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	testCases := []struct {
		name          string
		filters       ProductFilters
		expectedTotal int64
		expectedNames []string
	}{
		{
			name:          "No filters",
			filters:       ProductFilters{},
			expectedTotal: 3,
			expectedNames: []string{"Hammer", "Saw", "Rake"},
		},
		{
			name:          "Stock minimum",
			filters:       ProductFilters{StockMin: ptr(1)},
			expectedTotal: 2,
			expectedNames: []string{"Hammer", "Rake"},
		},
		{
			name:          "Price maximum is inclusive",
			filters:       ProductFilters{PriceMax: ptr(decimal.NewFromInt(12))},
			expectedTotal: 2,
			expectedNames: []string{"Hammer", "Rake"},
		},
		{
			name:          "Category and active combined",
			filters:       ProductFilters{CategoryID: ptr(uint(1)), Active: ptr(true)},
			expectedTotal: 2,
			expectedNames: []string{"Hammer", "Saw"},
		},
		{
			name:          "Inactive only",
			filters:       ProductFilters{Active: ptr(false)},
			expectedTotal: 1,
			expectedNames: []string{"Rake"},
		},
		{
			name:          "Pagination",
			filters:       ProductFilters{Offset: 1, Limit: 1},
			expectedTotal: 3,
			expectedNames: []string{"Saw"},
		},
		{
			name:          "Offset past the end",
			filters:       ProductFilters{Offset: 10, Limit: 5},
			expectedTotal: 3,
			expectedNames: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			products, total, err := store.ListProducts(ctx, tc.filters)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedTotal, total)

			names := make([]string, len(products))
			for i, p := range products {
				names[i] = p.Name
			}
			assert.Equal(t, tc.expectedNames, names)
		})
	}
}

func TestMemoryStoreTransactionRollback(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(repo Repository) error {
		p, err := repo.GetProductForUpdate(ctx, 1)
		require.NoError(t, err)
		p.Quantity = 0
		require.NoError(t, repo.SaveProduct(ctx, p))
		require.NoError(t, repo.CreateCategory(ctx, &Category{Name: "Paint", Active: true}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := store.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Quantity, "failed transaction must not leak writes")

	c, err := store.FindCategoryByName(ctx, "Paint")
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestMemoryStoreTransactionCommit(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	err := store.Transaction(ctx, func(repo Repository) error {
		p, err := repo.GetProductForUpdate(ctx, 2)
		if err != nil {
			return err
		}
		p.Quantity = 4
		return repo.SaveProduct(ctx, p)
	})
	require.NoError(t, err)

	p, err := store.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Quantity)
	assert.Equal(t, "Tools", p.Category.Name, "product reads carry their category")
}

func TestMemoryStoreCreateProductRequiresCategory(t *testing.T) {
	store := NewMemoryStore()
	err := store.CreateProduct(context.Background(), &Product{Name: "Orphan", CategoryID: 7})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestTranslateError(t *testing.T) {
	unique := &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
	assert.ErrorIs(t, translateError(unique), ErrDuplicateCategoryName)

	other := &pq.Error{Code: "23503"}
	assert.Equal(t, error(other), translateError(other))

	assert.NoError(t, translateError(nil))
}
