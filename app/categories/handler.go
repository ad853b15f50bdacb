package categories

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/storefront/inventory-api/app/api"
	"github.com/storefront/inventory-api/app/inventory"
	"github.com/storefront/inventory-api/models"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, input inventory.CreateCategoryInput) (*models.Category, error)
	GetCategoryDetail(ctx context.Context, id uint) (*inventory.CategoryDetail, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id uint, patch inventory.CategoryPatch) (*models.Category, error)
	DeactivateCategory(ctx context.Context, id uint) (*models.Category, error)
	ListProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error)
}

type CategoryHandler struct {
	svc    CategoryService
	logger *zap.Logger
}

func NewCategoryHandler(svc CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		svc:    svc,
		logger: logger,
	}
}

type createCategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// HandleGetAll lists active categories unless active_only=false is passed.
func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if v := r.URL.Query().Get("active_only"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			activeOnly = b
		}
	}

	categories, err := h.svc.ListCategories(r.Context(), activeOnly)
	if err != nil {
		api.DomainError(w, h.logger, err, "failed to fetch categories")
		return
	}

	response := make([]api.CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = api.NewCategoryResponse(c)
	}
	api.OKResponse(w, response)
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	detail, err := h.svc.GetCategoryDetail(r.Context(), id)
	if err != nil {
		api.DomainError(w, h.logger, err, "Failed to retrieve category")
		return
	}

	api.OKResponse(w, api.CategoryDetailResponse{
		CategoryResponse: api.NewCategoryResponse(detail.Category),
		Products:         api.NewProductResponses(detail.Products),
	})
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	category, err := h.svc.CreateCategory(r.Context(), inventory.CreateCategoryInput{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		api.DomainError(w, h.logger, err, "Failed to create category")
		return
	}

	api.CreatedResponse(w, api.NewCategoryResponse(*category))
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	var input updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	category, err := h.svc.UpdateCategory(r.Context(), id, inventory.CategoryPatch{
		Name:        input.Name,
		Description: input.Description,
		Active:      input.Active,
	})
	if err != nil {
		api.DomainError(w, h.logger, err, "Failed to update category")
		return
	}

	api.OKResponse(w, api.NewCategoryResponse(*category))
}

// HandleDeactivate is the DELETE endpoint; categories are only ever soft-deleted.
func (h *CategoryHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	if _, err := h.svc.DeactivateCategory(r.Context(), id); err != nil {
		api.DomainError(w, h.logger, err, "Failed to deactivate category")
		return
	}

	api.OKResponse(w, api.MessageResponse{Message: "Category and its products deactivated"})
}

func (h *CategoryHandler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	products, err := h.svc.ListProductsByCategory(r.Context(), id)
	if err != nil {
		api.DomainError(w, h.logger, err, "Failed to retrieve products")
		return
	}

	api.OKResponse(w, api.NewProductResponses(products))
}
