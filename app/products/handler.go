package products

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/inventory-api/app/api"
	"github.com/storefront/inventory-api/app/inventory"
	"github.com/storefront/inventory-api/models"
)

const (
	defaultLimit = 100
	maxLimit     = 100
)

type Response struct {
	Total    int                   `json:"total"`
	Products []api.ProductResponse `json:"products"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, input inventory.CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context, filters models.ProductFilters) ([]models.Product, int64, error)
	UpdateProduct(ctx context.Context, id uint, patch inventory.ProductPatch) (*models.Product, error)
	DeactivateProduct(ctx context.Context, id uint) (*models.Product, error)
	Restock(ctx context.Context, id uint, amount int) (*models.Product, error)
	Purchase(ctx context.Context, id uint, amount int) (*models.Product, error)
}

type ProductHandler struct {
	svc    ProductService
	logger *zap.Logger
}

func NewProductHandler(svc ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		svc:    svc,
		logger: logger,
	}
}

type createProductRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	CategoryID  uint            `json:"category_id"`
}

type updateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
	CategoryID  *uint            `json:"category_id"`
	Active      *bool            `json:"active"`
}

type amountRequest struct {
	Amount *int `json:"amount"`
}

// parseFilters reads the listing query. Malformed values are ignored, the
// way pagination parameters always were.
func parseFilters(r *http.Request) models.ProductFilters {
	q := r.URL.Query()
	filters := models.ProductFilters{Limit: defaultLimit}

	if oStr := q.Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			filters.Offset = o
		}
	}

	if lStr := q.Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				filters.Limit = 1
			} else if l > maxLimit {
				filters.Limit = maxLimit
			} else {
				filters.Limit = l
			}
		}
	}

	if s := q.Get("stock_min"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			filters.StockMin = &v
		}
	}

	if s := q.Get("price_max"); s != "" {
		if v, err := decimal.NewFromString(s); err == nil {
			filters.PriceMax = &v
		}
	}

	if s := q.Get("category_id"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 0); err == nil {
			id := uint(v)
			filters.CategoryID = &id
		}
	}

	// Active products only unless told otherwise; "all" drops the filter.
	active := true
	filters.Active = &active
	switch s := q.Get("active"); s {
	case "", "true":
	case "all":
		filters.Active = nil
	default:
		if b, err := strconv.ParseBool(s); err == nil {
			filters.Active = &b
		}
	}

	return filters
}

func (h *ProductHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	filters := parseFilters(r)

	res, total, err := h.svc.ListProducts(r.Context(), filters)
	if err != nil {
		api.DomainError(w, h.logger, err, "Failed to fetch products")
		return
	}

	api.OKResponse(w, Response{
		Total:    int(total),
		Products: api.NewProductResponses(res),
	})
}

func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	product, err := h.svc.GetProduct(r.Context(), id)
	if err != nil {
		api.DomainError(w, h.logger, err, "Failed to retrieve product")
		return
	}

	api.OKResponse(w, api.NewProductResponse(*product))
}

func (h *ProductHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	product, err := h.svc.CreateProduct(r.Context(), inventory.CreateProductInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		CategoryID:  input.CategoryID,
	})
	if err != nil {
		api.DomainError(w, h.logger, err, "Failed to create product")
		return
	}

	api.CreatedResponse(w, api.NewProductResponse(*product))
}

func (h *ProductHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var input updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	product, err := h.svc.UpdateProduct(r.Context(), id, inventory.ProductPatch{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		CategoryID:  input.CategoryID,
		Active:      input.Active,
	})
	if err != nil {
		api.DomainError(w, h.logger, err, "Failed to update product")
		return
	}

	api.OKResponse(w, api.NewProductResponse(*product))
}

func (h *ProductHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	if _, err := h.svc.DeactivateProduct(r.Context(), id); err != nil {
		api.DomainError(w, h.logger, err, "Failed to deactivate product")
		return
	}

	api.OKResponse(w, api.MessageResponse{Message: "Product deactivated"})
}

func (h *ProductHandler) HandleRestock(w http.ResponseWriter, r *http.Request) {
	h.handleStock(w, r, h.svc.Restock, "Failed to restock product")
}

func (h *ProductHandler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	h.handleStock(w, r, h.svc.Purchase, "Failed to purchase product")
}

type stockFunc func(ctx context.Context, id uint, amount int) (*models.Product, error)

func (h *ProductHandler) handleStock(w http.ResponseWriter, r *http.Request, apply stockFunc, fallback string) {
	id, ok := api.PathID(r, "id")
	if !ok {
		api.ErrorJSON(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	amount, err := readAmount(r)
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := apply(r.Context(), id, amount)
	if err != nil {
		api.DomainError(w, h.logger, err, fallback)
		return
	}

	api.OKResponse(w, api.NewProductResponse(*product))
}

var errAmountRequired = errors.New("amount is required and must be an integer")

// readAmount takes the amount from the query string, falling back to a
// {"amount": n} body. Range checks are left to the service.
func readAmount(r *http.Request) (int, error) {
	if s := r.URL.Query().Get("amount"); s != "" {
		amount, err := strconv.Atoi(s)
		if err != nil {
			return 0, errAmountRequired
		}
		return amount, nil
	}

	var body amountRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return 0, errAmountRequired
	}
	if body.Amount == nil {
		return 0, errAmountRequired
	}
	return *body.Amount, nil
}
