package api

import (
	"github.com/storefront/inventory-api/models"
)

type CategoryResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Active      bool    `json:"active"`
}

type CategoryDetailResponse struct {
	CategoryResponse
	Products []ProductResponse `json:"products"`
}

type ProductResponse struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Price       float64           `json:"price"`
	Quantity    int               `json:"quantity"`
	CategoryID  uint              `json:"category_id"`
	Active      bool              `json:"active"`
	Category    *CategoryResponse `json:"category,omitempty"`
}

func NewCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
	}
}

// NewProductResponse embeds the category only when it was loaded with the product.
func NewProductResponse(p models.Product) ProductResponse {
	resp := ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Quantity:    p.Quantity,
		CategoryID:  p.CategoryID,
		Active:      p.Active,
	}
	if p.Category.ID != 0 {
		category := NewCategoryResponse(p.Category)
		resp.Category = &category
	}
	return resp
}

func NewProductResponses(products []models.Product) []ProductResponse {
	resp := make([]ProductResponse, len(products))
	for i, p := range products {
		resp[i] = NewProductResponse(p)
	}
	return resp
}
