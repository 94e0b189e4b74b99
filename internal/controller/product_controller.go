package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
	"github.com/haimle/botshop/internal/domain/product"
	"github.com/haimle/botshop/internal/service"
)

// ProductController serves the read-only storefront catalog. Catalog writes
// happen out of band; there is no product CRUD surface here.
type ProductController struct {
	products  product.Repository
	inventory *service.InventoryService
}

// NewProductController creates a new ProductController.
func NewProductController(products product.Repository, inventory *service.InventoryService) *ProductController {
	return &ProductController{products: products, inventory: inventory}
}

// List handles GET /api/v1/products.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.products.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, FromProduct(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/products/{id}.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, domainErrors.NewValidationError("id", "must be a valid UUID"))
		return
	}

	p, err := c.products.GetActive(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FromProduct(p))
}

// Stock handles GET /api/v1/products/{id}/stock.
func (c *ProductController) Stock(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, domainErrors.NewValidationError("id", "must be a valid UUID"))
		return
	}

	stock, err := c.inventory.CheckStock(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StockResponse{
		Available:   stock.Available,
		UnusedCodes: stock.UnusedCodes,
	})
}
