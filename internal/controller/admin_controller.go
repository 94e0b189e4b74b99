package controller

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
	"github.com/haimle/botshop/internal/domain/order"
	"github.com/haimle/botshop/internal/service"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// AdminController handles the back-office surface: order oversight, refunds,
// and activation-code pool management.
type AdminController struct {
	orders    *service.OrderService
	inventory *service.InventoryService
	logger    zerolog.Logger
}

// NewAdminController creates a new AdminController.
func NewAdminController(orders *service.OrderService, inventory *service.InventoryService, logger zerolog.Logger) *AdminController {
	return &AdminController{orders: orders, inventory: inventory, logger: logger}
}

// ListOrders handles GET /api/v1/admin/orders.
// Supports ?status=, ?limit= and ?offset= query parameters.
func (c *AdminController) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := order.ListFilter{Limit: defaultPageSize}

	if raw := r.URL.Query().Get("status"); raw != "" {
		st := order.Status(raw)
		switch st {
		case order.StatusPending, order.StatusPaid, order.StatusFailed, order.StatusRefunded:
			filter.Status = &st
		default:
			writeError(w, domainErrors.NewValidationError("status", "unknown order status"))
			return
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPageSize {
			writeError(w, domainErrors.NewValidationError("limit", "must be between 1 and 200"))
			return
		}
		filter.Limit = n
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, domainErrors.NewValidationError("offset", "must be non-negative"))
			return
		}
		filter.Offset = n
	}

	orders, err := c.orders.ListAllOrders(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, FromOrder(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

// RefundOrder handles POST /api/v1/admin/orders/{id}/refund.
func (c *AdminController) RefundOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, domainErrors.NewValidationError("id", "must be a valid UUID"))
		return
	}

	o, err := c.orders.RefundOrder(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FromOrder(o))
}

// AddCodes handles POST /api/v1/admin/products/{id}/codes.
func (c *AdminController) AddCodes(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, domainErrors.NewValidationError("id", "must be a valid UUID"))
		return
	}

	var req AddCodesRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	n, err := c.inventory.AddCodes(r.Context(), id, req.Codes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AddCodesResponse{Added: n})
}

// Stock handles GET /api/v1/admin/products/{id}/codes.
func (c *AdminController) Stock(w http.ResponseWriter, r *http.Request) {
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
