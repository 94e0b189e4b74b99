package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
	"github.com/haimle/botshop/internal/infrastructure/observability"
	"github.com/haimle/botshop/internal/middleware"
	"github.com/haimle/botshop/internal/service"
)

// OrderController handles buyer-facing order endpoints.
type OrderController struct {
	orders  *service.OrderService
	metrics *observability.Metrics
}

// NewOrderController creates a new OrderController.
func NewOrderController(orders *service.OrderService, metrics *observability.Metrics) *OrderController {
	return &OrderController{orders: orders, metrics: metrics}
}

// Create handles POST /api/v1/orders.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	var req CreateOrderRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		writeError(w, domainErrors.NewValidationError("product_id", "must be a valid UUID"))
		return
	}

	res, err := c.orders.CreateOrder(r.Context(), userID, productID)
	if err != nil {
		writeError(w, err)
		return
	}

	c.metrics.OrdersCreatedTotal.WithLabelValues(string(res.CodeMode)).Inc()
	writeJSON(w, http.StatusCreated, FromCreateOrderResult(res))
}

// Get handles GET /api/v1/orders/{id}.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, domainErrors.NewValidationError("id", "must be a valid UUID"))
		return
	}

	o, err := c.orders.GetOrder(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FromOrder(o))
}

// List handles GET /api/v1/orders.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	orders, err := c.orders.ListOrders(r.Context(), userID)
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
