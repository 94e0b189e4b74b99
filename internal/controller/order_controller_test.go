package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haimle/botshop/internal/domain/order"
	"github.com/haimle/botshop/internal/infrastructure/observability"
	"github.com/haimle/botshop/internal/middleware"
	"github.com/haimle/botshop/internal/service"
	"github.com/haimle/botshop/internal/testutil"
)

type orderFixture struct {
	router      *chi.Mux
	orderRepo   *testutil.MockOrderRepository
	productRepo *testutil.MockProductRepository
	codeRepo    *testutil.MockCodeRepository
}

func setupOrderController() *orderFixture {
	orderRepo := testutil.NewMockOrderRepository()
	productRepo := testutil.NewMockProductRepository()
	codeRepo := testutil.NewMockCodeRepository()

	svc := service.NewOrderService(orderRepo, productRepo, codeRepo, service.BankTransferConfig{
		Account:  "0123456789",
		BankCode: "VPB",
	}, zerolog.Nop())
	ctrl := NewOrderController(svc, observability.NewMetrics("test", prometheus.NewRegistry()))

	r := chi.NewRouter()
	r.Post("/api/v1/orders", ctrl.Create)
	r.Get("/api/v1/orders", ctrl.List)
	r.Get("/api/v1/orders/{id}", ctrl.Get)

	return &orderFixture{router: r, orderRepo: orderRepo, productRepo: productRepo, codeRepo: codeRepo}
}

// asUser injects the authenticated buyer identity the way RequireAuth does.
func asUser(req *http.Request, userID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func TestCreateOrder_HTTP_Success(t *testing.T) {
	f := setupOrderController()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	f.productRepo.AddProduct(p)

	body, _ := json.Marshal(CreateOrderRequest{ProductID: p.ID.String()})
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body)), "user1")
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp CreateOrderResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "PENDING", resp.Order.Status)
	assert.Equal(t, 29000.0, resp.Order.Amount)
	assert.Empty(t, resp.Order.ActivationCode)
	require.NotNil(t, resp.Payment)
	assert.Equal(t, "ORDER_"+resp.Order.ID, resp.Payment.Content)
	assert.Contains(t, resp.Payment.QRImageURL, "qr.sepay.vn")
}

func TestCreateOrder_HTTP_UnknownProduct(t *testing.T) {
	f := setupOrderController()

	body, _ := json.Marshal(CreateOrderRequest{ProductID: uuid.New().String()})
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body)), "user1")
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrder_HTTP_InvalidProductID(t *testing.T) {
	f := setupOrderController()

	body := []byte(`{"product_id":"not-a-uuid"}`)
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body)), "user1")
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrder_HTTP_MissingIdentity(t *testing.T) {
	f := setupOrderController()

	body := []byte(`{"product_id":"` + uuid.New().String() + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", bytes.NewReader(body))
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetOrder_HTTP_OwnOrder(t *testing.T) {
	f := setupOrderController()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	o := testutil.NewPendingOrder("user1", p)
	f.orderRepo.AddOrder(o)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+o.ID.String(), nil), "user1")
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp OrderResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, o.ID.String(), resp.ID)
}

func TestGetOrder_HTTP_OtherUsersOrder(t *testing.T) {
	f := setupOrderController()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	o := testutil.NewPendingOrder("user1", p)
	f.orderRepo.AddOrder(o)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+o.ID.String(), nil), "user2")
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrders_HTTP_OnlyOwn(t *testing.T) {
	f := setupOrderController()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	f.orderRepo.AddOrder(testutil.NewPendingOrder("user1", p))
	f.orderRepo.AddOrder(testutil.NewPendingOrder("user1", p))
	f.orderRepo.AddOrder(testutil.NewPendingOrder("user2", p))

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), "user1")
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []*OrderResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Len(t, resp, 2)
}

func TestGetOrder_HTTP_PaidOrderCarriesCode(t *testing.T) {
	f := setupOrderController()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	o := testutil.NewPendingOrder("user1", p)
	o.Status = order.StatusPaid
	o.Fulfill(p.ChatbotLink, "SHARED-CODE-001")
	f.orderRepo.AddOrder(o)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+o.ID.String(), nil), "user1")
	w := httptest.NewRecorder()

	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp OrderResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "SHARED-CODE-001", resp.ActivationCode)
	assert.Equal(t, p.ChatbotLink, resp.ChatbotLink)
}
