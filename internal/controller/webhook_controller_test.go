package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haimle/botshop/internal/domain/order"
	"github.com/haimle/botshop/internal/infrastructure/observability"
	"github.com/haimle/botshop/internal/service"
	"github.com/haimle/botshop/internal/testutil"
	"github.com/haimle/botshop/pkg/sepay"
)

const testWebhookSecret = "test-webhook-secret"

type webhookFixture struct {
	controller *WebhookController
	orderRepo  *testutil.MockOrderRepository
	logRepo    *testutil.MockPaymentLogRepository
	codeRepo   *testutil.MockCodeRepository
	product    *testutil.MockProductRepository
}

func setupWebhookController() *webhookFixture {
	orderRepo := testutil.NewMockOrderRepository()
	productRepo := testutil.NewMockProductRepository()
	codeRepo := testutil.NewMockCodeRepository()
	logRepo := testutil.NewMockPaymentLogRepository()
	txManager := testutil.NewMockTransactionManager()

	metrics := observability.NewMetrics("test", prometheus.NewRegistry())
	fulfillment := service.NewFulfillmentService(orderRepo, productRepo, codeRepo, logRepo, txManager, metrics, zerolog.Nop())
	ctrl := NewWebhookController(fulfillment, testWebhookSecret, metrics, zerolog.Nop())

	return &webhookFixture{
		controller: ctrl,
		orderRepo:  orderRepo,
		logRepo:    logRepo,
		codeRepo:   codeRepo,
		product:    productRepo,
	}
}

func (f *webhookFixture) deliver(t *testing.T, body []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/sepay", bytes.NewReader(body))
	req.Header.Set("X-Sepay-Signature", signature)
	w := httptest.NewRecorder()
	f.controller.HandleSePay(w, req)
	return w
}

func signedPayload(t *testing.T, o *order.Order, transactionID, status string, amount float64) ([]byte, string) {
	t.Helper()
	payload := sepay.WebhookPayload{
		TransactionID: transactionID,
		Amount:        amount,
		Content:       sepay.PaymentReference(o.ID.String()),
		Status:        status,
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return body, sepay.Sign(body, testWebhookSecret)
}

func TestHandleSePay_Success(t *testing.T) {
	f := setupWebhookController()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	f.product.AddProduct(p)
	o := testutil.NewPendingOrder("user1", p)
	f.orderRepo.AddOrder(o)

	body, sig := signedPayload(t, o, "tx-web-1", "success", 29000)
	w := f.deliver(t, body, sig)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp WebhookResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)

	assert.Equal(t, order.StatusPaid, f.orderRepo.GetOrderByID(o.ID).Status)
}

func TestHandleSePay_TamperedBody_Rejected(t *testing.T) {
	f := setupWebhookController()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	f.product.AddProduct(p)
	o := testutil.NewPendingOrder("user1", p)
	f.orderRepo.AddOrder(o)

	body, sig := signedPayload(t, o, "tx-web-2", "success", 29000)

	// Flip the amount after signing.
	tampered := bytes.Replace(body, []byte("29000"), []byte("1"), 1)
	w := f.deliver(t, tampered, sig)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A rejected delivery must leave no trace.
	assert.Equal(t, 0, f.logRepo.EntryCount())
	assert.Equal(t, order.StatusPending, f.orderRepo.GetOrderByID(o.ID).Status)
}

func TestHandleSePay_MissingSignature_Rejected(t *testing.T) {
	f := setupWebhookController()

	w := f.deliver(t, []byte(`{"transaction_id":"tx"}`), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleSePay_InvalidJSON_Rejected(t *testing.T) {
	f := setupWebhookController()

	body := []byte("not json at all")
	w := f.deliver(t, body, sepay.Sign(body, testWebhookSecret))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSePay_MissingTransactionID_Rejected(t *testing.T) {
	f := setupWebhookController()

	body := []byte(`{"amount":29000,"content":"ORDER_x","status":"success"}`)
	w := f.deliver(t, body, sepay.Sign(body, testWebhookSecret))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSePay_MalformedContent_BadRequest(t *testing.T) {
	f := setupWebhookController()

	payload := sepay.WebhookPayload{
		TransactionID: "tx-web-3",
		Amount:        29000,
		Content:       "no reference here",
		Status:        "success",
	}
	body, _ := json.Marshal(payload)
	w := f.deliver(t, body, sepay.Sign(body, testWebhookSecret))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "invalid_content", resp.Code)
}

func TestHandleSePay_DuplicateDelivery_OK(t *testing.T) {
	f := setupWebhookController()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	f.product.AddProduct(p)
	o := testutil.NewPendingOrder("user1", p)
	f.orderRepo.AddOrder(o)

	body, sig := signedPayload(t, o, "tx-web-4", "success", 29000)

	w1 := f.deliver(t, body, sig)
	assert.Equal(t, http.StatusOK, w1.Code)

	w2 := f.deliver(t, body, sig)
	assert.Equal(t, http.StatusOK, w2.Code)

	var resp WebhookResponse
	require.NoError(t, json.NewDecoder(w2.Body).Decode(&resp))
	assert.Equal(t, "duplicate", resp.Message)
	assert.Equal(t, 1, f.logRepo.EntryCount())
}

func TestHandleSePay_AmountMismatch_BadRequest(t *testing.T) {
	f := setupWebhookController()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	f.product.AddProduct(p)
	o := testutil.NewPendingOrder("user1", p)
	f.orderRepo.AddOrder(o)

	body, sig := signedPayload(t, o, "tx-web-5", "success", 15000)
	w := f.deliver(t, body, sig)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "amount_mismatch", resp.Code)
	assert.Equal(t, order.StatusPending, f.orderRepo.GetOrderByID(o.ID).Status)
}
