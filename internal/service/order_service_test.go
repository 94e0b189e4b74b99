package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
	"github.com/haimle/botshop/internal/domain/order"
	"github.com/haimle/botshop/internal/domain/product"
	"github.com/haimle/botshop/internal/testutil"
)

func setupOrderService() (*OrderService, *testutil.MockOrderRepository, *testutil.MockProductRepository, *testutil.MockCodeRepository) {
	orderRepo := testutil.NewMockOrderRepository()
	productRepo := testutil.NewMockProductRepository()
	codeRepo := testutil.NewMockCodeRepository()

	bank := BankTransferConfig{Account: "0123456789", BankCode: "VPB"}
	svc := NewOrderService(orderRepo, productRepo, codeRepo, bank, zerolog.Nop())
	return svc, orderRepo, productRepo, codeRepo
}

func TestCreateOrder_SingleMode_Success(t *testing.T) {
	svc, orderRepo, productRepo, _ := setupOrderService()
	ctx := context.Background()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	productRepo.AddProduct(p)

	res, err := svc.CreateOrder(ctx, "user1", p.ID)
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, res.Order.Status)
	assert.Equal(t, int64(29000_00), res.Order.AmountCents)
	assert.Equal(t, order.PlaceholderCode, res.Order.ActivationCode)
	assert.Equal(t, product.CodeModeSingle, res.CodeMode)

	// Payment instructions carry the amount and the order reference.
	assert.Equal(t, int64(29000_00), res.Payment.AmountCents)
	assert.Equal(t, "ORDER_"+res.Order.ID.String(), res.Payment.Content)
	assert.Contains(t, res.Payment.QRImageURL, "qr.sepay.vn")
	assert.Contains(t, res.Payment.QRImageURL, "0123456789")

	stored := orderRepo.GetOrderByID(res.Order.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "user1", stored.UserID)
}

func TestCreateOrder_InactiveProduct_NotFound(t *testing.T) {
	svc, _, productRepo, _ := setupOrderService()
	ctx := context.Background()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	p.IsActive = false
	productRepo.AddProduct(p)

	_, err := svc.CreateOrder(ctx, "user1", p.ID)
	assert.ErrorIs(t, err, domainErrors.ErrProductNotFound)
}

func TestCreateOrder_UnknownProduct_NotFound(t *testing.T) {
	svc, _, _, _ := setupOrderService()
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, "user1", uuid.New())
	assert.ErrorIs(t, err, domainErrors.ErrProductNotFound)
}

func TestCreateOrder_MultipleMode_EmptyPool_OutOfStock(t *testing.T) {
	svc, _, productRepo, _ := setupOrderService()
	ctx := context.Background()

	p := testutil.NewPooledProduct("claudebot", 49000_00)
	productRepo.AddProduct(p)

	_, err := svc.CreateOrder(ctx, "user1", p.ID)
	assert.ErrorIs(t, err, domainErrors.ErrOutOfStock)
}

func TestCreateOrder_MultipleMode_WithStock(t *testing.T) {
	svc, _, productRepo, codeRepo := setupOrderService()
	ctx := context.Background()

	p := testutil.NewPooledProduct("claudebot", 49000_00)
	productRepo.AddProduct(p)
	codeRepo.AddCode(p.ID, "POOL-CODE-001")

	res, err := svc.CreateOrder(ctx, "user1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, product.CodeModeMultiple, res.CodeMode)

	// Creation must not reserve the code.
	n, _ := codeRepo.CountUnused(ctx, p.ID)
	assert.Equal(t, 1, n)
}

func TestCreateOrder_EmptyUserID_Rejected(t *testing.T) {
	svc, _, productRepo, _ := setupOrderService()
	ctx := context.Background()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	productRepo.AddProduct(p)

	_, err := svc.CreateOrder(ctx, "", p.ID)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "user_id"))
}

func TestGetOrder_OwnOrder(t *testing.T) {
	svc, orderRepo, _, _ := setupOrderService()
	ctx := context.Background()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	o := testutil.NewPendingOrder("user1", p)
	orderRepo.AddOrder(o)

	got, err := svc.GetOrder(ctx, "user1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestGetOrder_OtherUsersOrder_NotFound(t *testing.T) {
	svc, orderRepo, _, _ := setupOrderService()
	ctx := context.Background()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	o := testutil.NewPendingOrder("user1", p)
	orderRepo.AddOrder(o)

	_, err := svc.GetOrder(ctx, "user2", o.ID)
	assert.ErrorIs(t, err, domainErrors.ErrOrderNotFound)
}

func TestRefundOrder_PaidOrder(t *testing.T) {
	svc, orderRepo, _, _ := setupOrderService()
	ctx := context.Background()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	o := testutil.NewPendingOrder("user1", p)
	o.Status = order.StatusPaid
	orderRepo.AddOrder(o)

	got, err := svc.RefundOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusRefunded, got.Status)
	assert.Equal(t, order.StatusRefunded, orderRepo.GetOrderByID(o.ID).Status)
}

func TestRefundOrder_PendingOrder_Rejected(t *testing.T) {
	svc, orderRepo, _, _ := setupOrderService()
	ctx := context.Background()

	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	o := testutil.NewPendingOrder("user1", p)
	orderRepo.AddOrder(o)

	_, err := svc.RefundOrder(ctx, o.ID)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidStateTransition)
	assert.Equal(t, order.StatusPending, orderRepo.GetOrderByID(o.ID).Status)
}
