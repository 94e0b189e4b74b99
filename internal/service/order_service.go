package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
	"github.com/haimle/botshop/internal/domain/inventory"
	"github.com/haimle/botshop/internal/domain/order"
	"github.com/haimle/botshop/internal/domain/product"
	"github.com/haimle/botshop/pkg/sepay"
)

// BankTransferConfig identifies the receiving bank account shown to buyers in
// payment instructions.
type BankTransferConfig struct {
	Account  string
	BankCode string
}

// OrderService handles order creation and buyer-facing order queries.
type OrderService struct {
	orders   order.Repository
	products product.Repository
	codes    inventory.Repository
	bank     BankTransferConfig
	logger   zerolog.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orders order.Repository,
	products product.Repository,
	codes inventory.Repository,
	bank BankTransferConfig,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		codes:    codes,
		bank:     bank,
		logger:   logger,
	}
}

// PaymentInstructions tell the buyer how to complete the bank transfer.
// Content is the transfer memo the webhook later uses to find the order.
type PaymentInstructions struct {
	AmountCents int64
	Content     string
	QRImageURL  string
}

// CreateOrderResult holds a created order and its payment instructions.
type CreateOrderResult struct {
	Order    *order.Order
	CodeMode product.CodeMode
	Payment  PaymentInstructions
}

// CreateOrder creates a PENDING order for the buyer. The amount is taken from
// the product's current price. Stock is checked optimistically; no code is
// reserved until payment confirmation, because unpaid orders would otherwise
// starve genuine buyers.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, productID uuid.UUID) (*CreateOrderResult, error) {
	p, err := s.products.GetActive(ctx, productID)
	if err != nil {
		return nil, err
	}

	if p.CodeMode == product.CodeModeMultiple {
		n, err := s.codes.CountUnused(ctx, productID)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, domainErrors.ErrOutOfStock
		}
	}

	o, err := order.New(userID, p.ID, p.PriceCents, p.ChatbotLink)
	if err != nil {
		return nil, err
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}

	content := sepay.PaymentReference(o.ID.String())
	s.logger.Info().
		Str("order_id", o.ID.String()).
		Str("user_id", userID).
		Str("product_id", productID.String()).
		Int64("amount_cents", o.AmountCents).
		Msg("order created")

	return &CreateOrderResult{
		Order:    o,
		CodeMode: p.CodeMode,
		Payment: PaymentInstructions{
			AmountCents: o.AmountCents,
			Content:     content,
			QRImageURL:  sepay.QRImageURL(s.bank.Account, s.bank.BankCode, centsToUnits(o.AmountCents), content),
		},
	}, nil
}

// GetOrder retrieves one of the buyer's own orders.
func (s *OrderService) GetOrder(ctx context.Context, userID string, id uuid.UUID) (*order.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		// Do not reveal other buyers' orders.
		return nil, domainErrors.ErrOrderNotFound
	}
	return o, nil
}

// ListOrders lists the buyer's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*order.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// ListAllOrders lists orders across buyers (admin surface).
func (s *OrderService) ListAllOrders(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	return s.orders.List(ctx, filter)
}

// RefundOrder marks a paid order as refunded (admin surface). The money
// movement itself happens at the bank, outside this system.
func (s *OrderService) RefundOrder(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.MarkRefunded(); err != nil {
		return nil, err
	}
	if err := s.orders.Transition(ctx, id, order.StatusPaid, order.StatusRefunded, nil); err != nil {
		return nil, err
	}
	s.logger.Info().Str("order_id", id.String()).Msg("order refunded")
	return o, nil
}
