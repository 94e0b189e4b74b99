package controller

import (
	"time"

	"github.com/haimle/botshop/internal/domain/order"
	"github.com/haimle/botshop/internal/domain/product"
	"github.com/haimle/botshop/internal/service"
)

// --- Request DTOs ---
// DTOs handle HTTP/JSON concerns (float64 for money, string ids, validation
// tags). Controllers convert these before calling services.

// CreateOrderRequest holds the input for creating an order. The charge amount
// is deliberately absent: pricing is server-side only.
type CreateOrderRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// AddCodesRequest holds a batch of activation codes to load into a pool.
type AddCodesRequest struct {
	Codes []string `json:"codes" validate:"required,min=1,dive,min=1"`
}

// --- Response DTOs ---

// OrderResponse represents an order in API responses. The access link and
// activation code are only present once the order is PAID; buyers never see
// partial fulfillment state.
type OrderResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	Amount         float64   `json:"amount"`
	Status         string    `json:"status"`
	ChatbotLink    string    `json:"chatbot_link,omitempty"`
	ActivationCode string    `json:"activation_code,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PaymentInstructionsResponse tells the buyer how to pay.
type PaymentInstructionsResponse struct {
	Amount     float64 `json:"amount"`
	Content    string  `json:"content"`
	QRImageURL string  `json:"qr_image_url,omitempty"`
}

// CreateOrderResponse pairs the new order with its payment instructions.
type CreateOrderResponse struct {
	Order   *OrderResponse               `json:"order"`
	Payment *PaymentInstructionsResponse `json:"payment"`
}

// ProductResponse represents a storefront product. The shared code never
// appears here; codes are only handed out through fulfillment.
type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CodeMode    string  `json:"code_mode"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// StockResponse reports code availability for a product.
type StockResponse struct {
	Available   bool `json:"available"`
	UnusedCodes int  `json:"unused_codes"`
}

// AddCodesResponse reports how many codes were loaded.
type AddCodesResponse struct {
	Added int `json:"added"`
}

// WebhookResponse acknowledges a handled webhook delivery.
type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Conversion helpers ---

// FromOrder converts a domain order to an API response, withholding the
// fulfillment fields until the order is paid.
func FromOrder(o *order.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:        o.ID.String(),
		ProductID: o.ProductID.String(),
		Amount:    centsToFloat(o.AmountCents),
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if o.Status == order.StatusPaid {
		resp.ChatbotLink = o.ChatbotLink
		resp.ActivationCode = o.ActivationCode
	}
	return resp
}

// FromProduct converts a domain product to an API response.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       centsToFloat(p.PriceCents),
		CodeMode:    string(p.CodeMode),
		ImageURL:    p.ImageURL,
	}
}

// FromCreateOrderResult converts an order-creation result.
func FromCreateOrderResult(res *service.CreateOrderResult) *CreateOrderResponse {
	return &CreateOrderResponse{
		Order: FromOrder(res.Order),
		Payment: &PaymentInstructionsResponse{
			Amount:     centsToFloat(res.Payment.AmountCents),
			Content:    res.Payment.Content,
			QRImageURL: res.Payment.QRImageURL,
		},
	}
}

func centsToFloat(cents int64) float64 {
	return float64(cents) / 100
}
