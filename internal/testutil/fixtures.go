package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/haimle/botshop/internal/domain/order"
	"github.com/haimle/botshop/internal/domain/product"
)

// NewSingleCodeProduct builds an active SINGLE-mode product sharing one code.
func NewSingleCodeProduct(name string, priceCents int64, sharedCode string) *product.Product {
	now := time.Now()
	return &product.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " description",
		PriceCents:  priceCents,
		ChatbotLink: "https://t.me/" + name + "_bot",
		CodeMode:    product.CodeModeSingle,
		SingleCode:  &sharedCode,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewPooledProduct builds an active MULTIPLE-mode product. Codes are loaded
// separately via MockCodeRepository.AddCode.
func NewPooledProduct(name string, priceCents int64) *product.Product {
	now := time.Now()
	return &product.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " description",
		PriceCents:  priceCents,
		ChatbotLink: "https://t.me/" + name + "_bot",
		CodeMode:    product.CodeModeMultiple,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewPendingOrder builds a PENDING order for the given product.
func NewPendingOrder(userID string, p *product.Product) *order.Order {
	now := time.Now()
	return &order.Order{
		ID:             uuid.New(),
		UserID:         userID,
		ProductID:      p.ID,
		AmountCents:    p.PriceCents,
		Status:         order.StatusPending,
		ChatbotLink:    p.ChatbotLink,
		ActivationCode: order.PlaceholderCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func StrPtr(s string) *string {
	return &s
}

func UUIDPtr(id uuid.UUID) *uuid.UUID {
	return &id
}
