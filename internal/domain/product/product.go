package product

import (
	"time"

	"github.com/google/uuid"
)

// CodeMode is the code-provisioning mode of a product.
type CodeMode string

const (
	// CodeModeSingle shares one fixed code among all buyers.
	CodeModeSingle CodeMode = "SINGLE"
	// CodeModeMultiple draws one code per order from a finite pool.
	CodeModeMultiple CodeMode = "MULTIPLE"
)

// Product is a hosted chatbot offering. Catalog writes happen outside this
// service; the fulfillment core only reads products.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	PriceCents  int64
	ChatbotLink string
	CodeMode    CodeMode
	SingleCode  *string
	ImageURL    *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SharedCode returns the fixed code of a SINGLE-mode product. ok is false
// when the product is misconfigured (empty or missing code), which is a
// data-integrity fault the caller must surface.
func (p *Product) SharedCode() (string, bool) {
	if p.CodeMode != CodeModeSingle || p.SingleCode == nil || *p.SingleCode == "" {
		return "", false
	}
	return *p.SingleCode, true
}
