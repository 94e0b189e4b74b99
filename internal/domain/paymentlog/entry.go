package paymentlog

import (
	"time"

	"github.com/google/uuid"
)

// Status tags a webhook delivery with its processing outcome.
type Status string

const (
	StatusSuccess              Status = "SUCCESS"
	StatusPaymentFailed        Status = "PAYMENT_FAILED"
	StatusAmountMismatch       Status = "AMOUNT_MISMATCH"
	StatusCodeAssignmentFailed Status = "CODE_ASSIGNMENT_FAILED"
)

// Entry is one row per webhook delivery: the raw payload plus the derived
// outcome. Entries are append-only and never mutated; the presence of an
// entry for a transaction id is the idempotency signal that the transaction's
// effects are final.
type Entry struct {
	ID            uuid.UUID
	OrderID       *uuid.UUID
	TransactionID string
	Payload       []byte
	Status        Status
	CreatedAt     time.Time
}

// NewEntry creates a payment log entry for a webhook delivery.
func NewEntry(orderID *uuid.UUID, transactionID string, payload []byte, status Status) *Entry {
	return &Entry{
		ID:            uuid.New(),
		OrderID:       orderID,
		TransactionID: transactionID,
		Payload:       payload,
		Status:        status,
		CreatedAt:     time.Now(),
	}
}
