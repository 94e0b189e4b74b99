package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/haimle/botshop/internal/domain/errors"
)

// Status represents the order status in the state machine
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusPaid     Status = "PAID"
	StatusFailed   Status = "FAILED"
	StatusRefunded Status = "REFUNDED"
)

// PlaceholderCode is written to new orders until payment confirmation assigns
// a real activation code. Must never collide with a real code value.
const PlaceholderCode = "PENDING"

// Order records a purchase intent and its payment lifecycle. Status and the
// fulfillment fields are mutated exclusively by the fulfillment service in
// response to webhook events.
type Order struct {
	ID             uuid.UUID
	UserID         string
	ProductID      uuid.UUID
	AmountCents    int64
	Status         Status
	ChatbotLink    string
	ActivationCode string
	TransactionID  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// New creates a pending order. The amount always comes from the product's
// current price, never from client input.
func New(userID string, productID uuid.UUID, amountCents int64, chatbotLink string) (*Order, error) {
	if userID == "" {
		return nil, errors.NewValidationError("user_id", "cannot be empty")
	}
	if amountCents <= 0 {
		return nil, errors.NewValidationError("amount", "must be greater than 0")
	}

	now := time.Now()
	return &Order{
		ID:             uuid.New(),
		UserID:         userID,
		ProductID:      productID,
		AmountCents:    amountCents,
		Status:         StatusPending,
		ChatbotLink:    chatbotLink,
		ActivationCode: PlaceholderCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// CanTransitionTo checks if the order can transition to the given status
func (o *Order) CanTransitionTo(newStatus Status) bool {
	transitions := map[Status][]Status{
		StatusPending: {
			StatusPaid,
			StatusFailed,
		},
		StatusPaid: {
			StatusRefunded,
		},
		StatusFailed:   {}, // Terminal state
		StatusRefunded: {}, // Terminal state
	}

	allowed, exists := transitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo transitions the order to a new status
func (o *Order) TransitionTo(newStatus Status) error {
	if !o.CanTransitionTo(newStatus) {
		return errors.NewDomainError(
			"invalid_transition",
			"cannot transition from "+string(o.Status)+" to "+string(newStatus),
			errors.ErrInvalidStateTransition,
		)
	}
	o.Status = newStatus
	o.UpdatedAt = time.Now()
	return nil
}

// MarkPaid transitions the order to PAID and records the matched processor
// transaction id.
func (o *Order) MarkPaid(transactionID string) error {
	if err := o.TransitionTo(StatusPaid); err != nil {
		return err
	}
	o.TransactionID = &transactionID
	return nil
}

// MarkFailed transitions the order to FAILED.
func (o *Order) MarkFailed() error {
	return o.TransitionTo(StatusFailed)
}

// MarkRefunded transitions the order to REFUNDED.
func (o *Order) MarkRefunded() error {
	return o.TransitionTo(StatusRefunded)
}

// IsTerminal checks if the order is in a terminal state. No code assignment
// is ever attempted on a terminal order.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusPaid ||
		o.Status == StatusFailed ||
		o.Status == StatusRefunded
}

// Fulfill writes the assigned access link and activation code. Only called
// after the code row is durably claimed.
func (o *Order) Fulfill(link, code string) {
	o.ChatbotLink = link
	o.ActivationCode = code
	o.UpdatedAt = time.Now()
}
