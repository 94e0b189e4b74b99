package inventory

import (
	"time"

	"github.com/google/uuid"
)

// ActivationCode is a single-use token in a MULTIPLE-mode product's pool.
// It transitions unused -> used exactly once and never back; a code consumed
// by a failed fulfillment stays consumed (see the payment log for the audit
// trail).
type ActivationCode struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	Code          string
	IsUsed        bool
	UsedByOrderID *uuid.UUID
	CreatedAt     time.Time
}
