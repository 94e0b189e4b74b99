package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haimle/botshop/internal/domain/order"
	"github.com/haimle/botshop/internal/testutil"
)

func TestFromOrder_PendingHidesFulfillment(t *testing.T) {
	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	o := testutil.NewPendingOrder("user1", p)

	resp := FromOrder(o)

	assert.Equal(t, "PENDING", resp.Status)
	assert.Empty(t, resp.ChatbotLink)
	assert.Empty(t, resp.ActivationCode)
	assert.Equal(t, 29000.0, resp.Amount)
}

func TestFromOrder_PaidExposesFulfillment(t *testing.T) {
	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	o := testutil.NewPendingOrder("user1", p)
	o.Status = order.StatusPaid
	o.Fulfill("https://t.me/gptbot", "SHARED-CODE-001")

	resp := FromOrder(o)

	assert.Equal(t, "PAID", resp.Status)
	assert.Equal(t, "https://t.me/gptbot", resp.ChatbotLink)
	assert.Equal(t, "SHARED-CODE-001", resp.ActivationCode)
}

func TestFromOrder_FailedHidesFulfillment(t *testing.T) {
	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")
	o := testutil.NewPendingOrder("user1", p)
	o.Status = order.StatusFailed

	resp := FromOrder(o)
	assert.Empty(t, resp.ActivationCode)
}

func TestFromProduct_NeverExposesSharedCode(t *testing.T) {
	p := testutil.NewSingleCodeProduct("gptbot", 29000_00, "SHARED-CODE-001")

	resp := FromProduct(p)

	assert.Equal(t, "gptbot", resp.Name)
	assert.Equal(t, 29000.0, resp.Price)
	assert.Equal(t, "SINGLE", resp.CodeMode)
	// There is deliberately no code field on ProductResponse; this guards the
	// conversion against ever adding one.
	assert.NotContains(t, resp.Description, "SHARED-CODE-001")
}
