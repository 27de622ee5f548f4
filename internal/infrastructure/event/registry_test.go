package event

import (
	"testing"

	"github.com/erp/installments/tests/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry(t *testing.T) {
	r := NewHandlerRegistry()

	paid := testutil.NewMockEventHandler()
	all := testutil.NewMockEventHandler()
	r.Register(paid, "InstallmentPaid", "DebtPaid")
	r.Register(all)

	assert.Equal(t, 2, r.Len())
	assert.Len(t, r.Handlers("InstallmentPaid"), 2)
	assert.Len(t, r.Handlers("DebtPaid"), 2)
	assert.Len(t, r.Handlers("ReceiptCreated"), 1)

	r.Unregister(paid)
	assert.Equal(t, 1, r.Len())
	assert.Len(t, r.Handlers("InstallmentPaid"), 1)

	r.Unregister(all)
	assert.Empty(t, r.Handlers("InstallmentPaid"))
	assert.Zero(t, r.Len())
}

func TestHandlerRegistry_HandlersOrder(t *testing.T) {
	r := NewHandlerRegistry()

	all := testutil.NewMockEventHandler()
	typed := testutil.NewMockEventHandler()
	r.Register(all)
	r.Register(typed, "ReceiptCreated")

	hs := r.Handlers("ReceiptCreated")
	assert.Same(t, typed, hs[0])
	assert.Same(t, all, hs[1])
}
