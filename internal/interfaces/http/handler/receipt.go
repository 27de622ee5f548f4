package handler

import (
	"context"

	ledgerapp "github.com/erp/installments/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// ReceiptService is what ReceiptHandler needs from the ledger service
type ReceiptService interface {
	Create(ctx context.Context, req ledgerapp.CreateReceiptRequest) (*ledgerapp.ReceiptResponse, error)
	Get(ctx context.Context, id int64) (*ledgerapp.ReceiptResponse, error)
	Balance(ctx context.Context, id int64) (*ledgerapp.ReceiptBalanceResponse, error)
	Pay(ctx context.Context, id int64, req ledgerapp.PaymentRequest) (*ledgerapp.LumpPaymentResponse, error)
}

// ReceiptHandler handles receipt endpoints
type ReceiptHandler struct {
	BaseHandler
	receipts ReceiptService
}

// NewReceiptHandler creates a ReceiptHandler
func NewReceiptHandler(base BaseHandler, receipts ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{BaseHandler: base, receipts: receipts}
}

// Create godoc
// @ID           createReceipt
// @Summary      Create a cash or installment receipt
// @Description  Installment lines open one plan each; product quantities are decremented asynchronously
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.CreateReceiptRequest true "Receipt"
// @Success      201 {object} APIResponse[ledgerapp.ReceiptResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /receipts [post]
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateReceiptRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.receipts.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp.Localize(h.Language(c))
	h.Created(c, resp)
}

// Get godoc
// @ID           getReceipt
// @Summary      Get a receipt with its lines
// @Tags         receipts
// @Produce      json
// @Param        id path int true "Receipt ID"
// @Success      200 {object} APIResponse[ledgerapp.ReceiptResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /receipts/{id} [get]
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.receipts.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp.Localize(h.Language(c))
	h.Success(c, resp)
}

// Balance godoc
// @ID           getReceiptBalance
// @Summary      Per-line totals, paid, remaining and status of a receipt
// @Tags         receipts
// @Produce      json
// @Param        id path int true "Receipt ID"
// @Success      200 {object} APIResponse[ledgerapp.ReceiptBalanceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /receipts/{id}/balance [get]
func (h *ReceiptHandler) Balance(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.receipts.Balance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp.Localize(h.Language(c))
	h.Success(c, resp)
}

// Pay godoc
// @ID           payReceipt
// @Summary      Pay a lump sum against a receipt
// @Description  The amount is split over the receipt's unpaid plans
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        id      path int                      true "Receipt ID"
// @Param        request body ledgerapp.PaymentRequest true "Payment"
// @Success      200 {object} APIResponse[ledgerapp.LumpPaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /receipts/{id}/payments [post]
func (h *ReceiptHandler) Pay(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.PaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.receipts.Pay(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
