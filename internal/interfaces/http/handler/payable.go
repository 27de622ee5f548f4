package handler

import (
	"context"

	ledgerapp "github.com/erp/installments/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// PaymentService is the payment surface shared by installment plans and debts
type PaymentService interface {
	Pay(ctx context.Context, id int64, req ledgerapp.PaymentRequest) (*ledgerapp.PaymentResult, error)
	EditPayment(ctx context.Context, paymentID int64, req ledgerapp.EditPaymentRequest) (*ledgerapp.PaymentResult, error)
	DeletePayment(ctx context.Context, paymentID int64) (*ledgerapp.PaymentResult, error)
}

// paymentEndpoints serves the pay, edit and undo operations of one kind of
// payable unit
type paymentEndpoints struct {
	BaseHandler
	payments PaymentService
}

func (h *paymentEndpoints) pay(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.PaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.payments.Pay(c.Request.Context(), id, req)
	h.respond(c, result, err)
}

func (h *paymentEndpoints) edit(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.EditPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.payments.EditPayment(c.Request.Context(), id, req)
	h.respond(c, result, err)
}

func (h *paymentEndpoints) delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.payments.DeletePayment(c.Request.Context(), id)
	h.respond(c, result, err)
}

func (h *paymentEndpoints) respond(c *gin.Context, result *ledgerapp.PaymentResult, err error) {
	if err != nil {
		h.HandleError(c, err)
		return
	}
	result.Localize(h.Language(c))
	h.Success(c, result)
}

// InstallmentService is what InstallmentHandler needs from the ledger service
type InstallmentService interface {
	PaymentService
	Get(ctx context.Context, id int64) (*ledgerapp.InstallmentResponse, error)
}

// InstallmentHandler handles installment plan and installment payment
// endpoints
type InstallmentHandler struct {
	paymentEndpoints
	installments InstallmentService
}

// NewInstallmentHandler creates an InstallmentHandler
func NewInstallmentHandler(base BaseHandler, installments InstallmentService) *InstallmentHandler {
	return &InstallmentHandler{
		paymentEndpoints: paymentEndpoints{BaseHandler: base, payments: installments},
		installments:     installments,
	}
}

// Get godoc
// @ID           getInstallment
// @Summary      Get an installment plan
// @Description  Returns the plan with its remaining amount, status and last payment date
// @Tags         installments
// @Produce      json
// @Param        id path int true "Installment ID"
// @Success      200 {object} APIResponse[ledgerapp.InstallmentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments/{id} [get]
func (h *InstallmentHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.installments.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp.Localize(h.Language(c))
	h.Success(c, resp)
}

// Pay godoc
// @ID           payInstallment
// @Summary      Pay one installment plan
// @Tags         installments
// @Accept       json
// @Produce      json
// @Param        id      path int                      true "Installment ID"
// @Param        request body ledgerapp.PaymentRequest true "Payment"
// @Success      200 {object} APIResponse[ledgerapp.PaymentResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installments/{id}/payments [post]
func (h *InstallmentHandler) Pay(c *gin.Context) { h.pay(c) }

// EditPayment godoc
// @ID           editInstallmentPayment
// @Summary      Edit an installment payment
// @Tags         installments
// @Accept       json
// @Produce      json
// @Param        id      path int                          true "Payment ID"
// @Param        request body ledgerapp.EditPaymentRequest true "Payment"
// @Success      200 {object} APIResponse[ledgerapp.PaymentResult]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installment-payments/{id} [put]
func (h *InstallmentHandler) EditPayment(c *gin.Context) { h.edit(c) }

// DeletePayment godoc
// @ID           deleteInstallmentPayment
// @Summary      Undo an installment payment
// @Tags         installments
// @Produce      json
// @Param        id path int true "Payment ID"
// @Success      200 {object} APIResponse[ledgerapp.PaymentResult]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /installment-payments/{id} [delete]
func (h *InstallmentHandler) DeletePayment(c *gin.Context) { h.delete(c) }

// DebtService is what DebtHandler needs from the ledger service
type DebtService interface {
	PaymentService
	Create(ctx context.Context, req ledgerapp.CreateDebtRequest) (*ledgerapp.DebtResponse, error)
	Get(ctx context.Context, id int64) (*ledgerapp.DebtResponse, error)
}

// DebtHandler handles debt and debt payment endpoints
type DebtHandler struct {
	paymentEndpoints
	debts DebtService
}

// NewDebtHandler creates a DebtHandler
func NewDebtHandler(base BaseHandler, debts DebtService) *DebtHandler {
	return &DebtHandler{
		paymentEndpoints: paymentEndpoints{BaseHandler: base, payments: debts},
		debts:            debts,
	}
}

// Create godoc
// @ID           createDebt
// @Summary      Record a customer debt
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.CreateDebtRequest true "Debt"
// @Success      201 {object} APIResponse[ledgerapp.DebtResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /debts [post]
func (h *DebtHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateDebtRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.debts.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp.Localize(h.Language(c))
	h.Created(c, resp)
}

// Get godoc
// @ID           getDebt
// @Summary      Get a debt with its remaining amount
// @Tags         debts
// @Produce      json
// @Param        id path int true "Debt ID"
// @Success      200 {object} APIResponse[ledgerapp.DebtResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /debts/{id} [get]
func (h *DebtHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.debts.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp.Localize(h.Language(c))
	h.Success(c, resp)
}

// Pay godoc
// @ID           payDebt
// @Summary      Pay a debt
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        id      path int                      true "Debt ID"
// @Param        request body ledgerapp.PaymentRequest true "Payment"
// @Success      200 {object} APIResponse[ledgerapp.PaymentResult]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /debts/{id}/payments [post]
func (h *DebtHandler) Pay(c *gin.Context) { h.pay(c) }

// EditPayment godoc
// @ID           editDebtPayment
// @Summary      Edit a debt payment
// @Tags         debts
// @Accept       json
// @Produce      json
// @Param        id      path int                          true "Payment ID"
// @Param        request body ledgerapp.EditPaymentRequest true "Payment"
// @Success      200 {object} APIResponse[ledgerapp.PaymentResult]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /debt-payments/{id} [put]
func (h *DebtHandler) EditPayment(c *gin.Context) { h.edit(c) }

// DeletePayment godoc
// @ID           deleteDebtPayment
// @Summary      Undo a debt payment
// @Tags         debts
// @Produce      json
// @Param        id path int true "Payment ID"
// @Success      200 {object} APIResponse[ledgerapp.PaymentResult]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /debt-payments/{id} [delete]
func (h *DebtHandler) DeletePayment(c *gin.Context) { h.delete(c) }
