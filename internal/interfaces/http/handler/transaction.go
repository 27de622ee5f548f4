package handler

import (
	"context"

	ledgerapp "github.com/erp/installments/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// TransactionService is what TransactionHandler needs from the ledger service
type TransactionService interface {
	Create(ctx context.Context, req ledgerapp.CreateTransactionRequest) (*ledgerapp.TransactionResponse, error)
	Update(ctx context.Context, id int64, req ledgerapp.TransactionRequest) (*ledgerapp.TransactionResponse, error)
	Delete(ctx context.Context, id int64) error
}

// TransactionHandler handles agent financial transaction endpoints
type TransactionHandler struct {
	BaseHandler
	transactions TransactionService
}

// NewTransactionHandler creates a TransactionHandler
func NewTransactionHandler(base BaseHandler, transactions TransactionService) *TransactionHandler {
	return &TransactionHandler{BaseHandler: base, transactions: transactions}
}

// Create godoc
// @ID           createFinancialTransaction
// @Summary      Append a transaction to an agent's ledger
// @Tags         financial-transactions
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.CreateTransactionRequest true "Transaction"
// @Success      201 {object} APIResponse[ledgerapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial-transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	var req ledgerapp.CreateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.transactions.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp.Localize(h.Language(c))
	h.Created(c, resp)
}

// Update godoc
// @ID           updateFinancialTransaction
// @Summary      Update a transaction
// @Description  Running sums of every later transaction of the agent are recomputed
// @Tags         financial-transactions
// @Accept       json
// @Produce      json
// @Param        id      path int                          true "Transaction ID"
// @Param        request body ledgerapp.TransactionRequest true "Transaction"
// @Success      200 {object} APIResponse[ledgerapp.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial-transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ledgerapp.TransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.transactions.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	resp.Localize(h.Language(c))
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteFinancialTransaction
// @Summary      Delete a transaction
// @Description  Running sums of every later transaction of the agent are recomputed
// @Tags         financial-transactions
// @Param        id path int true "Transaction ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial-transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.transactions.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
