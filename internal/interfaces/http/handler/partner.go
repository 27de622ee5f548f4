package handler

import (
	"context"

	ledgerapp "github.com/erp/installments/internal/application/ledger"
	partnerapp "github.com/erp/installments/internal/application/partner"
	"github.com/erp/installments/internal/domain/shared"
	"github.com/erp/installments/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CustomerService is what CustomerHandler needs from the partner service
type CustomerService interface {
	Create(ctx context.Context, req partnerapp.CreateCustomerRequest) (*partnerapp.CustomerResponse, error)
	GetByID(ctx context.Context, id int64) (*partnerapp.CustomerResponse, error)
}

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	BaseHandler
	customers CustomerService
}

// NewCustomerHandler creates a CustomerHandler
func NewCustomerHandler(base BaseHandler, customers CustomerService) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, customers: customers}
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateCustomerRequest true "Customer"
// @Success      201 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req partnerapp.CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.customers.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID godoc
// @ID           getCustomer
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id path int true "Customer ID"
// @Success      200 {object} APIResponse[partnerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AgentService is what AgentHandler needs from the partner service
type AgentService interface {
	Create(ctx context.Context, req partnerapp.CreateAgentRequest) (*partnerapp.AgentResponse, error)
}

// AgentLedger is the agent side of the transaction service
type AgentLedger interface {
	ListByAgent(ctx context.Context, agentID int64, filter shared.Filter) (shared.Paginated[ledgerapp.TransactionResponse], error)
	Balance(ctx context.Context, agentID int64) (*ledgerapp.AgentBalanceResponse, error)
	RecomputeAgent(ctx context.Context, agentID int64) (*ledgerapp.RecomputeResponse, error)
}

// AgentHandler handles agent endpoints and the agent ledger views
type AgentHandler struct {
	BaseHandler
	agents AgentService
	ledger AgentLedger
}

// NewAgentHandler creates an AgentHandler
func NewAgentHandler(base BaseHandler, agents AgentService, ledger AgentLedger) *AgentHandler {
	return &AgentHandler{BaseHandler: base, agents: agents, ledger: ledger}
}

// Create godoc
// @ID           createAgent
// @Summary      Create an agent
// @Tags         agents
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.CreateAgentRequest true "Agent"
// @Success      201 {object} APIResponse[partnerapp.AgentResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agents [post]
func (h *AgentHandler) Create(c *gin.Context) {
	var req partnerapp.CreateAgentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.agents.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Ledger godoc
// @ID           listAgentLedger
// @Summary      List an agent's transactions with running sums
// @Tags         agents
// @Produce      json
// @Param        id        path  int    true  "Agent ID"
// @Param        page      query int    false "Page"
// @Param        page_size query int    false "Page size"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} APIResponse[[]ledgerapp.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agents/{id}/ledger [get]
func (h *AgentHandler) Ledger(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}
	page, err := h.ledger.ListByAgent(c.Request.Context(), id, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	tag := h.Language(c)
	for i := range page.Items {
		page.Items[i].Localize(tag)
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Balance godoc
// @ID           getAgentBalance
// @Summary      Current running balance of an agent
// @Tags         agents
// @Produce      json
// @Param        id path int true "Agent ID"
// @Success      200 {object} APIResponse[ledgerapp.AgentBalanceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agents/{id}/balance [get]
func (h *AgentHandler) Balance(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.ledger.Balance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Recompute godoc
// @ID           recomputeAgent
// @Summary      Recompute every running sum of an agent
// @Tags         agents
// @Produce      json
// @Param        id path int true "Agent ID"
// @Success      200 {object} APIResponse[ledgerapp.RecomputeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agents/{id}/recompute [post]
func (h *AgentHandler) Recompute(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.ledger.RecomputeAgent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
