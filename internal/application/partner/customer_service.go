package partner

import (
	"context"

	"github.com/erp/installments/internal/domain/partner"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.Name, req.Phone, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID int64) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// AgentService handles agent-related business operations
type AgentService struct {
	agentRepo partner.AgentRepository
}

// NewAgentService creates a new AgentService
func NewAgentService(agentRepo partner.AgentRepository) *AgentService {
	return &AgentService{agentRepo: agentRepo}
}

// Create creates a new agent
func (s *AgentService) Create(ctx context.Context, req CreateAgentRequest) (*AgentResponse, error) {
	agent, err := partner.NewAgent(req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.agentRepo.Create(ctx, agent); err != nil {
		return nil, err
	}

	response := ToAgentResponse(agent)
	return &response, nil
}

// GetByID retrieves an agent by ID
func (s *AgentService) GetByID(ctx context.Context, agentID int64) (*AgentResponse, error) {
	agent, err := s.agentRepo.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}

	response := ToAgentResponse(agent)
	return &response, nil
}
