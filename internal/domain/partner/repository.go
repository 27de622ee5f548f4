package partner

import "context"

// CustomerRepository persists customers
type CustomerRepository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id int64) (*Customer, error)
	// FindByIDs returns the customers found, keyed by id
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*Customer, error)
}

// AgentRepository persists agents
type AgentRepository interface {
	Create(ctx context.Context, agent *Agent) error
	FindByID(ctx context.Context, id int64) (*Agent, error)
	// FindByIDForUpdate locks the agent row. Every change to the agent's
	// transaction ledger takes this lock first.
	FindByIDForUpdate(ctx context.Context, id int64) (*Agent, error)
}
