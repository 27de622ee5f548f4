package handler

import "github.com/erp/installments/internal/interfaces/http/router"

// Handlers groups every API handler so routes are declared in one place
type Handlers struct {
	Customers    *CustomerHandler
	Agents       *AgentHandler
	Products     *ProductHandler
	Receipts     *ReceiptHandler
	Installments *InstallmentHandler
	Debts        *DebtHandler
	Transactions *TransactionHandler
	Reports      *ReportHandler
	Activity     *ActivityHandler
	Health       *HealthHandler
}

// DomainGroups returns the versioned route groups of the API
func (h *Handlers) DomainGroups() []*router.DomainGroup {
	customers := router.NewDomainGroup("customers", "/customers")
	customers.POST("", h.Customers.Create)
	customers.GET("/:id", h.Customers.GetByID)

	agents := router.NewDomainGroup("agents", "/agents")
	agents.POST("", h.Agents.Create)
	agents.GET("/:id/ledger", h.Agents.Ledger)
	agents.GET("/:id/balance", h.Agents.Balance)
	agents.POST("/:id/recompute", h.Agents.Recompute)

	products := router.NewDomainGroup("products", "/products")
	products.POST("", h.Products.Create)
	products.GET("/:id", h.Products.GetByID)
	products.PUT("/:id/price", h.Products.ChangePrice)
	products.GET("/:id/price-snapshots", h.Products.ListSnapshots)
	products.POST("/:id/price-snapshots/:version/revert", h.Products.RevertPrice)

	receipts := router.NewDomainGroup("receipts", "/receipts")
	receipts.POST("", h.Receipts.Create)
	receipts.GET("/:id", h.Receipts.Get)
	receipts.GET("/:id/balance", h.Receipts.Balance)
	receipts.POST("/:id/payments", h.Receipts.Pay)

	installments := router.NewDomainGroup("installments", "/installments")
	installments.GET("/:id", h.Installments.Get)
	installments.POST("/:id/payments", h.Installments.Pay)

	installmentPayments := router.NewDomainGroup("installment-payments", "/installment-payments")
	installmentPayments.PUT("/:id", h.Installments.EditPayment)
	installmentPayments.DELETE("/:id", h.Installments.DeletePayment)

	debts := router.NewDomainGroup("debts", "/debts")
	debts.POST("", h.Debts.Create)
	debts.GET("/:id", h.Debts.Get)
	debts.POST("/:id/payments", h.Debts.Pay)

	debtPayments := router.NewDomainGroup("debt-payments", "/debt-payments")
	debtPayments.PUT("/:id", h.Debts.EditPayment)
	debtPayments.DELETE("/:id", h.Debts.DeletePayment)

	transactions := router.NewDomainGroup("financial-transactions", "/financial-transactions")
	transactions.POST("", h.Transactions.Create)
	transactions.PUT("/:id", h.Transactions.Update)
	transactions.DELETE("/:id", h.Transactions.Delete)

	reports := router.NewDomainGroup("reports", "/reports")
	reports.GET("/financial", h.Reports.Financial)
	reports.POST("/financial/export", h.Reports.Export)

	activity := router.NewDomainGroup("activity", "/activity-logs")
	activity.GET("", h.Activity.List)

	health := router.NewDomainGroup("health", "/health")
	health.GET("", h.Health.Check)

	return []*router.DomainGroup{
		customers, agents, products, receipts, installments, installmentPayments,
		debts, debtPayments, transactions, reports, activity, health,
	}
}
