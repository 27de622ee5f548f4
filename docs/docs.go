// Package docs registers the OpenAPI description served under /swagger.
// Regenerate the full schema set with:
//
//	swag init -g cmd/server/main.go -o docs --v3.1
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/customers": {"post": {"tags": ["customers"], "summary": "Create a customer", "operationId": "createCustomer"}},
        "/customers/{id}": {"get": {"tags": ["customers"], "summary": "Get a customer", "operationId": "getCustomer"}},
        "/agents": {"post": {"tags": ["agents"], "summary": "Create an agent", "operationId": "createAgent"}},
        "/agents/{id}/ledger": {"get": {"tags": ["agents"], "summary": "List an agent's ledger", "operationId": "listAgentLedger"}},
        "/agents/{id}/balance": {"get": {"tags": ["agents"], "summary": "Get an agent's balance", "operationId": "getAgentBalance"}},
        "/agents/{id}/recompute": {"post": {"tags": ["agents"], "summary": "Recompute an agent's running sums", "operationId": "recomputeAgent"}},
        "/products": {"post": {"tags": ["products"], "summary": "Create a product", "operationId": "createProduct"}},
        "/products/{id}": {"get": {"tags": ["products"], "summary": "Get a product", "operationId": "getProduct"}},
        "/products/{id}/price": {"put": {"tags": ["products"], "summary": "Change product prices", "operationId": "changeProductPrice"}},
        "/products/{id}/price-snapshots": {"get": {"tags": ["products"], "summary": "List price snapshots", "operationId": "listPriceSnapshots"}},
        "/products/{id}/price-snapshots/{version}/revert": {"post": {"tags": ["products"], "summary": "Revert prices to a snapshot", "operationId": "revertProductPrice"}},
        "/receipts": {"post": {"tags": ["receipts"], "summary": "Create a receipt", "operationId": "createReceipt"}},
        "/receipts/{id}": {"get": {"tags": ["receipts"], "summary": "Get a receipt", "operationId": "getReceipt"}},
        "/receipts/{id}/balance": {"get": {"tags": ["receipts"], "summary": "Get a receipt balance", "operationId": "getReceiptBalance"}},
        "/receipts/{id}/payments": {"post": {"tags": ["receipts"], "summary": "Allocate a lump payment", "operationId": "payReceipt"}},
        "/installments/{id}": {"get": {"tags": ["installments"], "summary": "Get an installment plan", "operationId": "getInstallment"}},
        "/installments/{id}/payments": {"post": {"tags": ["installments"], "summary": "Pay an installment", "operationId": "payInstallment"}},
        "/installment-payments/{id}": {
            "put": {"tags": ["installments"], "summary": "Edit an installment payment", "operationId": "editInstallmentPayment"},
            "delete": {"tags": ["installments"], "summary": "Delete an installment payment", "operationId": "deleteInstallmentPayment"}
        },
        "/debts": {"post": {"tags": ["debts"], "summary": "Create a debt", "operationId": "createDebt"}},
        "/debts/{id}": {"get": {"tags": ["debts"], "summary": "Get a debt", "operationId": "getDebt"}},
        "/debts/{id}/payments": {"post": {"tags": ["debts"], "summary": "Pay a debt", "operationId": "payDebt"}},
        "/debt-payments/{id}": {
            "put": {"tags": ["debts"], "summary": "Edit a debt payment", "operationId": "editDebtPayment"},
            "delete": {"tags": ["debts"], "summary": "Delete a debt payment", "operationId": "deleteDebtPayment"}
        },
        "/financial-transactions": {"post": {"tags": ["financial-transactions"], "summary": "Record a financial transaction", "operationId": "createFinancialTransaction"}},
        "/financial-transactions/{id}": {
            "put": {"tags": ["financial-transactions"], "summary": "Update a financial transaction", "operationId": "updateFinancialTransaction"},
            "delete": {"tags": ["financial-transactions"], "summary": "Delete a financial transaction", "operationId": "deleteFinancialTransaction"}
        },
        "/reports/financial": {"get": {"tags": ["reports"], "summary": "Financial summary", "operationId": "getFinancialReport"}},
        "/reports/financial/export": {"post": {"tags": ["reports"], "summary": "Export the financial summary as PDF", "operationId": "exportFinancialReport"}},
        "/activity-logs": {"get": {"tags": ["activity"], "summary": "List activity log entries", "operationId": "listActivityLogs"}},
        "/health": {"get": {"tags": ["system"], "summary": "Health check", "operationId": "getHealth", "security": []}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Installments Ledger API",
	Description:      "Receipts, installment plans, debts and agent ledgers with balance-safe payments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
