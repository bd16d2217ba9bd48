// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free from
// ORM concerns; each model decodes into its domain type exactly once via ToDomain.
//
// Structure:
// - base.go: BaseModel and TenantModel
// - budget.go: budgets, budget_approvals
// - order.go: orders, order_status_history
// - inventory.go: parts_inventory, stock_alerts, parts_reservations, inventory_movements
// - purchasing.go: purchase_needs
// - notification.go: alerts
// - finance.go: accounts_receivable
package models
