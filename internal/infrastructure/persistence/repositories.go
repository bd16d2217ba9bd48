package persistence

import (
	"github.com/retifica/backend/internal/application/approval"
	"gorm.io/gorm"
)

// NewApprovalRepositories builds the repository bundle used by the budget
// approval service.
func NewApprovalRepositories(db *gorm.DB) approval.Repositories {
	return approval.Repositories{
		Budgets:       NewGormBudgetRepository(db),
		Approvals:     NewGormBudgetApprovalRepository(db),
		Orders:        NewGormOrderRepository(db),
		History:       NewGormOrderStatusHistoryRepository(db),
		Stock:         NewGormPartStockRepository(db),
		StockAlerts:   NewGormStockAlertRepository(db),
		Reservations:  NewGormPartsReservationRepository(db),
		Movements:     NewGormInventoryMovementRepository(db),
		PurchaseNeeds: NewGormPurchaseNeedRepository(db),
		Alerts:        NewGormAlertRepository(db),
		Receivables:   NewGormAccountReceivableRepository(db),
	}
}
