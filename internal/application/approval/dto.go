package approval

import (
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/budget"
	"github.com/retifica/backend/internal/domain/finance"
	"github.com/retifica/backend/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Actor is the authenticated caller of an approval
type Actor struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Username string
}

// ApproveBudgetRequest is the approval input as received from the client
type ApproveBudgetRequest struct {
	BudgetID       string
	ApprovalType   string
	ApprovedAmount *decimal.Decimal
	RegisteredBy   string
	ApprovalNotes  string
}

// ValidatedRequest is an ApproveBudgetRequest after Validate
type ValidatedRequest struct {
	BudgetID uuid.UUID
	Decision budget.Decision
}

// Stage names a step of the reconciliation that can fail softly
type Stage string

const (
	StageStockLookup    Stage = "stock_lookup"
	StageStockAlert     Stage = "stock_alert"
	StagePurchaseNeed   Stage = "purchase_need"
	StageNeedAlert      Stage = "purchase_need_alert"
	StageReservation    Stage = "reservation"
	StageMovement       Stage = "inventory_movement"
	StageReceivable     Stage = "receivable"
	StageWorkflow       Stage = "workflow"
	StageStatusHistory  Stage = "status_history"
	StageApprovalRecord Stage = "approval_record"
)

// Warning is a soft failure recorded while the approval still succeeded
type Warning struct {
	Stage    Stage  `json:"stage"`
	PartCode string `json:"part_code,omitempty"`
	Message  string `json:"message"`
}

// ApproveBudgetResult summarizes a successful approval
type ApproveBudgetResult struct {
	BudgetID             uuid.UUID
	OrderID              uuid.UUID
	OrderStatus          order.Status
	PreviousOrderStatus  order.Status
	ReservationsCreated  int
	PurchaseNeedsCreated int
	AlertsCreated        int
	Warnings             []Warning
}

// ApprovalSummary is the persisted outcome of a budget approval
type ApprovalSummary struct {
	BudgetID     uuid.UUID
	BudgetStatus budget.Status
	OrderID      uuid.UUID
	Approval     *budget.BudgetApproval
	Reservations int
	Receivable   *finance.AccountReceivable
	ApprovedAt   *time.Time
}
