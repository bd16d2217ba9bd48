package dto

import (
	"time"

	"github.com/retifica/backend/internal/application/approval"
	"github.com/shopspring/decimal"
)

// ApproveBudgetRequest is the JSON body of the approval endpoint
type ApproveBudgetRequest struct {
	BudgetID       string           `json:"budget_id" binding:"required"`
	ApprovalType   string           `json:"approval_type" binding:"required,oneof=total partial parcial"`
	ApprovedAmount *decimal.Decimal `json:"approved_amount" binding:"required"`
	RegisteredBy   string           `json:"registered_by" binding:"omitempty,max=255"`
	ApprovalNotes  string           `json:"approval_notes"`
}

// ToCommand converts the body into the service request
func (r ApproveBudgetRequest) ToCommand() approval.ApproveBudgetRequest {
	return approval.ApproveBudgetRequest{
		BudgetID:       r.BudgetID,
		ApprovalType:   r.ApprovalType,
		ApprovedAmount: r.ApprovedAmount,
		RegisteredBy:   r.RegisteredBy,
		ApprovalNotes:  r.ApprovalNotes,
	}
}

// ApproveBudgetResponse is the success body of the approval endpoint
type ApproveBudgetResponse struct {
	Success              bool               `json:"success"`
	Message              string             `json:"message"`
	OrderID              string             `json:"order_id"`
	OrderStatus          string             `json:"order_status"`
	ReservationsCreated  int                `json:"reservations_created"`
	PurchaseNeedsCreated int                `json:"purchase_needs_created"`
	AlertsCreated        int                `json:"alerts_created"`
	Warnings             []approval.Warning `json:"warnings"`
}

// ApprovalSucceededMessage is the fixed success message
const ApprovalSucceededMessage = "Budget approved successfully"

// NewApproveBudgetResponse builds the success body from the service result
func NewApproveBudgetResponse(r *approval.ApproveBudgetResult) ApproveBudgetResponse {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []approval.Warning{}
	}
	return ApproveBudgetResponse{
		Success:              true,
		Message:              ApprovalSucceededMessage,
		OrderID:              r.OrderID.String(),
		OrderStatus:          r.OrderStatus.String(),
		ReservationsCreated:  r.ReservationsCreated,
		PurchaseNeedsCreated: r.PurchaseNeedsCreated,
		AlertsCreated:        r.AlertsCreated,
		Warnings:             warnings,
	}
}

// ApprovalRecordResponse describes the stored approval of a budget
type ApprovalRecordResponse struct {
	ApprovalType   string          `json:"approval_type"`
	ApprovalMethod string          `json:"approval_method"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	ApprovalNotes  string          `json:"approval_notes,omitempty"`
	RegisteredBy   string          `json:"registered_by"`
	ApprovedAt     time.Time       `json:"approved_at"`
}

// ReceivableResponse describes the receivable raised by an approval
type ReceivableResponse struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  time.Time       `json:"due_date"`
	Status   string          `json:"status"`
	Customer *string         `json:"customer_id,omitempty"`
}

// ApprovalSummaryResponse is returned by GET /budgets/:id/approval
type ApprovalSummaryResponse struct {
	BudgetID            string                  `json:"budget_id"`
	BudgetStatus        string                  `json:"budget_status"`
	OrderID             string                  `json:"order_id"`
	ApprovedAt          *time.Time              `json:"approved_at,omitempty"`
	ReservationsCreated int                     `json:"reservations_created"`
	Approval            *ApprovalRecordResponse `json:"approval,omitempty"`
	Receivable          *ReceivableResponse     `json:"receivable,omitempty"`
}

// NewApprovalSummaryResponse converts the service summary
func NewApprovalSummaryResponse(s *approval.ApprovalSummary) ApprovalSummaryResponse {
	resp := ApprovalSummaryResponse{
		BudgetID:            s.BudgetID.String(),
		BudgetStatus:        s.BudgetStatus.String(),
		OrderID:             s.OrderID.String(),
		ApprovedAt:          s.ApprovedAt,
		ReservationsCreated: s.Reservations,
	}
	if a := s.Approval; a != nil {
		resp.Approval = &ApprovalRecordResponse{
			ApprovalType:   a.ApprovalType.String(),
			ApprovalMethod: string(a.ApprovalMethod),
			ApprovedAmount: a.ApprovedAmount,
			ApprovalNotes:  a.ApprovalNotes,
			RegisteredBy:   a.RegisteredBy,
			ApprovedAt:     a.ApprovedAt,
		}
	}
	if r := s.Receivable; r != nil {
		resp.Receivable = &ReceivableResponse{
			ID:      r.ID.String(),
			Amount:  r.Amount,
			DueDate: r.DueDate,
			Status:  r.Status.String(),
		}
		if r.CustomerID != nil {
			id := r.CustomerID.String()
			resp.Receivable.Customer = &id
		}
	}
	return resp
}
