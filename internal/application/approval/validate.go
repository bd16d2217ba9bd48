package approval

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/domain/budget"
	"github.com/retifica/backend/internal/domain/shared"
)

// Validate checks a request without touching any store. registered_by
// falls back to the actor's user id.
func Validate(actor Actor, req ApproveBudgetRequest) (*ValidatedRequest, error) {
	rawID := strings.TrimSpace(req.BudgetID)
	if rawID == "" {
		return nil, shared.ErrInvalidInput.WithMessage("budget_id is required")
	}
	if strings.TrimSpace(req.ApprovalType) == "" {
		return nil, shared.ErrInvalidInput.WithMessage("approval_type is required")
	}
	if req.ApprovedAmount == nil {
		return nil, shared.ErrInvalidInput.WithMessage("approved_amount is required")
	}
	if !req.ApprovedAmount.IsPositive() {
		return nil, shared.ErrInvalidInput.WithMessage("approved_amount must be greater than zero")
	}

	approvalType, err := budget.ParseApprovalType(req.ApprovalType)
	if err != nil {
		return nil, err
	}

	budgetID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, shared.ErrInvalidInput.WithMessage("budget_id must be a valid UUID")
	}

	registeredBy := strings.TrimSpace(req.RegisteredBy)
	if registeredBy == "" {
		registeredBy = actor.UserID.String()
	}

	return &ValidatedRequest{
		BudgetID: budgetID,
		Decision: budget.Decision{
			Type:         approvalType,
			Amount:       *req.ApprovedAmount,
			Notes:        strings.TrimSpace(req.ApprovalNotes),
			RegisteredBy: registeredBy,
		},
	}, nil
}
