package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retifica/backend/internal/application/approval"
	"github.com/retifica/backend/internal/interfaces/http/dto"
	"github.com/retifica/backend/internal/interfaces/http/middleware"
)

// ApprovalService is the part of approval.Service the handler needs
type ApprovalService interface {
	Approve(ctx context.Context, actor approval.Actor, req approval.ApproveBudgetRequest) (*approval.ApproveBudgetResult, error)
	GetApprovalSummary(ctx context.Context, actor approval.Actor, budgetID uuid.UUID) (*approval.ApprovalSummary, error)
}

// BudgetApprovalHandler serves the budget approval endpoints
type BudgetApprovalHandler struct {
	BaseHandler
	service ApprovalService
}

// NewBudgetApprovalHandler creates a new BudgetApprovalHandler
func NewBudgetApprovalHandler(service ApprovalService) *BudgetApprovalHandler {
	return &BudgetApprovalHandler{service: service}
}

const approveFailedMessage = "Failed to approve budget"

// Approve handles POST /api/v1/budgets/approve and the legacy
// /functions/v1/process-budget-approval path.
func (h *BudgetApprovalHandler) Approve(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Unauthorized")
		return
	}

	var req dto.ApproveBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is required", "")
			return
		}
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.Approve(c.Request.Context(), actor, req.ToCommand())
	if err != nil {
		h.HandleError(c, err, approveFailedMessage)
		return
	}

	c.JSON(http.StatusOK, dto.NewApproveBudgetResponse(result))
}

// GetApproval handles GET /api/v1/budgets/:id/approval
func (h *BudgetApprovalHandler) GetApproval(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c, "Unauthorized")
		return
	}

	budgetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "budget id must be a valid UUID", "")
		return
	}

	summary, err := h.service.GetApprovalSummary(c.Request.Context(), actor, budgetID)
	if err != nil {
		h.HandleError(c, err, "Failed to load budget approval")
		return
	}

	h.Success(c, dto.NewApprovalSummaryResponse(summary))
}

// MethodNotAllowed answers a known path requested with the wrong verb
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(
		dto.ErrCodeMethodNotAllowed, "Method not allowed", "",
	).WithRequestID(middleware.GetRequestID(c)))
}
