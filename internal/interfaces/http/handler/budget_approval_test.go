package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retifica/backend/internal/application/approval"
	"github.com/retifica/backend/internal/domain/budget"
	"github.com/retifica/backend/internal/domain/order"
	"github.com/retifica/backend/internal/domain/shared"
	"github.com/retifica/backend/internal/infrastructure/auth"
	"github.com/retifica/backend/internal/interfaces/http/dto"
	"github.com/retifica/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type fakeApprovalService struct {
	approveFn func(ctx context.Context, actor approval.Actor, req approval.ApproveBudgetRequest) (*approval.ApproveBudgetResult, error)
	summaryFn func(ctx context.Context, actor approval.Actor, budgetID uuid.UUID) (*approval.ApprovalSummary, error)

	gotActor approval.Actor
	gotReq   approval.ApproveBudgetRequest
	calls    int
}

func (f *fakeApprovalService) Approve(ctx context.Context, actor approval.Actor, req approval.ApproveBudgetRequest) (*approval.ApproveBudgetResult, error) {
	f.calls++
	f.gotActor = actor
	f.gotReq = req
	return f.approveFn(ctx, actor, req)
}

func (f *fakeApprovalService) GetApprovalSummary(ctx context.Context, actor approval.Actor, budgetID uuid.UUID) (*approval.ApprovalSummary, error) {
	f.calls++
	f.gotActor = actor
	return f.summaryFn(ctx, actor, budgetID)
}

var testActor = approval.Actor{
	UserID:   uuid.MustParse("0b8f2a4e-1c55-4a60-8a3c-2f3c0d6f9a01"),
	TenantID: uuid.MustParse("7d4e5c1b-9a2f-4e3d-8c7b-6a5f4e3d2c1b"),
	Username: "balcao",
}

func withClaims(actor *approval.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor != nil {
			c.Set(middleware.JWTClaimsKey, &auth.Claims{
				UserID:   actor.UserID.String(),
				TenantID: actor.TenantID.String(),
				Username: actor.Username,
			})
		}
		c.Next()
	}
}

func newApprovalRouter(svc ApprovalService, actor *approval.Actor) *gin.Engine {
	h := NewBudgetApprovalHandler(svc)
	r := gin.New()
	r.Use(middleware.RequestID(), withClaims(actor))
	r.POST("/api/v1/budgets/approve", h.Approve)
	r.GET("/api/v1/budgets/:id/approval", h.GetApproval)
	return r
}

func postApprove(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/budgets/approve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp
}

const validApproveBody = `{
	"budget_id": "3c1d2e4f-5a6b-4c7d-8e9f-0a1b2c3d4e5f",
	"approval_type": "total",
	"approved_amount": 1500.50,
	"approval_notes": "aprovado pelo cliente"
}`

func TestBudgetApprovalHandler_Approve_Success(t *testing.T) {
	orderID := uuid.New()
	svc := &fakeApprovalService{
		approveFn: func(context.Context, approval.Actor, approval.ApproveBudgetRequest) (*approval.ApproveBudgetResult, error) {
			return &approval.ApproveBudgetResult{
				OrderID:              orderID,
				OrderStatus:          order.StatusApproved,
				ReservationsCreated:  2,
				PurchaseNeedsCreated: 1,
				AlertsCreated:        1,
				Warnings: []approval.Warning{
					{Stage: approval.StageWorkflow, Message: "function not found"},
				},
			}, nil
		},
	}

	w := postApprove(newApprovalRouter(svc, &testActor), validApproveBody)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ApproveBudgetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, dto.ApprovalSucceededMessage, resp.Message)
	assert.Equal(t, orderID.String(), resp.OrderID)
	assert.Equal(t, "aprovada", resp.OrderStatus)
	assert.Equal(t, 2, resp.ReservationsCreated)
	assert.Equal(t, 1, resp.PurchaseNeedsCreated)
	assert.Equal(t, 1, resp.AlertsCreated)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, approval.StageWorkflow, resp.Warnings[0].Stage)

	assert.Equal(t, testActor, svc.gotActor)
	assert.Equal(t, "3c1d2e4f-5a6b-4c7d-8e9f-0a1b2c3d4e5f", svc.gotReq.BudgetID)
	assert.Equal(t, "total", svc.gotReq.ApprovalType)
	require.NotNil(t, svc.gotReq.ApprovedAmount)
	assert.Equal(t, "1500.5", svc.gotReq.ApprovedAmount.String())
	assert.Equal(t, "aprovado pelo cliente", svc.gotReq.ApprovalNotes)
}

func TestBudgetApprovalHandler_Approve_Unauthenticated(t *testing.T) {
	svc := &fakeApprovalService{}

	w := postApprove(newApprovalRouter(svc, nil), validApproveBody)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeErrorBody(t, w)
	assert.Equal(t, dto.ErrCodeUnauthorized, resp.Code)
	assert.Zero(t, svc.calls)
}

func TestBudgetApprovalHandler_Approve_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty body", "", dto.ErrCodeInvalidJSON},
		{"malformed json", `{"budget_id":`, dto.ErrCodeInvalidJSON},
		{"non numeric amount", `{"budget_id":"x","approval_type":"total","approved_amount":"abc"}`, dto.ErrCodeInvalidJSON},
		{"missing budget id", `{"approval_type":"total","approved_amount":10}`, dto.ErrCodeValidation},
		{"missing amount", `{"budget_id":"x","approval_type":"total"}`, dto.ErrCodeValidation},
		{"unknown approval type", `{"budget_id":"x","approval_type":"maybe","approved_amount":10}`, dto.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeApprovalService{}
			w := postApprove(newApprovalRouter(svc, &testActor), tt.body)

			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeErrorBody(t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
			assert.Zero(t, svc.calls)
		})
	}
}

func TestBudgetApprovalHandler_Approve_ServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
		cause   string
	}{
		{
			name:    "invalid input",
			err:     shared.ErrInvalidInput.WithMessage("budget_id must be a valid UUID"),
			status:  http.StatusBadRequest,
			code:    dto.ErrCodeInvalidInput,
			message: "budget_id must be a valid UUID",
		},
		{
			name:    "unauthorized",
			err:     shared.ErrUnauthorized,
			status:  http.StatusUnauthorized,
			code:    dto.ErrCodeUnauthorized,
			message: shared.ErrUnauthorized.Message,
		},
		{
			name:    "budget not found",
			err:     approval.ErrBudgetNotFound,
			status:  http.StatusNotFound,
			code:    dto.ErrCodeNotFound,
			message: "Budget not found",
		},
		{
			name:    "order not found",
			err:     approval.ErrOrderNotFound,
			status:  http.StatusNotFound,
			code:    dto.ErrCodeNotFound,
			message: "Order not found",
		},
		{
			name:    "approval in progress",
			err:     approval.ErrApprovalInProgress,
			status:  http.StatusConflict,
			code:    dto.ErrCodeConflict,
			message: "Budget approval already in progress",
		},
		{
			name:    "transition failed",
			err:     fmt.Errorf("%w: %v", approval.ErrTransitionFailed, errors.New("update budgets: connection reset")),
			status:  http.StatusInternalServerError,
			code:    dto.ErrCodeTransitionFailed,
			message: "Failed to approve budget",
			cause:   "Failed to approve budget: update budgets: connection reset",
		},
		{
			name:    "unexpected error",
			err:     fmt.Errorf("load budget: %w", errors.New("pq: too many connections")),
			status:  http.StatusInternalServerError,
			code:    dto.ErrCodeInternal,
			message: "Failed to approve budget",
			cause:   "load budget: pq: too many connections",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeApprovalService{
				approveFn: func(context.Context, approval.Actor, approval.ApproveBudgetRequest) (*approval.ApproveBudgetResult, error) {
					return nil, tt.err
				},
			}

			w := postApprove(newApprovalRouter(svc, &testActor), validApproveBody)

			require.Equal(t, tt.status, w.Code)
			resp := decodeErrorBody(t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, tt.cause, resp.Error)
		})
	}
}

func TestBudgetApprovalHandler_GetApproval(t *testing.T) {
	budgetID := uuid.New()
	orderID := uuid.New()
	approvedAt := time.Date(2026, 5, 4, 14, 30, 0, 0, time.UTC)

	svc := &fakeApprovalService{
		summaryFn: func(_ context.Context, _ approval.Actor, id uuid.UUID) (*approval.ApprovalSummary, error) {
			if id != budgetID {
				return nil, approval.ErrBudgetNotFound
			}
			return &approval.ApprovalSummary{
				BudgetID:     budgetID,
				BudgetStatus: budget.StatusApproved,
				OrderID:      orderID,
				Reservations: 4,
				ApprovedAt:   &approvedAt,
			}, nil
		},
	}
	r := newApprovalRouter(svc, &testActor)

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/budgets/"+budgetID.String()+"/approval", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool                        `json:"success"`
			Data    dto.ApprovalSummaryResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, budgetID.String(), resp.Data.BudgetID)
		assert.Equal(t, orderID.String(), resp.Data.OrderID)
		assert.Equal(t, 4, resp.Data.ReservationsCreated)
		require.NotNil(t, resp.Data.ApprovedAt)
		assert.True(t, approvedAt.Equal(*resp.Data.ApprovedAt))
		assert.Equal(t, testActor, svc.gotActor)
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/budgets/"+uuid.NewString()+"/approval", nil))
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decodeErrorBody(t, w).Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/budgets/abc/approval", nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, decodeErrorBody(t, w).Code)
	})
}

func TestMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/budgets/approve", nil)

	MethodNotAllowed(c)

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	resp := decodeErrorBody(t, w)
	assert.Equal(t, dto.ErrCodeMethodNotAllowed, resp.Code)
	assert.Equal(t, "Method not allowed", resp.Message)
}
