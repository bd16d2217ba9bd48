package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/retifica/backend/internal/application/approval"
	"github.com/retifica/backend/internal/domain/order"
	"github.com/retifica/backend/internal/infrastructure/auth"
	"github.com/retifica/backend/internal/infrastructure/config"
	"github.com/retifica/backend/internal/interfaces/http/dto"
	"github.com/retifica/backend/internal/interfaces/http/handler"
	"github.com/retifica/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubApprovalService struct {
	approved []approval.Actor
}

func (s *stubApprovalService) Approve(_ context.Context, actor approval.Actor, _ approval.ApproveBudgetRequest) (*approval.ApproveBudgetResult, error) {
	s.approved = append(s.approved, actor)
	return &approval.ApproveBudgetResult{OrderID: uuid.New(), OrderStatus: order.StatusApproved}, nil
}

func (s *stubApprovalService) GetApprovalSummary(context.Context, approval.Actor, uuid.UUID) (*approval.ApprovalSummary, error) {
	return nil, approval.ErrBudgetNotFound
}

type okPinger struct{}

func (okPinger) Ping() error { return nil }

type engineFixture struct {
	svc   *stubApprovalService
	token string
	actor auth.GenerateTokenInput
	serve func(method, path, body string, withToken bool) *httptest.ResponseRecorder
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	middleware.SetupValidator()

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "engine-test-secret-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "retifica-backend",
	})
	input := auth.GenerateTokenInput{TenantID: uuid.New(), UserID: uuid.New(), Username: "recepcao"}
	token, _, err := jwtService.GenerateAccessToken(input)
	require.NoError(t, err)

	svc := &stubApprovalService{}
	engine := NewEngine(EngineConfig{
		CORS:        middleware.DefaultCORSConfig(),
		Security:    middleware.DefaultSecurityConfig(),
		MaxBodySize: 1 << 20,
		JWT:         middleware.DefaultJWTConfig(jwtService),
	}, Handlers{
		Approval: handler.NewBudgetApprovalHandler(svc),
		System:   handler.NewSystemHandler("retifica-backend", "test", okPinger{}),
	})

	f := &engineFixture{svc: svc, token: token, actor: input}
	f.serve = func(method, path, body string, withToken bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if withToken {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w
	}
	return f
}

const approveBody = `{"budget_id":"3c1d2e4f-5a6b-4c7d-8e9f-0a1b2c3d4e5f","approval_type":"total","approved_amount":100}`

func TestEngine_ApprovalPaths(t *testing.T) {
	f := newEngineFixture(t)

	for _, path := range []string{"/api/v1/budgets/approve", LegacyApprovalPath} {
		t.Run(path, func(t *testing.T) {
			w := f.serve(http.MethodPost, path, approveBody, true)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp dto.ApproveBudgetResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, resp.Success)
			assert.Equal(t, "aprovada", resp.OrderStatus)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		})
	}

	require.Len(t, f.svc.approved, 2)
	assert.Equal(t, f.actor.UserID, f.svc.approved[0].UserID)
	assert.Equal(t, f.actor.TenantID, f.svc.approved[1].TenantID)
}

func TestEngine_RequiresToken(t *testing.T) {
	f := newEngineFixture(t)

	for _, path := range []string{"/api/v1/budgets/approve", LegacyApprovalPath} {
		w := f.serve(http.MethodPost, path, approveBody, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	assert.Empty(t, f.svc.approved)
}

func TestEngine_MethodNotAllowed(t *testing.T) {
	f := newEngineFixture(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		for _, path := range []string{"/api/v1/budgets/approve", LegacyApprovalPath} {
			w := f.serve(method, path, "", true)
			require.Equal(t, http.StatusMethodNotAllowed, w.Code, method+" "+path)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, dto.ErrCodeMethodNotAllowed, resp.Code)
		}
	}
	assert.Empty(t, f.svc.approved)
}

func TestEngine_HealthAndNotFound(t *testing.T) {
	f := newEngineFixture(t)

	w := f.serve(http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = f.serve(http.MethodGet, "/api/v1/budgets/"+uuid.NewString()+"/approval", "", true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.serve(http.MethodGet, "/nowhere", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeNotFound)
}
