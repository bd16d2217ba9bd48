package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/retifica/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationInput struct {
	BudgetID     string `json:"budget_id" binding:"required"`
	ApprovalType string `json:"approval_type" binding:"required,oneof=total partial parcial"`
}

func bindAndRespond(body string) *httptest.ResponseRecorder {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var in validationInput
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError(t *testing.T) {
	t.Run("missing and invalid fields", func(t *testing.T) {
		w := bindAndRespond(`{"approval_type":"sometimes"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeValidation, resp.Code)
		assert.Equal(t, "Request validation failed", resp.Message)
		assert.Contains(t, resp.Error, "budget_id: This field is required")
		assert.Contains(t, resp.Error, "approval_type: Must be one of: total partial parcial")
		assert.NotEmpty(t, resp.RequestID)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := bindAndRespond(`{"budget_id":`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Code)
		assert.Equal(t, "Invalid request body", resp.Message)
	})

	t.Run("valid body passes", func(t *testing.T) {
		w := bindAndRespond(`{"budget_id":"b1","approval_type":"total"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
