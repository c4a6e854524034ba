package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/pkg/errors"
)

func setupCreditRouter(s *MockStore) *gin.Engine {
	h := NewCreditHandler(s)
	r := SetupTestRouter(testOwner)
	r.GET("/credits", h.GetBalance)
	r.POST("/admin/credits/grant", h.Grant)
	return r
}

func TestGetBalance(t *testing.T) {
	s := NewMockStore()
	require.NoError(t, s.CreditStore.Grant(testOwner, 5))
	r := setupCreditRouter(s)

	w := ServeRequest(r, CreateTestRequest("GET", "/credits", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OwnerID string `json:"owner_id"`
		Balance int    `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, testOwner, resp.OwnerID)
	assert.Equal(t, 5, resp.Balance)
}

func TestGrant(t *testing.T) {
	t.Run("accumulates", func(t *testing.T) {
		s := NewMockStore()
		r := setupCreditRouter(s)

		w := ServeRequest(r, CreateTestRequest("POST", "/admin/credits/grant", gin.H{
			"owner_id": "owner-9",
			"amount":   3,
		}))
		require.Equal(t, http.StatusOK, w.Code)

		w = ServeRequest(r, CreateTestRequest("POST", "/admin/credits/grant", gin.H{
			"owner_id": "owner-9",
			"amount":   2,
		}))
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Balance int `json:"balance"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 5, resp.Balance)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		r := setupCreditRouter(NewMockStore())
		w := ServeRequest(r, CreateTestRequest("POST", "/admin/credits/grant", gin.H{
			"owner_id": "owner-9",
			"amount":   -1,
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), string(errors.ErrCodeValidation))
	})

	t.Run("rejects missing owner", func(t *testing.T) {
		r := setupCreditRouter(NewMockStore())
		w := ServeRequest(r, CreateTestRequest("POST", "/admin/credits/grant", gin.H{
			"amount": 3,
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
