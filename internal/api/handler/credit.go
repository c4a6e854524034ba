package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/resumeforge/resumeforge/internal/store"
	"github.com/resumeforge/resumeforge/pkg/errors"
	"github.com/resumeforge/resumeforge/pkg/logger"
)

// CreditHandler handles credit ledger HTTP requests
type CreditHandler struct {
	store store.Store
}

// NewCreditHandler creates a new credit handler
func NewCreditHandler(s store.Store) *CreditHandler {
	return &CreditHandler{store: s}
}

// GetBalance handles GET /api/v1/credits
func (h *CreditHandler) GetBalance(c *gin.Context) {
	owner := ownerID(c)
	balance, err := h.store.Credit().Balance(owner)
	if err != nil {
		logger.Error("Failed to fetch credit balance",
			zap.String("owner_id", owner),
			zap.Error(err),
		)
		respondError(c, errors.Wrap(errors.ErrCodeDBQuery, "Failed to fetch balance", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"owner_id": owner,
		"balance":  balance,
	})
}

// GrantRequest represents the request body for granting credits
type GrantRequest struct {
	OwnerID string `json:"owner_id" binding:"required"`
	Amount  int    `json:"amount" binding:"required"`
}

// Grant handles POST /api/v1/admin/credits/grant
// This is an operator endpoint; purchases land here from the billing hook.
func (h *CreditHandler) Grant(c *gin.Context) {
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}
	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    errors.ErrCodeValidation,
			"message": "Amount must be positive",
		})
		return
	}

	if err := h.store.Credit().Grant(req.OwnerID, req.Amount); err != nil {
		logger.Error("Failed to grant credits",
			zap.String("owner_id", req.OwnerID),
			zap.Int("amount", req.Amount),
			zap.Error(err),
		)
		respondError(c, errors.Wrap(errors.ErrCodeDBQuery, "Failed to grant credits", err))
		return
	}

	balance, err := h.store.Credit().Balance(req.OwnerID)
	if err != nil {
		respondError(c, errors.Wrap(errors.ErrCodeDBQuery, "Failed to fetch balance", err))
		return
	}

	logger.Info("Credits granted",
		zap.String("owner_id", req.OwnerID),
		zap.Int("amount", req.Amount),
		zap.Int("balance", balance),
	)

	c.JSON(http.StatusOK, gin.H{
		"owner_id": req.OwnerID,
		"balance":  balance,
	})
}
