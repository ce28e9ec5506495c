package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"silvercoin/internal/models"
	"silvercoin/internal/services"
)

// AmountHandler handles standing estimates and snapshot lookups.
type AmountHandler struct {
	amountService services.AmountServicer
	auditService  services.AuditServicer
}

// NewAmountHandler creates a new AmountHandler.
func NewAmountHandler(amountService services.AmountServicer, auditService services.AuditServicer) *AmountHandler {
	return &AmountHandler{amountService: amountService, auditService: auditService}
}

// CreateAmountRequest represents the request payload for adding an estimate.
type CreateAmountRequest struct {
	Name       string          `json:"name" binding:"required,max=50"`
	AmountType string          `json:"amount_type" binding:"required,amount_type"`
	Amount     decimal.Decimal `json:"amount" binding:"required,gt=0,money"`
}

// UpdateAmountRequest represents the request payload for changing an estimate.
type UpdateAmountRequest struct {
	Name       *string          `json:"name" binding:"omitempty,min=1,max=50"`
	AmountType *string          `json:"amount_type" binding:"omitempty,amount_type"`
	Amount     *decimal.Decimal `json:"amount" binding:"omitempty,gt=0,money"`
}

// CreateAmount handles adding a standing estimate to a budget.
// @Summary     Add estimate
// @Description Add an income or expense estimate to a budget. Existing periods are not affected.
// @Tags        amounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Budget ID"
// @Param       request body CreateAmountRequest true "Estimate details"
// @Success     201 {object} models.Amount "Estimate created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Budget not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/amounts [post]
func (h *AmountHandler) CreateAmount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	amount, err := h.amountService.CreateEstimate(userID, budgetID, services.EstimateInput{
		Name:   req.Name,
		Type:   models.AmountType(req.AmountType),
		Amount: req.Amount,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_AMOUNT", "amount", amount.ID, c.ClientIP(),
		map[string]interface{}{"name": amount.Name, "amount_type": amount.Type, "amount": amount.Value})

	c.JSON(http.StatusCreated, gin.H{"amount": amount})
}

// GetBudgetAmounts handles listing a budget's standing estimates.
// @Summary     List estimates
// @Description List a budget's standing estimates
// @Tags        amounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {array}  models.Amount "Estimates"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Budget not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/amounts [get]
func (h *AmountHandler) GetBudgetAmounts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	amounts, err := h.amountService.GetBudgetEstimates(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"amounts": amounts})
}

// GetAmount handles retrieving an estimate or a period snapshot.
// @Summary     Get amount
// @Description Get a standing estimate or a period snapshot
// @Tags        amounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Amount ID"
// @Success     200 {object} models.Amount "Amount"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Amount not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /amounts/{id} [get]
func (h *AmountHandler) GetAmount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	amountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	amount, err := h.amountService.GetAmountByID(userID, amountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"amount": amount})
}

// UpdateAmount handles changing a standing estimate. Period snapshots
// cannot be changed.
// @Summary     Update estimate
// @Description Change a standing estimate's name, type or amount
// @Tags        amounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Amount ID"
// @Param       request body UpdateAmountRequest true "Fields to update"
// @Success     200 {object} models.Amount "Updated estimate"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Amount not accessible"
// @Failure     409 {object} ErrorResponse "Amount is a period snapshot"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /amounts/{id} [put]
func (h *AmountHandler) UpdateAmount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	amountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	update := services.EstimateUpdate{Name: req.Name, Amount: req.Amount}
	if req.AmountType != nil {
		at := models.AmountType(*req.AmountType)
		update.Type = &at
	}

	amount, err := h.amountService.UpdateEstimate(userID, amountID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_AMOUNT", "amount", amount.ID, c.ClientIP(),
		map[string]interface{}{"name": amount.Name, "amount_type": amount.Type, "amount": amount.Value})

	c.JSON(http.StatusOK, gin.H{"amount": amount})
}

// DeleteAmount handles removing a standing estimate.
// @Summary     Delete estimate
// @Description Remove a standing estimate. Snapshots already taken from it remain.
// @Tags        amounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Amount ID"
// @Success     200 {object} map[string]string "Estimate deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Amount not accessible"
// @Failure     409 {object} ErrorResponse "Amount is a period snapshot"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /amounts/{id} [delete]
func (h *AmountHandler) DeleteAmount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	amountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.amountService.DeleteEstimate(userID, amountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_AMOUNT", "amount", amountID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Amount deleted successfully"})
}
