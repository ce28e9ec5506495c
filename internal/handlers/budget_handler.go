package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"silvercoin/internal/models"
	"silvercoin/internal/pagination"
	"silvercoin/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// EstimateRequest is one income or expense line of a budget.
type EstimateRequest struct {
	Name   string          `json:"name" binding:"required,max=50"`
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0,money"`
}

// CreateBudgetRequest represents the request payload for creating a budget
// with its standing estimates.
type CreateBudgetRequest struct {
	Name         string            `json:"name" binding:"required,max=25"`
	Description  string            `json:"description" binding:"max=250"`
	PeriodType   string            `json:"period_type" binding:"omitempty,period_type"`
	PeriodLength *int              `json:"period_length" binding:"omitempty,min=1"`
	Incomes      []EstimateRequest `json:"incomes" binding:"dive"`
	Expenses     []EstimateRequest `json:"expenses" binding:"dive"`
}

// UpdateBudgetRequest represents the request payload for updating a budget.
type UpdateBudgetRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=25"`
	Description  *string `json:"description" binding:"omitempty,max=250"`
	PeriodType   *string `json:"period_type" binding:"omitempty,period_type"`
	PeriodLength *int    `json:"period_length" binding:"omitempty,min=1"`
}

func estimateInputs(amountType models.AmountType, reqs []EstimateRequest) []services.EstimateInput {
	inputs := make([]services.EstimateInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, services.EstimateInput{Name: r.Name, Type: amountType, Amount: r.Amount})
	}
	return inputs
}

// CreateBudget handles the creation of a new budget.
// @Summary     Create a budget
// @Description Create a budget together with its income and expense estimates
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	periodType := models.DefaultPeriodType
	if req.PeriodType != "" {
		periodType = models.PeriodType(req.PeriodType)
	}
	periodLength := models.DefaultPeriodLength
	if req.PeriodLength != nil {
		periodLength = *req.PeriodLength
	}
	estimates := append(
		estimateInputs(models.AmountTypeIncome, req.Incomes),
		estimateInputs(models.AmountTypeExpense, req.Expenses)...,
	)

	budget, err := h.budgetService.CreateBudget(userID, req.Name, req.Description, periodType, periodLength, estimates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "period_type": periodType, "period_length": periodLength, "estimates": len(estimates)})

	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// GetBudgets handles listing budgets for the authenticated user.
// @Summary     Get budgets
// @Description Get a paginated list of budgets for the authenticated user
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Budget] "Paginated budgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *BudgetHandler) GetBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.budgetService.GetUserBudgets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudget handles retrieving a single budget with its estimates.
// @Summary     Get budget
// @Description Get a budget and its standing estimates
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Budget not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
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

	budget, err := h.budgetService.GetBudgetByID(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// UpdateBudget handles updating a budget. A cadence change applies only to
// periods created afterwards.
// @Summary     Update budget
// @Description Update a budget's name, description or cadence
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Fields to update"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Budget not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
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

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	update := services.BudgetUpdate{
		Name:         req.Name,
		Description:  req.Description,
		PeriodLength: req.PeriodLength,
	}
	if req.PeriodType != nil {
		pt := models.PeriodType(*req.PeriodType)
		update.PeriodType = &pt
	}

	budget, err := h.budgetService.UpdateBudget(userID, budgetID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"name": budget.Name, "period_type": budget.PeriodType, "period_length": budget.PeriodLength})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles deleting a budget and everything under it.
// @Summary     Delete budget
// @Description Delete a budget with its estimates, periods and actuals
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} map[string]string "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Budget not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
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

	if err := h.budgetService.DeleteBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// GetBudgetOverview handles the income/expense overview of a budget.
// @Summary     Budget overview
// @Description Estimates split into incomes and expenses with each one's share of total income
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     200 {object} summary.Budget "Budget overview"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Budget not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/overview [get]
func (h *BudgetHandler) GetBudgetOverview(c *gin.Context) {
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

	overview, err := h.budgetService.GetBudgetOverview(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"overview": overview})
}
