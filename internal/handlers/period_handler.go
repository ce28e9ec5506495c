package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"silvercoin/internal/pagination"
	"silvercoin/internal/services"
)

// PeriodHandler handles budget period requests.
type PeriodHandler struct {
	periodService services.PeriodServicer
	auditService  services.AuditServicer
	now           func() time.Time
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(periodService services.PeriodServicer, auditService services.AuditServicer) *PeriodHandler {
	return &PeriodHandler{periodService: periodService, auditService: auditService, now: time.Now}
}

// PeriodRequest carries the start date of a period. The end date always
// follows from the budget's cadence.
type PeriodRequest struct {
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
}

// CurrentPeriodQuery optionally overrides the day used to find the current period.
type CurrentPeriodQuery struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// CreatePeriod handles starting a new period of a budget.
// @Summary     Create period
// @Description Start a budget period on the given date. The end date is derived from the budget's cadence and every standing estimate is snapshotted into the period.
// @Tags        periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Budget ID"
// @Param       request body PeriodRequest true "Start date"
// @Success     201 {object} models.BudgetPeriod "Period created with snapshots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Budget not accessible"
// @Failure     409 {object} ErrorResponse "Overlaps an existing period"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/periods [post]
func (h *PeriodHandler) CreatePeriod(c *gin.Context) {
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

	var req PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bp, err := h.periodService.CreatePeriod(userID, budgetID, start)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PERIOD", "budget_period", bp.ID, c.ClientIP(),
		map[string]interface{}{"budget_id": bp.BudgetID, "start_date": req.StartDate, "snapshots": len(bp.Amounts)})

	c.JSON(http.StatusCreated, gin.H{"period": bp})
}

// GetBudgetPeriods handles listing a budget's periods, latest first.
// @Summary     List periods
// @Description Get a paginated list of a budget's periods ordered by start date descending
// @Tags        periods
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Budget ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BudgetPeriod] "Paginated periods"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Budget not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/periods [get]
func (h *PeriodHandler) GetBudgetPeriods(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.periodService.GetBudgetPeriods(userID, budgetID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCurrentPeriod handles finding the period that contains today, or the
// day given in the date query parameter.
// @Summary     Current period
// @Description Get the budget period containing today or the given date
// @Tags        periods
// @Produce     json
// @Security    BearerAuth
// @Param       id   path  string true  "Budget ID"
// @Param       date query string false "Day to look up (YYYY-MM-DD)"
// @Success     200 {object} models.BudgetPeriod "Current period"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Budget not accessible"
// @Failure     404 {object} ErrorResponse "No period covers the date"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/periods/current [get]
func (h *PeriodHandler) GetCurrentPeriod(c *gin.Context) {
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

	var q CurrentPeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	on := h.now()
	if q.Date != "" {
		if on, err = parseDate("date", q.Date); err != nil {
			respondWithError(c, err)
			return
		}
	}

	bp, err := h.periodService.GetCurrentPeriod(userID, budgetID, on)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": bp})
}

// GetPeriod handles retrieving a period with its snapshots.
// @Summary     Get period
// @Description Get a budget period and its estimate snapshots
// @Tags        periods
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Period ID"
// @Success     200 {object} models.BudgetPeriod "Period"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Period not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods/{id} [get]
func (h *PeriodHandler) GetPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	bp, err := h.periodService.GetPeriodByID(userID, periodID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"period": bp})
}

// UpdatePeriod handles moving a period to a new start date.
// @Summary     Update period
// @Description Move a period. The end date is derived again from the budget's current cadence; snapshots are kept.
// @Tags        periods
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string        true "Period ID"
// @Param       request body PeriodRequest true "New start date"
// @Success     200 {object} models.BudgetPeriod "Updated period"
// @Failure     400 {object} ErrorResponse "Invalid input or actuals outside new range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Period not accessible"
// @Failure     409 {object} ErrorResponse "Overlaps an existing period"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods/{id} [put]
func (h *PeriodHandler) UpdatePeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	start, err := parseDate("start_date", req.StartDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bp, err := h.periodService.UpdatePeriod(userID, periodID, start)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PERIOD", "budget_period", bp.ID, c.ClientIP(),
		map[string]interface{}{"start_date": req.StartDate})

	c.JSON(http.StatusOK, gin.H{"period": bp})
}

// DeletePeriod handles deleting a period with its snapshots and actuals.
// @Summary     Delete period
// @Description Delete a period together with its snapshots and actuals
// @Tags        periods
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Period ID"
// @Success     200 {object} map[string]string "Period deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Period not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods/{id} [delete]
func (h *PeriodHandler) DeletePeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.periodService.DeletePeriod(userID, periodID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_PERIOD", "budget_period", periodID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget period deleted successfully"})
}

// GetPeriodSummary handles the estimate-vs-actual report of a period.
// @Summary     Period summary
// @Description Compare each snapshot estimate with the actuals recorded against it
// @Tags        periods
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Period ID"
// @Success     200 {object} summary.Period "Period summary"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Period not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods/{id}/summary [get]
func (h *PeriodHandler) GetPeriodSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	periodID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.periodService.GetPeriodSummary(userID, periodID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": report})
}
