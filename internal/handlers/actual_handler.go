package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"silvercoin/internal/pagination"
	"silvercoin/internal/services"
)

// ActualHandler handles actual amount requests.
type ActualHandler struct {
	actualService services.ActualServicer
	auditService  services.AuditServicer
}

// NewActualHandler creates a new ActualHandler.
func NewActualHandler(actualService services.ActualServicer, auditService services.AuditServicer) *ActualHandler {
	return &ActualHandler{actualService: actualService, auditService: auditService}
}

// CreateActualRequest represents the request payload for recording an actual.
type CreateActualRequest struct {
	EstimateID string          `json:"estimate_id" binding:"required,uuid"`
	Name       string          `json:"name" binding:"required,max=255"`
	Amount     decimal.Decimal `json:"amount" binding:"required,gt=0,money"`
	OccurredOn string          `json:"occurred_on" binding:"required,datetime=2006-01-02"`
}

// UpdateActualRequest represents the request payload for changing an actual.
type UpdateActualRequest struct {
	EstimateID *string          `json:"estimate_id" binding:"omitempty,uuid"`
	Name       *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Amount     *decimal.Decimal `json:"amount" binding:"omitempty,gt=0,money"`
	OccurredOn *string          `json:"occurred_on" binding:"omitempty,datetime=2006-01-02"`
}

// CreateActual handles recording an actual against a period snapshot.
// @Summary     Record actual
// @Description Record a real transaction against one of the period's snapshot estimates
// @Tags        actuals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Period ID"
// @Param       request body CreateActualRequest true "Actual details"
// @Success     201 {object} models.ActualAmount "Actual recorded"
// @Failure     400 {object} ErrorResponse "Invalid input, date outside period or estimate from another period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Period not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods/{id}/actuals [post]
func (h *ActualHandler) CreateActual(c *gin.Context) {
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

	var req CreateActualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	occurredOn, err := parseDate("occurred_on", req.OccurredOn)
	if err != nil {
		respondWithError(c, err)
		return
	}

	actual, err := h.actualService.RecordActual(userID, periodID, services.ActualInput{
		EstimateID: req.EstimateID,
		Name:       req.Name,
		Amount:     req.Amount,
		OccurredOn: occurredOn,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_ACTUAL", "actual_amount", actual.ID, c.ClientIP(),
		map[string]interface{}{"period_id": periodID, "estimate_id": req.EstimateID, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"actual": actual})
}

// GetPeriodActuals handles listing a period's actuals.
// @Summary     List actuals
// @Description Get a paginated list of a period's actuals, most recent first
// @Tags        actuals
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Period ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.ActualAmount] "Paginated actuals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Period not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /periods/{id}/actuals [get]
func (h *ActualHandler) GetPeriodActuals(c *gin.Context) {
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

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.actualService.GetPeriodActuals(userID, periodID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetActual handles retrieving one actual.
// @Summary     Get actual
// @Description Get an actual with the estimate it was recorded against
// @Tags        actuals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Actual ID"
// @Success     200 {object} models.ActualAmount "Actual"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Actual not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /actuals/{id} [get]
func (h *ActualHandler) GetActual(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	actualID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	actual, err := h.actualService.GetActualByID(userID, actualID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"actual": actual})
}

// UpdateActual handles changing an actual.
// @Summary     Update actual
// @Description Change an actual. It stays in its period.
// @Tags        actuals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Actual ID"
// @Param       request body UpdateActualRequest true "Fields to update"
// @Success     200 {object} models.ActualAmount "Updated actual"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Actual not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /actuals/{id} [put]
func (h *ActualHandler) UpdateActual(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	actualID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateActualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	update := services.ActualUpdate{EstimateID: req.EstimateID, Name: req.Name, Amount: req.Amount}
	if req.OccurredOn != nil {
		on, err := parseDate("occurred_on", *req.OccurredOn)
		if err != nil {
			respondWithError(c, err)
			return
		}
		update.OccurredOn = &on
	}

	actual, err := h.actualService.UpdateActual(userID, actualID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_ACTUAL", "actual_amount", actual.ID, c.ClientIP(),
		map[string]interface{}{"estimate_id": actual.EstimateID, "amount": actual.Value})

	c.JSON(http.StatusOK, gin.H{"actual": actual})
}

// DeleteActual handles removing an actual.
// @Summary     Delete actual
// @Description Remove an actual
// @Tags        actuals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Actual ID"
// @Success     200 {object} map[string]string "Actual deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Actual not accessible"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /actuals/{id} [delete]
func (h *ActualHandler) DeleteActual(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	actualID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.actualService.DeleteActual(userID, actualID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_ACTUAL", "actual_amount", actualID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Actual deleted successfully"})
}
