package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/models"
	"silvercoin/internal/pagination"
	"silvercoin/internal/services"
	"silvercoin/internal/summary"
)

const testPeriodID = "018f3a4e-7c1a-7b2e-9d4f-00000000fa01"

// --- mock period service ---

type mockPeriodService struct {
	createPeriodFn     func(ownerID, budgetID string, startDate time.Time) (*models.BudgetPeriod, error)
	getBudgetPeriodsFn func(ownerID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetPeriod], error)
	getPeriodByIDFn    func(ownerID, periodID string) (*models.BudgetPeriod, error)
	getCurrentPeriodFn func(ownerID, budgetID string, on time.Time) (*models.BudgetPeriod, error)
	updatePeriodFn     func(ownerID, periodID string, startDate time.Time) (*models.BudgetPeriod, error)
	deletePeriodFn     func(ownerID, periodID string) error
	getPeriodSummaryFn func(ownerID, periodID string) (*summary.Period, error)
}

func (m *mockPeriodService) CreatePeriod(ownerID, budgetID string, startDate time.Time) (*models.BudgetPeriod, error) {
	if m.createPeriodFn != nil {
		return m.createPeriodFn(ownerID, budgetID, startDate)
	}
	return &models.BudgetPeriod{}, nil
}

func (m *mockPeriodService) GetBudgetPeriods(ownerID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetPeriod], error) {
	if m.getBudgetPeriodsFn != nil {
		return m.getBudgetPeriodsFn(ownerID, budgetID, page)
	}
	resp := pagination.NewPageResponse([]models.BudgetPeriod{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockPeriodService) GetPeriodByID(ownerID, periodID string) (*models.BudgetPeriod, error) {
	if m.getPeriodByIDFn != nil {
		return m.getPeriodByIDFn(ownerID, periodID)
	}
	return &models.BudgetPeriod{}, nil
}

func (m *mockPeriodService) GetCurrentPeriod(ownerID, budgetID string, on time.Time) (*models.BudgetPeriod, error) {
	if m.getCurrentPeriodFn != nil {
		return m.getCurrentPeriodFn(ownerID, budgetID, on)
	}
	return &models.BudgetPeriod{}, nil
}

func (m *mockPeriodService) UpdatePeriod(ownerID, periodID string, startDate time.Time) (*models.BudgetPeriod, error) {
	if m.updatePeriodFn != nil {
		return m.updatePeriodFn(ownerID, periodID, startDate)
	}
	return &models.BudgetPeriod{}, nil
}

func (m *mockPeriodService) DeletePeriod(ownerID, periodID string) error {
	if m.deletePeriodFn != nil {
		return m.deletePeriodFn(ownerID, periodID)
	}
	return nil
}

func (m *mockPeriodService) GetPeriodSummary(ownerID, periodID string) (*summary.Period, error) {
	if m.getPeriodSummaryFn != nil {
		return m.getPeriodSummaryFn(ownerID, periodID)
	}
	return &summary.Period{Lines: map[string]*summary.Line{}}, nil
}

var _ services.PeriodServicer = (*mockPeriodService)(nil)

func setupPeriodRouter(handler *PeriodHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/budgets/:id/periods", handler.CreatePeriod)
	auth.GET("/budgets/:id/periods", handler.GetBudgetPeriods)
	auth.GET("/budgets/:id/periods/current", handler.GetCurrentPeriod)
	auth.GET("/periods/:id", handler.GetPeriod)
	auth.PUT("/periods/:id", handler.UpdatePeriod)
	auth.DELETE("/periods/:id", handler.DeletePeriod)
	auth.GET("/periods/:id/summary", handler.GetPeriodSummary)
	return r
}

func TestPeriodHandler_CreatePeriod(t *testing.T) {
	t.Run("returns 201 with derived end date", func(t *testing.T) {
		var gotStart time.Time
		svc := &mockPeriodService{
			createPeriodFn: func(_, budgetID string, startDate time.Time) (*models.BudgetPeriod, error) {
				gotStart = startDate
				return &models.BudgetPeriod{
					Base:      models.Base{ID: testPeriodID},
					BudgetID:  budgetID,
					StartDate: startDate,
					EndDate:   startDate.AddDate(0, 0, 7),
				}, nil
			},
		}
		audit := &mockAuditService{}
		handler := NewPeriodHandler(svc, audit)
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "POST", "/budgets/"+testBudgetID+"/periods", `{"start_date":"2023-07-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if want := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC); !gotStart.Equal(want) {
			t.Errorf("expected start %s, got %s", want, gotStart)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_PERIOD" {
			t.Errorf("expected CREATE_PERIOD audit entry, got %v", audit.entries)
		}
	})

	t.Run("returns 400 on malformed date", func(t *testing.T) {
		handler := NewPeriodHandler(&mockPeriodService{}, &mockAuditService{})
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "POST", "/budgets/"+testBudgetID+"/periods", `{"start_date":"07/01/2023"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 on overlap", func(t *testing.T) {
		svc := &mockPeriodService{
			createPeriodFn: func(_, _ string, _ time.Time) (*models.BudgetPeriod, error) {
				return nil, apperrors.ErrPeriodOverlap
			},
		}
		handler := NewPeriodHandler(svc, &mockAuditService{})
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "POST", "/budgets/"+testBudgetID+"/periods", `{"start_date":"2023-07-07"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PERIOD_OVERLAP")
	})
}

func TestPeriodHandler_GetCurrentPeriod(t *testing.T) {
	t.Run("uses the clock by default", func(t *testing.T) {
		var gotOn time.Time
		svc := &mockPeriodService{
			getCurrentPeriodFn: func(_, _ string, on time.Time) (*models.BudgetPeriod, error) {
				gotOn = on
				return &models.BudgetPeriod{}, nil
			},
		}
		handler := NewPeriodHandler(svc, &mockAuditService{})
		fixed := time.Date(2024, 2, 29, 15, 0, 0, 0, time.UTC)
		handler.now = func() time.Time { return fixed }
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "GET", "/budgets/"+testBudgetID+"/periods/current", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotOn.Equal(fixed) {
			t.Errorf("expected %s, got %s", fixed, gotOn)
		}
	})

	t.Run("honours the date query", func(t *testing.T) {
		var gotOn time.Time
		svc := &mockPeriodService{
			getCurrentPeriodFn: func(_, _ string, on time.Time) (*models.BudgetPeriod, error) {
				gotOn = on
				return &models.BudgetPeriod{}, nil
			},
		}
		handler := NewPeriodHandler(svc, &mockAuditService{})
		r := setupPeriodRouter(handler)

		doRequest(r, "GET", "/budgets/"+testBudgetID+"/periods/current?date=2023-07-03", "")

		if want := time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC); !gotOn.Equal(want) {
			t.Errorf("expected %s, got %s", want, gotOn)
		}
	})

	t.Run("returns 404 when no period covers the day", func(t *testing.T) {
		svc := &mockPeriodService{
			getCurrentPeriodFn: func(_, _ string, _ time.Time) (*models.BudgetPeriod, error) {
				return nil, apperrors.ErrNoCurrentPeriod
			},
		}
		handler := NewPeriodHandler(svc, &mockAuditService{})
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "GET", "/budgets/"+testBudgetID+"/periods/current", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_CURRENT_PERIOD")
	})
}

func TestPeriodHandler_UpdatePeriod(t *testing.T) {
	t.Run("returns 400 when actuals would fall outside", func(t *testing.T) {
		svc := &mockPeriodService{
			updatePeriodFn: func(_, _ string, _ time.Time) (*models.BudgetPeriod, error) {
				return nil, apperrors.ErrActualOutOfPeriod
			},
		}
		handler := NewPeriodHandler(svc, &mockAuditService{})
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "PUT", "/periods/"+testPeriodID, `{"start_date":"2023-08-01"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACTUAL_OUT_OF_PERIOD")
	})
}

func TestPeriodHandler_GetPeriod(t *testing.T) {
	t.Run("returns 403 for a foreign period", func(t *testing.T) {
		svc := &mockPeriodService{
			getPeriodByIDFn: func(_, _ string) (*models.BudgetPeriod, error) {
				return nil, apperrors.ErrPeriodAccessDenied
			},
		}
		handler := NewPeriodHandler(svc, &mockAuditService{})
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "GET", "/periods/"+testPeriodID, "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PERIOD_ACCESS_DENIED")
	})

	t.Run("encodes dates as calendar days", func(t *testing.T) {
		svc := &mockPeriodService{
			getPeriodByIDFn: func(_, periodID string) (*models.BudgetPeriod, error) {
				return &models.BudgetPeriod{
					Base:      models.Base{ID: periodID},
					StartDate: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC),
					EndDate:   time.Date(2023, 7, 8, 0, 0, 0, 0, time.UTC),
					IsEnded:   true,
				}, nil
			},
		}
		handler := NewPeriodHandler(svc, &mockAuditService{})
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "GET", "/periods/"+testPeriodID, "")

		bp := parseJSON(t, rec)["period"].(map[string]interface{})
		if bp["is_ended"] != true {
			t.Errorf("expected is_ended true, got %v", bp["is_ended"])
		}
		if bp["start_date"] != "2023-07-01" || bp["end_date"] != "2023-07-08" {
			t.Errorf("expected 2023-07-01..2023-07-08, got %v..%v", bp["start_date"], bp["end_date"])
		}
	})
}

func TestPeriodHandler_DeletePeriod(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		handler := NewPeriodHandler(&mockPeriodService{}, &mockAuditService{})
		r := setupPeriodRouter(handler)

		rec := doRequest(r, "DELETE", "/periods/"+testPeriodID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
