package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/models"
	"silvercoin/internal/pagination"
	"silvercoin/internal/services"
	"silvercoin/internal/summary"
)

const testBudgetID = "018f3a4e-7c1a-7b2e-9d4f-000000000b01"

// --- mock budget service ---

type mockBudgetService struct {
	createBudgetFn      func(ownerID, name, description string, periodType models.PeriodType, periodLength int, estimates []services.EstimateInput) (*models.Budget, error)
	getUserBudgetsFn    func(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	getBudgetByIDFn     func(ownerID, budgetID string) (*models.Budget, error)
	updateBudgetFn      func(ownerID, budgetID string, update services.BudgetUpdate) (*models.Budget, error)
	deleteBudgetFn      func(ownerID, budgetID string) error
	getBudgetOverviewFn func(ownerID, budgetID string) (*summary.Budget, error)
}

func (m *mockBudgetService) CreateBudget(ownerID, name, description string, periodType models.PeriodType, periodLength int, estimates []services.EstimateInput) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(ownerID, name, description, periodType, periodLength, estimates)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetUserBudgets(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	if m.getUserBudgetsFn != nil {
		return m.getUserBudgetsFn(ownerID, page)
	}
	resp := pagination.NewPageResponse([]models.Budget{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockBudgetService) GetBudgetByID(ownerID, budgetID string) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(ownerID, budgetID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) UpdateBudget(ownerID, budgetID string, update services.BudgetUpdate) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(ownerID, budgetID, update)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) DeleteBudget(ownerID, budgetID string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(ownerID, budgetID)
	}
	return nil
}

func (m *mockBudgetService) GetBudgetOverview(ownerID, budgetID string) (*summary.Budget, error) {
	if m.getBudgetOverviewFn != nil {
		return m.getBudgetOverviewFn(ownerID, budgetID)
	}
	return summary.BuildBudget(nil), nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/budgets", handler.CreateBudget)
	auth.GET("/budgets", handler.GetBudgets)
	auth.GET("/budgets/:id", handler.GetBudget)
	auth.PUT("/budgets/:id", handler.UpdateBudget)
	auth.DELETE("/budgets/:id", handler.DeleteBudget)
	auth.GET("/budgets/:id/overview", handler.GetBudgetOverview)
	return r
}

func TestBudgetHandler_CreateBudget(t *testing.T) {
	t.Run("returns 201 with incomes and expenses", func(t *testing.T) {
		var got []services.EstimateInput
		var gotType models.PeriodType
		var gotLength int
		svc := &mockBudgetService{
			createBudgetFn: func(ownerID, name, description string, periodType models.PeriodType, periodLength int, estimates []services.EstimateInput) (*models.Budget, error) {
				got, gotType, gotLength = estimates, periodType, periodLength
				return &models.Budget{
					Base:         models.Base{ID: testBudgetID},
					OwnerID:      ownerID,
					Name:         name,
					PeriodType:   periodType,
					PeriodLength: periodLength,
				}, nil
			},
		}
		audit := &mockAuditService{}
		handler := NewBudgetHandler(svc, audit)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"Household","period_type":"months","period_length":1,
			  "incomes":[{"name":"Salary","amount":"2500.00"}],
			  "expenses":[{"name":"Rent","amount":800},{"name":"Food","amount":"300.50"}]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 estimates, got %d", len(got))
		}
		if got[0].Type != models.AmountTypeIncome || got[1].Type != models.AmountTypeExpense {
			t.Errorf("expected income then expenses, got %s, %s", got[0].Type, got[1].Type)
		}
		if !got[2].Amount.Equal(decimal.RequireFromString("300.50")) {
			t.Errorf("expected 300.50, got %s", got[2].Amount)
		}
		if gotType != models.PeriodTypeMonths || gotLength != 1 {
			t.Errorf("expected months/1, got %s/%d", gotType, gotLength)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_BUDGET" {
			t.Errorf("expected CREATE_BUDGET audit entry, got %v", audit.entries)
		}
	})

	t.Run("defaults cadence to one week", func(t *testing.T) {
		var gotType models.PeriodType
		var gotLength int
		svc := &mockBudgetService{
			createBudgetFn: func(_, _, _ string, periodType models.PeriodType, periodLength int, _ []services.EstimateInput) (*models.Budget, error) {
				gotType, gotLength = periodType, periodLength
				return &models.Budget{Base: models.Base{ID: testBudgetID}}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets", `{"name":"Weekly"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotType != models.PeriodTypeWeeks || gotLength != 1 {
			t.Errorf("expected weeks/1, got %s/%d", gotType, gotLength)
		}
	})

	t.Run("returns 400 with field errors", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets",
			`{"name":"This name is far too long to fit","period_type":"fortnights","expenses":[{"name":"Rent","amount":0}]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "INVALID_INPUT")
		fields := result["error"].(map[string]interface{})["fields"].(map[string]interface{})
		for _, key := range []string{"name", "period_type", "expenses[0].amount"} {
			if _, ok := fields[key]; !ok {
				t.Errorf("expected field error for %q, got %v", key, fields)
			}
		}
	})

	t.Run("returns 400 on zero period length", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets", `{"name":"Zero","period_length":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on three decimal places", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budgets", `{"name":"Cents","incomes":[{"name":"Pay","amount":"10.005"}]}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/budgets", handler.CreateBudget)

		rec := doRequest(r, "POST", "/budgets", `{"name":"Household"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetBudgets(t *testing.T) {
	t.Run("passes pagination through", func(t *testing.T) {
		var captured pagination.PageRequest
		svc := &mockBudgetService{
			getUserBudgetsFn: func(_ string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
				captured = page
				resp := pagination.NewPageResponse([]models.Budget{{Name: "A"}, {Name: "B"}}, page.Page, page.PageSize, 2)
				return &resp, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets?page=2&page_size=5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Page != 2 || captured.PageSize != 5 {
			t.Errorf("expected page 2 size 5, got %d/%d", captured.Page, captured.PageSize)
		}
		data := parseJSON(t, rec)["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("expected 2 budgets, got %d", len(data))
		}
	})

	t.Run("returns 400 on oversized page", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets?page_size=1000", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetBudget(t *testing.T) {
	t.Run("returns 400 on malformed id", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/42", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 403 when not accessible", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetByIDFn: func(_, _ string) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetAccessDenied
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/"+testBudgetID, "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_ACCESS_DENIED")
	})
}

func TestBudgetHandler_UpdateBudget(t *testing.T) {
	t.Run("passes only provided fields", func(t *testing.T) {
		var captured services.BudgetUpdate
		svc := &mockBudgetService{
			updateBudgetFn: func(_, budgetID string, update services.BudgetUpdate) (*models.Budget, error) {
				captured = update
				return &models.Budget{Base: models.Base{ID: budgetID}}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "PUT", "/budgets/"+testBudgetID, `{"period_type":"days","period_length":10}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Name != nil || captured.Description != nil {
			t.Error("name and description should be left unset")
		}
		if captured.PeriodType == nil || *captured.PeriodType != models.PeriodTypeDays {
			t.Errorf("expected period type days, got %v", captured.PeriodType)
		}
		if captured.PeriodLength == nil || *captured.PeriodLength != 10 {
			t.Errorf("expected period length 10, got %v", captured.PeriodLength)
		}
	})

	t.Run("returns 400 on empty name", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "PUT", "/budgets/"+testBudgetID, `{"name":""}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_DeleteBudget(t *testing.T) {
	t.Run("returns 200 and audits", func(t *testing.T) {
		audit := &mockAuditService{}
		handler := NewBudgetHandler(&mockBudgetService{}, audit)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "DELETE", "/budgets/"+testBudgetID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(audit.entries) != 1 || audit.entries[0].resourceID != testBudgetID {
			t.Errorf("expected DELETE_BUDGET audit entry, got %v", audit.entries)
		}
	})
}

func TestBudgetHandler_GetBudgetOverview(t *testing.T) {
	t.Run("returns income percentages", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetOverviewFn: func(_, _ string) (*summary.Budget, error) {
				return summary.BuildBudget([]models.Amount{
					{Name: "Salary", Type: models.AmountTypeIncome, Value: decimal.NewFromInt(2000)},
					{Name: "Rent", Type: models.AmountTypeExpense, Value: decimal.NewFromInt(500)},
				}), nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/"+testBudgetID+"/overview", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		overview := parseJSON(t, rec)["overview"].(map[string]interface{})
		expenses := overview["expenses"].([]interface{})
		rent := expenses[0].(map[string]interface{})
		if rent["income_percentage"] != "25" {
			t.Errorf("expected 25%% of income, got %v", rent["income_percentage"])
		}
	})
}
