package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/models"
	"silvercoin/internal/pagination"
	"silvercoin/internal/services"
)

const (
	testActualID   = "018f3a4e-7c1a-7b2e-9d4f-00000000ac01"
	testEstimateID = "018f3a4e-7c1a-7b2e-9d4f-00000000e501"
)

// --- mock actual service ---

type mockActualService struct {
	recordActualFn     func(ownerID, periodID string, input services.ActualInput) (*models.ActualAmount, error)
	getPeriodActualsFn func(ownerID, periodID string, page pagination.PageRequest) (*pagination.PageResponse[models.ActualAmount], error)
	getActualByIDFn    func(ownerID, actualID string) (*models.ActualAmount, error)
	updateActualFn     func(ownerID, actualID string, update services.ActualUpdate) (*models.ActualAmount, error)
	deleteActualFn     func(ownerID, actualID string) error
}

func (m *mockActualService) RecordActual(ownerID, periodID string, input services.ActualInput) (*models.ActualAmount, error) {
	if m.recordActualFn != nil {
		return m.recordActualFn(ownerID, periodID, input)
	}
	return &models.ActualAmount{}, nil
}

func (m *mockActualService) GetPeriodActuals(ownerID, periodID string, page pagination.PageRequest) (*pagination.PageResponse[models.ActualAmount], error) {
	if m.getPeriodActualsFn != nil {
		return m.getPeriodActualsFn(ownerID, periodID, page)
	}
	resp := pagination.NewPageResponse([]models.ActualAmount{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockActualService) GetActualByID(ownerID, actualID string) (*models.ActualAmount, error) {
	if m.getActualByIDFn != nil {
		return m.getActualByIDFn(ownerID, actualID)
	}
	return &models.ActualAmount{}, nil
}

func (m *mockActualService) UpdateActual(ownerID, actualID string, update services.ActualUpdate) (*models.ActualAmount, error) {
	if m.updateActualFn != nil {
		return m.updateActualFn(ownerID, actualID, update)
	}
	return &models.ActualAmount{}, nil
}

func (m *mockActualService) DeleteActual(ownerID, actualID string) error {
	if m.deleteActualFn != nil {
		return m.deleteActualFn(ownerID, actualID)
	}
	return nil
}

var _ services.ActualServicer = (*mockActualService)(nil)

func setupActualRouter(handler *ActualHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/periods/:id/actuals", handler.CreateActual)
	auth.GET("/periods/:id/actuals", handler.GetPeriodActuals)
	auth.GET("/actuals/:id", handler.GetActual)
	auth.PUT("/actuals/:id", handler.UpdateActual)
	auth.DELETE("/actuals/:id", handler.DeleteActual)
	return r
}

func TestActualHandler_CreateActual(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.ActualInput
		svc := &mockActualService{
			recordActualFn: func(_, periodID string, input services.ActualInput) (*models.ActualAmount, error) {
				got = input
				return &models.ActualAmount{
					Base:       models.Base{ID: testActualID},
					Name:       input.Name,
					Value:      input.Amount,
					OccurredOn: input.OccurredOn,
					EstimateID: input.EstimateID,
					PeriodID:   periodID,
				}, nil
			},
		}
		handler := NewActualHandler(svc, &mockAuditService{})
		r := setupActualRouter(handler)

		rec := doRequest(r, "POST", "/periods/"+testPeriodID+"/actuals",
			`{"estimate_id":"`+testEstimateID+`","name":"Groceries","amount":"42.10","occurred_on":"2023-07-03"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Amount.Equal(decimal.RequireFromString("42.10")) {
			t.Errorf("expected 42.10, got %s", got.Amount)
		}
		if want := time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC); !got.OccurredOn.Equal(want) {
			t.Errorf("expected %s, got %s", want, got.OccurredOn)
		}
		actual := parseJSON(t, rec)["actual"].(map[string]interface{})
		if actual["occurred_on"] != "2023-07-03" {
			t.Errorf("expected occurred_on 2023-07-03, got %v", actual["occurred_on"])
		}
	})

	t.Run("returns 400 without estimate", func(t *testing.T) {
		handler := NewActualHandler(&mockActualService{}, &mockAuditService{})
		r := setupActualRouter(handler)

		rec := doRequest(r, "POST", "/periods/"+testPeriodID+"/actuals",
			`{"name":"Groceries","amount":"42.10","occurred_on":"2023-07-03"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 when date is outside the period", func(t *testing.T) {
		svc := &mockActualService{
			recordActualFn: func(_, _ string, _ services.ActualInput) (*models.ActualAmount, error) {
				return nil, apperrors.ErrActualOutOfPeriod
			},
		}
		handler := NewActualHandler(svc, &mockAuditService{})
		r := setupActualRouter(handler)

		rec := doRequest(r, "POST", "/periods/"+testPeriodID+"/actuals",
			`{"estimate_id":"`+testEstimateID+`","name":"Late","amount":"5","occurred_on":"2023-07-08"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACTUAL_OUT_OF_PERIOD")
	})
}

func TestActualHandler_UpdateActual(t *testing.T) {
	t.Run("parses a new date", func(t *testing.T) {
		var got services.ActualUpdate
		svc := &mockActualService{
			updateActualFn: func(_, actualID string, update services.ActualUpdate) (*models.ActualAmount, error) {
				got = update
				return &models.ActualAmount{Base: models.Base{ID: actualID}}, nil
			},
		}
		handler := NewActualHandler(svc, &mockAuditService{})
		r := setupActualRouter(handler)

		rec := doRequest(r, "PUT", "/actuals/"+testActualID, `{"occurred_on":"2023-07-05"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.OccurredOn == nil || got.OccurredOn.Day() != 5 {
			t.Errorf("expected occurred on the 5th, got %v", got.OccurredOn)
		}
		if got.Name != nil || got.Amount != nil || got.EstimateID != nil {
			t.Error("unsent fields should stay nil")
		}
	})
}

func TestActualHandler_DeleteActual(t *testing.T) {
	t.Run("returns 403 for a foreign actual", func(t *testing.T) {
		svc := &mockActualService{
			deleteActualFn: func(_, _ string) error { return apperrors.ErrActualAccessDenied },
		}
		handler := NewActualHandler(svc, &mockAuditService{})
		r := setupActualRouter(handler)

		rec := doRequest(r, "DELETE", "/actuals/"+testActualID, "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACTUAL_ACCESS_DENIED")
	})
}
