package services

import (
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/models"
)

// dashboardService builds the landing summary for a user.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

// GetDashboard counts the user's budgets and goals and lists the periods,
// across all budgets, that contain today.
func (s *dashboardService) GetDashboard(ownerID string, today time.Time) (*Dashboard, error) {
	dash := &Dashboard{CurrentPeriods: []models.BudgetPeriod{}}

	if err := s.db.Model(&models.Budget{}).Where("owner_id = ?", ownerID).Count(&dash.BudgetCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Goal{}).Where("owner_id = ?", ownerID).Count(&dash.GoalCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	dash.HasBudget = dash.BudgetCount > 0
	if !dash.HasBudget {
		return dash, nil
	}

	var periods []models.BudgetPeriod
	if err := s.db.Where("budget_id IN (?)", ownedBudgetIDs(s.db, ownerID)).Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, bp := range periods {
		if bp.Range().Contains(today) {
			bp.MarkEnded(today)
			dash.CurrentPeriods = append(dash.CurrentPeriods, bp)
		}
	}
	sort.Slice(dash.CurrentPeriods, func(i, j int) bool {
		return dash.CurrentPeriods[i].StartDate.Before(dash.CurrentPeriods[j].StartDate)
	})
	return dash, nil
}
