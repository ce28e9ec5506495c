package services

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/logger"
	"silvercoin/internal/models"
	"silvercoin/internal/pagination"
	"silvercoin/internal/period"
	"silvercoin/internal/summary"
)

// periodService handles budget periods and their estimate snapshots.
type periodService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPeriodService creates a new PeriodServicer.
func NewPeriodService(db *gorm.DB) PeriodServicer {
	return &periodService{db: db, now: time.Now}
}

// CreatePeriod starts a new period of a budget on startDate. Inside one
// transaction it locks the budget row, derives the end date from the
// budget's cadence, rejects overlaps with the budget's other periods,
// saves the period and snapshots every standing estimate into it. Any
// failure leaves no period and no snapshots behind.
func (s *periodService) CreatePeriod(ownerID, budgetID string, startDate time.Time) (*models.BudgetPeriod, error) {
	var created *models.BudgetPeriod
	err := s.db.Transaction(func(tx *gorm.DB) error {
		budget, err := findOwnedBudget(tx, ownerID, budgetID, true)
		if err != nil {
			return err
		}

		bp := &models.BudgetPeriod{BudgetID: budget.ID}
		if err := bp.Schedule(startDate, budget); err != nil {
			return scheduleError(err)
		}
		if err := checkOverlap(tx, bp); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(bp).Error; err != nil {
			return err
		}

		snapshots, err := snapshotEstimates(tx, budget.ID, bp.ID)
		if err != nil {
			return err
		}
		bp.Amounts = snapshots
		created = bp
		return nil
	})
	if err != nil {
		return nil, dbError(err)
	}

	logger.Get().Infow("budget period created",
		"budget_id", created.BudgetID,
		"period_id", created.ID,
		"start_date", created.StartDate.Format(period.DateLayout),
		"end_date", created.EndDate.Format(period.DateLayout),
		"snapshots", len(created.Amounts),
	)
	created.MarkEnded(s.now())
	return created, nil
}

// GetBudgetPeriods lists a budget's periods, latest start date first.
func (s *periodService) GetBudgetPeriods(ownerID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetPeriod], error) {
	budget, err := findOwnedBudget(s.db, ownerID, budgetID, false)
	if err != nil {
		return nil, err
	}

	query := s.db.Model(&models.BudgetPeriod{}).Where("budget_id = ?", budget.ID)
	result, err := pagination.Find[models.BudgetPeriod](query, page, "start_date DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	today := s.now()
	for i := range result.Data {
		result.Data[i].MarkEnded(today)
	}
	return result, nil
}

// GetPeriodByID returns a period with its snapshots.
func (s *periodService) GetPeriodByID(ownerID, periodID string) (*models.BudgetPeriod, error) {
	bp, err := findOwnedPeriod(s.db, ownerID, periodID)
	if err != nil {
		return nil, err
	}
	if bp.Amounts, err = periodSnapshots(s.db, bp.ID); err != nil {
		return nil, err
	}
	bp.MarkEnded(s.now())
	return bp, nil
}

// GetCurrentPeriod returns the budget's period whose range contains on.
func (s *periodService) GetCurrentPeriod(ownerID, budgetID string, on time.Time) (*models.BudgetPeriod, error) {
	budget, err := findOwnedBudget(s.db, ownerID, budgetID, false)
	if err != nil {
		return nil, err
	}

	var periods []models.BudgetPeriod
	if err := s.db.Where("budget_id = ?", budget.ID).Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range periods {
		bp := &periods[i]
		if !bp.Range().Contains(on) {
			continue
		}
		if bp.Amounts, err = periodSnapshots(s.db, bp.ID); err != nil {
			return nil, err
		}
		bp.MarkEnded(s.now())
		return bp, nil
	}
	return nil, apperrors.ErrNoCurrentPeriod
}

// UpdatePeriod moves a period to a new start date. The end date is derived
// again from the budget's current cadence. Snapshots are kept as they are,
// and the move is rejected if it would leave a recorded actual outside the
// period.
func (s *periodService) UpdatePeriod(ownerID, periodID string, startDate time.Time) (*models.BudgetPeriod, error) {
	var bp *models.BudgetPeriod
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		bp, err = findOwnedPeriod(tx, ownerID, periodID)
		if err != nil {
			return err
		}
		budget, err := findOwnedBudget(tx, ownerID, bp.BudgetID, true)
		if err != nil {
			return err
		}

		if err := bp.Schedule(startDate, budget); err != nil {
			return scheduleError(err)
		}
		if err := checkOverlap(tx, bp); err != nil {
			return err
		}

		var actuals []models.ActualAmount
		if err := tx.Where("period_id = ?", bp.ID).Find(&actuals).Error; err != nil {
			return err
		}
		r := bp.Range()
		for _, a := range actuals {
			if !r.Contains(a.OccurredOn) {
				return apperrors.WithMessage(apperrors.ErrActualOutOfPeriod, fmt.Sprintf(
					"actual amount %q on %s would fall outside %s to %s",
					a.Name, a.OccurredOn.Format(period.DateLayout),
					bp.StartDate.Format(period.DateLayout), bp.EndDate.Format(period.DateLayout)))
			}
		}

		return tx.Omit(clause.Associations).Save(bp).Error
	})
	if err != nil {
		return nil, dbError(err)
	}

	if bp.Amounts, err = periodSnapshots(s.db, bp.ID); err != nil {
		return nil, err
	}
	bp.MarkEnded(s.now())
	return bp, nil
}

// DeletePeriod removes a period with its snapshots and actuals.
func (s *periodService) DeletePeriod(ownerID, periodID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		bp, err := findOwnedPeriod(tx, ownerID, periodID)
		if err != nil {
			return err
		}
		if err := tx.Where("period_id = ?", bp.ID).Delete(&models.ActualAmount{}).Error; err != nil {
			return err
		}
		if err := tx.Where("budget_period_id = ?", bp.ID).Delete(&models.Amount{}).Error; err != nil {
			return err
		}
		return tx.Delete(bp).Error
	})
	if err != nil {
		return dbError(err)
	}
	return nil
}

// GetPeriodSummary compares the period's snapshots with its actuals.
func (s *periodService) GetPeriodSummary(ownerID, periodID string) (*summary.Period, error) {
	bp, err := findOwnedPeriod(s.db, ownerID, periodID)
	if err != nil {
		return nil, err
	}

	estimates, err := periodSnapshots(s.db, bp.ID)
	if err != nil {
		return nil, err
	}
	var actuals []models.ActualAmount
	if err := s.db.Where("period_id = ?", bp.ID).Find(&actuals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report, err := summary.BuildPeriod(estimates, actuals)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return report, nil
}

// checkOverlap rejects bp if it shares a day with another period of the
// same budget. bp itself is skipped when it already has an id.
func checkOverlap(tx *gorm.DB, bp *models.BudgetPeriod) error {
	q := tx.Where("budget_id = ?", bp.BudgetID)
	if bp.ID != "" {
		q = q.Where("id <> ?", bp.ID)
	}

	var siblings []models.BudgetPeriod
	if err := q.Find(&siblings).Error; err != nil {
		return err
	}
	sort.Slice(siblings, func(i, j int) bool {
		return siblings[i].StartDate.Before(siblings[j].StartDate)
	})

	want := bp.Range()
	for _, other := range siblings {
		if want.Overlaps(other.Range()) {
			return apperrors.WithMessage(apperrors.ErrPeriodOverlap, fmt.Sprintf(
				"period %s to %s overlaps existing period %s to %s",
				want.Start.Format(period.DateLayout), want.End.Format(period.DateLayout),
				other.StartDate.Format(period.DateLayout), other.EndDate.Format(period.DateLayout)))
		}
	}
	return nil
}

// snapshotEstimates copies every standing estimate of budgetID into periodID.
func snapshotEstimates(tx *gorm.DB, budgetID, periodID string) ([]models.Amount, error) {
	var estimates []models.Amount
	if err := tx.Where("budget_id = ?", budgetID).Order("created_at ASC, id ASC").Find(&estimates).Error; err != nil {
		return nil, err
	}

	snapshots := make([]models.Amount, 0, len(estimates))
	for i := range estimates {
		snapshots = append(snapshots, estimates[i].Snapshot(periodID))
	}
	if len(snapshots) == 0 {
		return snapshots, nil
	}
	if err := tx.Create(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// periodSnapshots loads the estimate snapshots of a period.
func periodSnapshots(db *gorm.DB, periodID string) ([]models.Amount, error) {
	snapshots := []models.Amount{}
	if err := db.Where("budget_period_id = ?", periodID).Order("created_at ASC, id ASC").Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return snapshots, nil
}
