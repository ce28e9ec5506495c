package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/models"
	"silvercoin/internal/pagination"
	"silvercoin/internal/summary"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a budget together with its standing estimates. The
// budget and every estimate are written in one transaction.
func (s *budgetService) CreateBudget(
	ownerID, name, description string,
	periodType models.PeriodType,
	periodLength int,
	estimates []EstimateInput,
) (*models.Budget, error) {
	budget := &models.Budget{
		OwnerID:      ownerID,
		Name:         name,
		Description:  description,
		PeriodType:   periodType,
		PeriodLength: periodLength,
	}
	if err := budget.Validate(); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(budget).Error; err != nil {
			return err
		}

		amounts := make([]models.Amount, 0, len(estimates))
		for _, in := range estimates {
			a := models.NewAmount(models.EstimateOf(budget.ID), in.Name, in.Type, in.Amount)
			if err := a.Validate(); err != nil {
				return err
			}
			amounts = append(amounts, *a)
		}
		if len(amounts) > 0 {
			if err := tx.Create(&amounts).Error; err != nil {
				return err
			}
		}
		budget.Amounts = amounts
		return nil
	})
	if err != nil {
		return nil, dbError(err)
	}

	return budget, nil
}

// GetUserBudgets returns a paginated list of the owner's budgets, newest first.
func (s *budgetService) GetUserBudgets(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	query := s.db.Model(&models.Budget{}).Where("owner_id = ?", ownerID)
	result, err := pagination.Find[models.Budget](query, page, "created_at DESC, id DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetBudgetByID returns a budget with its standing estimates.
func (s *budgetService) GetBudgetByID(ownerID, budgetID string) (*models.Budget, error) {
	budget, err := findOwnedBudget(s.db, ownerID, budgetID, false)
	if err != nil {
		return nil, err
	}
	if budget.Amounts, err = budgetEstimates(s.db, budget.ID); err != nil {
		return nil, err
	}
	return budget, nil
}

// UpdateBudget changes the budget's own fields. A new cadence only affects
// periods created afterwards.
func (s *budgetService) UpdateBudget(ownerID, budgetID string, update BudgetUpdate) (*models.Budget, error) {
	var budget *models.Budget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		budget, err = findOwnedBudget(tx, ownerID, budgetID, true)
		if err != nil {
			return err
		}

		if update.Name != nil {
			budget.Name = *update.Name
		}
		if update.Description != nil {
			budget.Description = *update.Description
		}
		if update.PeriodType != nil {
			budget.PeriodType = *update.PeriodType
		}
		if update.PeriodLength != nil {
			budget.PeriodLength = *update.PeriodLength
		}
		if err := budget.Validate(); err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Save(budget).Error
	})
	if err != nil {
		return nil, dbError(err)
	}

	return budget, nil
}

// DeleteBudget removes a budget and everything under it: periods, their
// snapshots and actuals, and the standing estimates.
func (s *budgetService) DeleteBudget(ownerID, budgetID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		budget, err := findOwnedBudget(tx, ownerID, budgetID, true)
		if err != nil {
			return err
		}

		periodIDs := tx.Model(&models.BudgetPeriod{}).Select("id").Where("budget_id = ?", budget.ID)
		if err := tx.Where("period_id IN (?)", periodIDs).Delete(&models.ActualAmount{}).Error; err != nil {
			return err
		}
		if err := tx.Where("budget_period_id IN (?)", periodIDs).Delete(&models.Amount{}).Error; err != nil {
			return err
		}
		if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.Amount{}).Error; err != nil {
			return err
		}
		if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.BudgetPeriod{}).Error; err != nil {
			return err
		}
		return tx.Delete(budget).Error
	})
	if err != nil {
		return dbError(err)
	}
	return nil
}

// GetBudgetOverview splits the budget's estimates into incomes and expenses
// with each one's share of total income.
func (s *budgetService) GetBudgetOverview(ownerID, budgetID string) (*summary.Budget, error) {
	budget, err := s.GetBudgetByID(ownerID, budgetID)
	if err != nil {
		return nil, err
	}
	return summary.BuildBudget(budget.Amounts), nil
}

// budgetEstimates loads the standing estimates of a budget in creation order.
func budgetEstimates(db *gorm.DB, budgetID string) ([]models.Amount, error) {
	estimates := []models.Amount{}
	if err := db.Where("budget_id = ?", budgetID).Order("created_at ASC, id ASC").Find(&estimates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return estimates, nil
}
