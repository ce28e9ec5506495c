package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/models"
)

// amountService manages the standing estimates of a budget. Period
// snapshots are readable through it but never writable.
type amountService struct {
	db *gorm.DB
}

// NewAmountService creates a new AmountServicer.
func NewAmountService(db *gorm.DB) AmountServicer {
	return &amountService{db: db}
}

// CreateEstimate adds a standing estimate to a budget. Existing periods
// keep their snapshots; the estimate is copied into periods created later.
func (s *amountService) CreateEstimate(ownerID, budgetID string, input EstimateInput) (*models.Amount, error) {
	budget, err := findOwnedBudget(s.db, ownerID, budgetID, false)
	if err != nil {
		return nil, err
	}

	amount := models.NewAmount(models.EstimateOf(budget.ID), input.Name, input.Type, input.Amount)
	if err := amount.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.Create(amount).Error; err != nil {
		return nil, dbError(err)
	}
	return amount, nil
}

// GetBudgetEstimates lists a budget's standing estimates.
func (s *amountService) GetBudgetEstimates(ownerID, budgetID string) ([]models.Amount, error) {
	budget, err := findOwnedBudget(s.db, ownerID, budgetID, false)
	if err != nil {
		return nil, err
	}
	return budgetEstimates(s.db, budget.ID)
}

// GetAmountByID returns an estimate or a period snapshot.
func (s *amountService) GetAmountByID(ownerID, amountID string) (*models.Amount, error) {
	return findOwnedAmount(s.db, ownerID, amountID)
}

// UpdateEstimate changes a standing estimate.
func (s *amountService) UpdateEstimate(ownerID, amountID string, update EstimateUpdate) (*models.Amount, error) {
	amount, err := s.findEstimate(ownerID, amountID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		amount.Name = *update.Name
	}
	if update.Type != nil {
		amount.Type = *update.Type
	}
	if update.Amount != nil {
		amount.Value = *update.Amount
	}
	if err := amount.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.Omit(clause.Associations).Save(amount).Error; err != nil {
		return nil, dbError(err)
	}
	return amount, nil
}

// DeleteEstimate removes a standing estimate. Snapshots already taken from
// it are untouched.
func (s *amountService) DeleteEstimate(ownerID, amountID string) error {
	amount, err := s.findEstimate(ownerID, amountID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(amount).Error; err != nil {
		return dbError(err)
	}
	return nil
}

func (s *amountService) findEstimate(ownerID, amountID string) (*models.Amount, error) {
	amount, err := findOwnedAmount(s.db, ownerID, amountID)
	if err != nil {
		return nil, err
	}
	if !amount.IsEstimate() {
		return nil, apperrors.ErrAmountImmutable
	}
	return amount, nil
}
