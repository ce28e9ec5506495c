package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/models"
	"silvercoin/internal/pagination"
	"silvercoin/internal/period"
)

// actualService records real transactions against period snapshots.
type actualService struct {
	db *gorm.DB
}

// NewActualService creates a new ActualServicer.
func NewActualService(db *gorm.DB) ActualServicer {
	return &actualService{db: db}
}

// RecordActual records a transaction against one of the period's snapshots.
// The date must fall inside the period.
func (s *actualService) RecordActual(ownerID, periodID string, input ActualInput) (*models.ActualAmount, error) {
	bp, err := findOwnedPeriod(s.db, ownerID, periodID)
	if err != nil {
		return nil, err
	}
	estimate, err := periodEstimate(s.db, bp.ID, input.EstimateID)
	if err != nil {
		return nil, err
	}

	actual := &models.ActualAmount{
		Name:       input.Name,
		Value:      input.Amount,
		OccurredOn: dateOnly(input.OccurredOn),
		EstimateID: estimate.ID,
		PeriodID:   bp.ID,
	}
	if err := actual.Validate(bp); err != nil {
		return nil, err
	}
	if err := s.db.Omit(clause.Associations).Create(actual).Error; err != nil {
		return nil, dbError(err)
	}

	actual.Estimate = estimate
	return actual, nil
}

// GetPeriodActuals lists a period's actuals, most recent first.
func (s *actualService) GetPeriodActuals(ownerID, periodID string, page pagination.PageRequest) (*pagination.PageResponse[models.ActualAmount], error) {
	bp, err := findOwnedPeriod(s.db, ownerID, periodID)
	if err != nil {
		return nil, err
	}

	query := s.db.Model(&models.ActualAmount{}).Where("period_id = ?", bp.ID)
	result, err := pagination.Find[models.ActualAmount](query, page, "occurred_on DESC, created_at DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetActualByID returns an actual with its estimate.
func (s *actualService) GetActualByID(ownerID, actualID string) (*models.ActualAmount, error) {
	return findOwnedActual(s.db, ownerID, actualID)
}

// UpdateActual changes an actual. It stays in its period, so a new date
// must still fall inside it and a new estimate must be one of its snapshots.
func (s *actualService) UpdateActual(ownerID, actualID string, update ActualUpdate) (*models.ActualAmount, error) {
	actual, err := findOwnedActual(s.db, ownerID, actualID)
	if err != nil {
		return nil, err
	}
	bp, err := findOwnedPeriod(s.db, ownerID, actual.PeriodID)
	if err != nil {
		return nil, err
	}

	if update.EstimateID != nil && *update.EstimateID != actual.EstimateID {
		estimate, err := periodEstimate(s.db, bp.ID, *update.EstimateID)
		if err != nil {
			return nil, err
		}
		actual.EstimateID = estimate.ID
		actual.Estimate = estimate
	}
	if update.Name != nil {
		actual.Name = *update.Name
	}
	if update.Amount != nil {
		actual.Value = *update.Amount
	}
	if update.OccurredOn != nil {
		actual.OccurredOn = dateOnly(*update.OccurredOn)
	}
	if err := actual.Validate(bp); err != nil {
		return nil, err
	}

	if err := s.db.Omit(clause.Associations).Save(actual).Error; err != nil {
		return nil, dbError(err)
	}
	return actual, nil
}

// DeleteActual removes an actual.
func (s *actualService) DeleteActual(ownerID, actualID string) error {
	actual, err := findOwnedActual(s.db, ownerID, actualID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&models.ActualAmount{}, "id = ?", actual.ID).Error; err != nil {
		return dbError(err)
	}
	return nil
}

// periodEstimate loads the snapshot estimateID of periodID. Standing budget
// estimates and other periods' snapshots are rejected.
func periodEstimate(db *gorm.DB, periodID, estimateID string) (*models.Amount, error) {
	var estimate models.Amount
	err := db.Where("id = ? AND budget_period_id = ?", estimateID, periodID).First(&estimate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEstimateMismatch
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &estimate, nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return period.Day(t)
}
