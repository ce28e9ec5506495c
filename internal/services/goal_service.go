package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/models"
	"silvercoin/internal/pagination"
)

// goalService handles savings goals.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a savings goal.
func (s *goalService) CreateGoal(ownerID, name string, target decimal.Decimal) (*models.Goal, error) {
	goal := &models.Goal{OwnerID: ownerID, Name: name, Target: target}
	if err := goal.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.Create(goal).Error; err != nil {
		return nil, dbError(err)
	}
	return goal, nil
}

// GetUserGoals returns a paginated list of the owner's goals.
func (s *goalService) GetUserGoals(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	query := s.db.Model(&models.Goal{}).Where("owner_id = ?", ownerID)
	result, err := pagination.Find[models.Goal](query, page, "created_at DESC, id DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetGoalByID returns a goal if it belongs to the owner.
func (s *goalService) GetGoalByID(ownerID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND owner_id = ?", goalID, ownerID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalAccessDenied
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal changes a goal's name or target.
func (s *goalService) UpdateGoal(ownerID, goalID string, name *string, target *decimal.Decimal) (*models.Goal, error) {
	goal, err := s.GetGoalByID(ownerID, goalID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		goal.Name = *name
	}
	if target != nil {
		goal.Target = *target
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}

	if err := s.db.Save(goal).Error; err != nil {
		return nil, dbError(err)
	}
	return goal, nil
}

// DeleteGoal removes a goal.
func (s *goalService) DeleteGoal(ownerID, goalID string) error {
	goal, err := s.GetGoalByID(ownerID, goalID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(goal).Error; err != nil {
		return dbError(err)
	}
	return nil
}
