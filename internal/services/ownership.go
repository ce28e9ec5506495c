package services

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/models"
	"silvercoin/internal/period"
)

// Ownership flows from Budget.OwnerID: periods belong to a budget, amounts
// to a budget or a period, actuals to a period. Lookups filter on the
// owner in the same query, so a missing row and a foreign row both come
// back as not found.

// ownedBudgetIDs selects the ids of every budget owned by ownerID.
func ownedBudgetIDs(db *gorm.DB, ownerID string) *gorm.DB {
	return db.Model(&models.Budget{}).Select("id").Where("owner_id = ?", ownerID)
}

// ownedPeriodIDs selects the ids of every period under a budget owned by ownerID.
func ownedPeriodIDs(db *gorm.DB, ownerID string) *gorm.DB {
	return db.Model(&models.BudgetPeriod{}).Select("id").Where("budget_id IN (?)", ownedBudgetIDs(db, ownerID))
}

// findOwnedBudget loads a budget owned by ownerID. With lock set the row is
// selected FOR UPDATE so concurrent writers on the same budget serialize.
func findOwnedBudget(db *gorm.DB, ownerID, budgetID string, lock bool) (*models.Budget, error) {
	q := db.Where("id = ? AND owner_id = ?", budgetID, ownerID)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var budget models.Budget
	if err := q.First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetAccessDenied
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// findOwnedPeriod loads a period whose budget is owned by ownerID.
func findOwnedPeriod(db *gorm.DB, ownerID, periodID string) (*models.BudgetPeriod, error) {
	var bp models.BudgetPeriod
	err := db.Where("id = ? AND budget_id IN (?)", periodID, ownedBudgetIDs(db, ownerID)).First(&bp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPeriodAccessDenied
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &bp, nil
}

// findOwnedAmount loads an estimate or snapshot reachable from ownerID's budgets.
func findOwnedAmount(db *gorm.DB, ownerID, amountID string) (*models.Amount, error) {
	var amount models.Amount
	err := db.Where("id = ?", amountID).
		Where(db.Where("budget_id IN (?)", ownedBudgetIDs(db, ownerID)).
			Or("budget_period_id IN (?)", ownedPeriodIDs(db, ownerID))).
		First(&amount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAmountAccessDenied
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &amount, nil
}

// findOwnedActual loads an actual recorded under one of ownerID's periods.
func findOwnedActual(db *gorm.DB, ownerID, actualID string) (*models.ActualAmount, error) {
	var actual models.ActualAmount
	err := db.Preload("Estimate").
		Where("id = ? AND period_id IN (?)", actualID, ownedPeriodIDs(db, ownerID)).
		First(&actual).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrActualAccessDenied
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &actual, nil
}

// scheduleError maps period arithmetic errors onto API errors.
func scheduleError(err error) error {
	switch {
	case errors.Is(err, period.ErrInvalidLength):
		return apperrors.ErrInvalidPeriodLength
	case errors.Is(err, period.ErrInvalidUnit):
		return apperrors.ErrInvalidPeriodType
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// dbError translates constraint violations raised by the database into
// API errors. Anything unrecognised is an internal error.
func dbError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23P01":
			return apperrors.Wrap(apperrors.ErrPeriodOverlap, err)
		case "23514":
			if pgErr.ConstraintName == "chk_amounts_link" {
				return apperrors.Wrap(apperrors.ErrAmountLinkInvalid, err)
			}
			return apperrors.Wrap(apperrors.ErrInvalidInput, err)
		case "23503":
			return apperrors.Wrap(apperrors.ErrInvalidInput, err)
		}
	}

	// SQLite reports constraint names only in the message.
	if strings.Contains(err.Error(), "chk_amounts_link") {
		return apperrors.Wrap(apperrors.ErrAmountLinkInvalid, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
