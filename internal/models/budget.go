package models

import (
	"unicode/utf8"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/period"
)

// PeriodType is the calendar unit a budget recurs in.
type PeriodType = period.Unit

const (
	PeriodTypeDays   = period.Days
	PeriodTypeWeeks  = period.Weeks
	PeriodTypeMonths = period.Months
	PeriodTypeYears  = period.Years
)

const (
	BudgetNameMaxLength        = 25
	BudgetDescriptionMaxLength = 250
	DefaultPeriodType          = PeriodTypeWeeks
	DefaultPeriodLength        = 1
)

// Budget is a named recurring spending plan. Its standing estimates are
// the Amounts linked directly to it; each recurrence is a BudgetPeriod.
type Budget struct {
	Base
	OwnerID      string     `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name         string     `gorm:"size:25;not null" json:"name"`
	Description  string     `gorm:"size:250;not null;default:''" json:"description"`
	PeriodType   PeriodType `gorm:"size:6;not null;default:'weeks'" json:"period_type"`
	PeriodLength int        `gorm:"not null;default:1" json:"period_length"`

	Amounts []Amount       `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"amounts,omitempty"`
	Periods []BudgetPeriod `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"periods,omitempty"`
}

// Validate checks the budget's own fields and returns an INVALID_INPUT
// error listing every offending field.
func (b *Budget) Validate() error {
	fields := map[string]string{}

	if b.OwnerID == "" {
		fields["owner"] = "budget must have an owner"
	}
	switch n := utf8.RuneCountInString(b.Name); {
	case n == 0:
		fields["name"] = "name is required"
	case n > BudgetNameMaxLength:
		fields["name"] = "name cannot be greater than 25 characters"
	}
	if utf8.RuneCountInString(b.Description) > BudgetDescriptionMaxLength {
		fields["description"] = "description cannot be greater than 250 characters"
	}
	if !b.PeriodType.Valid() {
		fields["period_type"] = "period type must be one of days, weeks, months, years"
	}
	if b.PeriodLength < 1 {
		fields["period_length"] = "period length must be greater than zero"
	}

	if len(fields) > 0 {
		return apperrors.WithFields(apperrors.ErrInvalidInput, fields)
	}
	return nil
}
