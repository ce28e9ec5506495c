package models

import (
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apperrors "silvercoin/internal/errors"
	"silvercoin/internal/period"
)

// AmountType says whether an amount is money coming in or going out.
type AmountType string

const (
	AmountTypeIncome  AmountType = "income"
	AmountTypeExpense AmountType = "expense"
)

// Valid reports whether t is income or expense.
func (t AmountType) Valid() bool {
	return t == AmountTypeIncome || t == AmountTypeExpense
}

const (
	AmountNameMaxLength = 50
	ActualNameMaxLength = 255
)

// AmountScope names what an Amount hangs off.
type AmountScope string

const (
	// ScopeBudget marks a standing estimate on a Budget.
	ScopeBudget AmountScope = "budget"
	// ScopePeriod marks a snapshot owned by a BudgetPeriod.
	ScopePeriod AmountScope = "period"
)

// AmountLink is the single parent of an Amount. Build one with EstimateOf
// or SnapshotOf; the zero value is not a valid link.
type AmountLink struct {
	Scope AmountScope
	ID    string
}

// EstimateOf links an amount to a budget as a standing estimate.
func EstimateOf(budgetID string) AmountLink {
	return AmountLink{Scope: ScopeBudget, ID: budgetID}
}

// SnapshotOf links an amount to a budget period.
func SnapshotOf(periodID string) AmountLink {
	return AmountLink{Scope: ScopePeriod, ID: periodID}
}

// Amount is an estimated income or expense. Exactly one of BudgetID and
// BudgetPeriodID is set; the database enforces the same rule.
type Amount struct {
	Base
	Name           string          `gorm:"size:50;not null" json:"name"`
	Type           AmountType      `gorm:"column:amount_type;size:7;not null" json:"amount_type"`
	Value          decimal.Decimal `gorm:"column:amount;type:decimal(7,2);not null" json:"amount"`
	BudgetID       *string         `gorm:"type:uuid;index;check:chk_amounts_link,(budget_id IS NULL) <> (budget_period_id IS NULL)" json:"budget_id,omitempty"`
	BudgetPeriodID *string         `gorm:"type:uuid;index" json:"budget_period_id,omitempty"`
}

// NewAmount builds an Amount attached to exactly the given parent.
func NewAmount(link AmountLink, name string, amountType AmountType, value decimal.Decimal) *Amount {
	a := &Amount{Name: name, Type: amountType, Value: value}
	a.SetLink(link)
	return a
}

// SetLink points the amount at link, clearing any previous parent.
func (a *Amount) SetLink(link AmountLink) {
	a.BudgetID, a.BudgetPeriodID = nil, nil
	id := link.ID
	switch link.Scope {
	case ScopeBudget:
		a.BudgetID = &id
	case ScopePeriod:
		a.BudgetPeriodID = &id
	}
}

// Link returns the amount's parent, or ErrAmountLinkInvalid when both or
// neither parent reference is set.
func (a *Amount) Link() (AmountLink, error) {
	hasBudget := a.BudgetID != nil && *a.BudgetID != ""
	hasPeriod := a.BudgetPeriodID != nil && *a.BudgetPeriodID != ""

	switch {
	case hasBudget && hasPeriod:
		return AmountLink{}, apperrors.WithMessage(apperrors.ErrAmountLinkInvalid,
			"an amount cannot be linked to both a budget and a budget period")
	case hasBudget:
		return EstimateOf(*a.BudgetID), nil
	case hasPeriod:
		return SnapshotOf(*a.BudgetPeriodID), nil
	default:
		return AmountLink{}, apperrors.WithMessage(apperrors.ErrAmountLinkInvalid,
			"an amount must be linked to either a budget or a budget period")
	}
}

// IsEstimate reports whether the amount is a standing budget estimate.
func (a *Amount) IsEstimate() bool {
	link, err := a.Link()
	return err == nil && link.Scope == ScopeBudget
}

// Snapshot copies name, type and value into a new amount owned by periodID.
func (a *Amount) Snapshot(periodID string) Amount {
	return *NewAmount(SnapshotOf(periodID), a.Name, a.Type, a.Value)
}

// Validate checks the link invariant first, then the individual fields.
func (a *Amount) Validate() error {
	if _, err := a.Link(); err != nil {
		return err
	}

	fields := map[string]string{}
	switch n := utf8.RuneCountInString(a.Name); {
	case n == 0:
		fields["name"] = "name is required"
	case n > AmountNameMaxLength:
		fields["name"] = "name cannot be greater than 50 characters"
	}
	if !a.Type.Valid() {
		fields["amount_type"] = "amount type must be income or expense"
	}
	if msg := validateMoney(a.Value); msg != "" {
		fields["amount"] = msg
	}

	if len(fields) > 0 {
		return apperrors.WithFields(apperrors.ErrInvalidInput, fields)
	}
	return nil
}

// ActualAmount is a real transaction recorded against a period snapshot.
type ActualAmount struct {
	Base
	Name       string          `gorm:"size:255;not null" json:"name"`
	Value      decimal.Decimal `gorm:"column:amount;type:decimal(7,2);not null" json:"amount"`
	OccurredOn time.Time       `gorm:"type:date;not null;index" json:"occurred_on"`
	EstimateID string          `gorm:"type:uuid;not null;index" json:"estimate_id"`
	PeriodID   string          `gorm:"type:uuid;not null;index" json:"period_id"`

	Estimate *Amount `gorm:"foreignKey:EstimateID;constraint:OnDelete:CASCADE" json:"estimate,omitempty"`
}

// Validate checks the actual's fields and that it falls inside period.
func (a *ActualAmount) Validate(bp *BudgetPeriod) error {
	fields := map[string]string{}
	switch n := utf8.RuneCountInString(a.Name); {
	case n == 0:
		fields["name"] = "name is required"
	case n > ActualNameMaxLength:
		fields["name"] = "name cannot be greater than 255 characters"
	}
	if msg := validateMoney(a.Value); msg != "" {
		fields["amount"] = msg
	}
	if a.OccurredOn.IsZero() {
		fields["occurred_on"] = "occurred on is required"
	}
	if len(fields) > 0 {
		return apperrors.WithFields(apperrors.ErrInvalidInput, fields)
	}

	if !bp.Range().Contains(a.OccurredOn) {
		return apperrors.WithMessage(apperrors.ErrActualOutOfPeriod,
			"occurred on must be on or after "+bp.StartDate.Format(period.DateLayout)+
				" and before "+bp.EndDate.Format(period.DateLayout))
	}
	return nil
}

// MarshalJSON writes OccurredOn as YYYY-MM-DD.
func (a ActualAmount) MarshalJSON() ([]byte, error) {
	type plain ActualAmount
	return json.Marshal(struct {
		plain
		OccurredOn string `json:"occurred_on"`
	}{plain(a), a.OccurredOn.Format(period.DateLayout)})
}
