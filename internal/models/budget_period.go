package models

import (
	"encoding/json"
	"time"

	"silvercoin/internal/period"
)

// BudgetPeriod is one recurrence of a Budget. EndDate is derived from the
// budget's cadence and is never set directly by callers.
type BudgetPeriod struct {
	Base
	BudgetID  string    `gorm:"type:uuid;not null;index" json:"budget_id"`
	StartDate time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
	IsEnded   bool      `gorm:"-" json:"is_ended"`

	Amounts []Amount       `gorm:"foreignKey:BudgetPeriodID;constraint:OnDelete:CASCADE" json:"amounts,omitempty"`
	Actuals []ActualAmount `gorm:"foreignKey:PeriodID;constraint:OnDelete:CASCADE" json:"actuals,omitempty"`
}

// Range returns the period's [StartDate, EndDate) interval.
func (p *BudgetPeriod) Range() period.Range {
	return period.Range{Start: period.Day(p.StartDate), End: period.Day(p.EndDate)}
}

// Schedule sets StartDate and the derived EndDate from the budget cadence.
func (p *BudgetPeriod) Schedule(start time.Time, b *Budget) error {
	r, err := period.New(start, b.PeriodType, b.PeriodLength)
	if err != nil {
		return err
	}
	p.StartDate, p.EndDate = r.Start, r.End
	return nil
}

// MarkEnded fills IsEnded relative to today.
func (p *BudgetPeriod) MarkEnded(today time.Time) {
	p.IsEnded = p.Range().Ended(today)
}

// MarshalJSON writes StartDate and EndDate as YYYY-MM-DD.
func (p BudgetPeriod) MarshalJSON() ([]byte, error) {
	type plain BudgetPeriod
	return json.Marshal(struct {
		plain
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}{plain(p), p.StartDate.Format(period.DateLayout), p.EndDate.Format(period.DateLayout)})
}
