// Package summary aggregates amounts into estimate-vs-actual reports and
// budget overviews. All arithmetic is fixed-point.
package summary

import (
	"fmt"

	"github.com/shopspring/decimal"

	"silvercoin/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Line is one named row of a period report. Amounts sharing a name are
// merged into the same line.
type Line struct {
	Name       string            `json:"name"`
	Type       models.AmountType `json:"amount_type"`
	Estimate   decimal.Decimal   `json:"estimate"`
	Actual     decimal.Decimal   `json:"actual"`
	Difference decimal.Decimal   `json:"difference"`
}

// Totals sums a report by amount type.
type Totals struct {
	EstimatedIncome  decimal.Decimal `json:"estimated_income"`
	EstimatedExpense decimal.Decimal `json:"estimated_expense"`
	ActualIncome     decimal.Decimal `json:"actual_income"`
	ActualExpense    decimal.Decimal `json:"actual_expense"`
}

// Period is the estimate-vs-actual report of one budget period.
type Period struct {
	Lines  map[string]*Line `json:"lines"`
	Totals Totals           `json:"totals"`
}

// BuildPeriod seeds one line per estimate name with a zero actual, then adds
// every actual to the line named after the estimate it actualizes. Each
// actual's estimate is taken from its preloaded Estimate or, failing that,
// looked up among estimates by id.
func BuildPeriod(estimates []models.Amount, actuals []models.ActualAmount) (*Period, error) {
	report := &Period{Lines: make(map[string]*Line, len(estimates))}
	byID := make(map[string]*models.Amount, len(estimates))

	for i := range estimates {
		e := &estimates[i]
		byID[e.ID] = e

		line := report.line(e)
		line.Estimate = line.Estimate.Add(e.Value)
		report.Totals.addEstimate(e.Type, e.Value)
	}

	for i := range actuals {
		a := &actuals[i]
		e := a.Estimate
		if e == nil {
			e = byID[a.EstimateID]
		}
		if e == nil {
			return nil, fmt.Errorf("actual amount %s references unknown estimate %s", a.ID, a.EstimateID)
		}

		line := report.line(e)
		line.Actual = line.Actual.Add(a.Value)
		report.Totals.addActual(e.Type, a.Value)
	}

	for _, line := range report.Lines {
		line.Difference = line.Estimate.Sub(line.Actual)
	}
	return report, nil
}

func (p *Period) line(e *models.Amount) *Line {
	line, ok := p.Lines[e.Name]
	if !ok {
		line = &Line{Name: e.Name, Type: e.Type}
		p.Lines[e.Name] = line
	}
	return line
}

func (t *Totals) addEstimate(typ models.AmountType, v decimal.Decimal) {
	if typ == models.AmountTypeIncome {
		t.EstimatedIncome = t.EstimatedIncome.Add(v)
	} else {
		t.EstimatedExpense = t.EstimatedExpense.Add(v)
	}
}

func (t *Totals) addActual(typ models.AmountType, v decimal.Decimal) {
	if typ == models.AmountTypeIncome {
		t.ActualIncome = t.ActualIncome.Add(v)
	} else {
		t.ActualExpense = t.ActualExpense.Add(v)
	}
}

// Share is an amount with its percentage of total income.
type Share struct {
	models.Amount
	IncomePercentage decimal.Decimal `json:"income_percentage"`
}

// Budget lists a budget's standing estimates split by type.
type Budget struct {
	Incomes      []Share         `json:"incomes"`
	Expenses     []Share         `json:"expenses"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
}

// BuildBudget splits amounts into incomes and expenses and gives each its
// share of total income, rounded to 2 decimal places. Shares are zero when
// there is no income.
func BuildBudget(amounts []models.Amount) *Budget {
	overview := &Budget{Incomes: []Share{}, Expenses: []Share{}}

	for _, a := range amounts {
		if a.Type == models.AmountTypeIncome {
			overview.TotalIncome = overview.TotalIncome.Add(a.Value)
		} else {
			overview.TotalExpense = overview.TotalExpense.Add(a.Value)
		}
	}
	overview.Net = overview.TotalIncome.Sub(overview.TotalExpense)

	for _, a := range amounts {
		share := Share{Amount: a, IncomePercentage: percentOf(a.Value, overview.TotalIncome)}
		if a.Type == models.AmountTypeIncome {
			overview.Incomes = append(overview.Incomes, share)
		} else {
			overview.Expenses = append(overview.Expenses, share)
		}
	}
	return overview
}

func percentOf(v, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return v.Div(total).Mul(hundred).Round(2)
}
