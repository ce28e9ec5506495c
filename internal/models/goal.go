package models

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apperrors "silvercoin/internal/errors"
)

const GoalNameMaxLength = 255

// Goal is a savings target. It is independent of budgets and periods.
type Goal struct {
	Base
	OwnerID string          `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name    string          `gorm:"size:255;not null" json:"name"`
	Target  decimal.Decimal `gorm:"column:amount;type:decimal(7,2);not null" json:"amount"`
}

// Validate checks the goal's fields.
func (g *Goal) Validate() error {
	fields := map[string]string{}
	if g.OwnerID == "" {
		fields["owner"] = "goal must have an owner"
	}
	switch n := utf8.RuneCountInString(g.Name); {
	case n == 0:
		fields["name"] = "name is required"
	case n > GoalNameMaxLength:
		fields["name"] = "name cannot be greater than 255 characters"
	}
	if msg := validateMoney(g.Target); msg != "" {
		fields["amount"] = msg
	}
	if len(fields) > 0 {
		return apperrors.WithFields(apperrors.ErrInvalidInput, fields)
	}
	return nil
}
