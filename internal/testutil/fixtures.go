package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"silvercoin/internal/models"
	"silvercoin/internal/period"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Money parses a decimal literal and fails the test if it is malformed.
func Money(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad money literal %q: %v", s, err)
	}
	return d
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates a weekly budget with no estimates.
func CreateTestBudget(t *testing.T, db *gorm.DB, ownerID string) *models.Budget {
	t.Helper()
	return CreateTestBudgetWithCadence(t, db, ownerID, models.PeriodTypeWeeks, 1)
}

// CreateTestBudgetWithCadence creates a budget recurring every length units.
func CreateTestBudgetWithCadence(t *testing.T, db *gorm.DB, ownerID string, unit models.PeriodType, length int) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		OwnerID:      ownerID,
		Name:         fmt.Sprintf("Budget %d", nextID()),
		PeriodType:   unit,
		PeriodLength: length,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestEstimate adds a standing estimate to a budget.
func CreateTestEstimate(t *testing.T, db *gorm.DB, budgetID, name string, amountType models.AmountType, value string) *models.Amount {
	t.Helper()

	amount := models.NewAmount(models.EstimateOf(budgetID), name, amountType, Money(t, value))
	if err := db.Create(amount).Error; err != nil {
		t.Fatalf("failed to create test estimate: %v", err)
	}
	return amount
}

// CreateTestPeriod inserts a period directly, bypassing overlap checks and
// snapshotting. The end date follows the budget's cadence.
func CreateTestPeriod(t *testing.T, db *gorm.DB, budget *models.Budget, start time.Time) *models.BudgetPeriod {
	t.Helper()

	r, err := period.New(start, budget.PeriodType, budget.PeriodLength)
	if err != nil {
		t.Fatalf("failed to schedule test period: %v", err)
	}
	bp := &models.BudgetPeriod{BudgetID: budget.ID, StartDate: r.Start, EndDate: r.End}
	if err := db.Create(bp).Error; err != nil {
		t.Fatalf("failed to create test period: %v", err)
	}
	return bp
}

// CreateTestSnapshot adds an estimate snapshot to a period.
func CreateTestSnapshot(t *testing.T, db *gorm.DB, periodID, name string, amountType models.AmountType, value string) *models.Amount {
	t.Helper()

	amount := models.NewAmount(models.SnapshotOf(periodID), name, amountType, Money(t, value))
	if err := db.Create(amount).Error; err != nil {
		t.Fatalf("failed to create test snapshot: %v", err)
	}
	return amount
}

// CreateTestActual records an actual against a snapshot of a period.
func CreateTestActual(t *testing.T, db *gorm.DB, bp *models.BudgetPeriod, estimate *models.Amount, value string, on time.Time) *models.ActualAmount {
	t.Helper()

	actual := &models.ActualAmount{
		Name:       fmt.Sprintf("Actual %d", nextID()),
		Value:      Money(t, value),
		OccurredOn: on,
		EstimateID: estimate.ID,
		PeriodID:   bp.ID,
	}
	if err := db.Omit("Estimate").Create(actual).Error; err != nil {
		t.Fatalf("failed to create test actual: %v", err)
	}
	return actual
}

// CreateTestGoal creates a savings goal.
func CreateTestGoal(t *testing.T, db *gorm.DB, ownerID string) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		OwnerID: ownerID,
		Name:    fmt.Sprintf("Goal %d", nextID()),
		Target:  decimal.NewFromInt(1000),
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}
