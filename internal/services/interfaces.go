package services

import (
	"time"

	"github.com/shopspring/decimal"

	"silvercoin/internal/models"
	"silvercoin/internal/pagination"
	"silvercoin/internal/summary"
)

// UserServicer defines the contract for user operations.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// EstimateInput is one income or expense supplied when creating a budget.
type EstimateInput struct {
	Name   string
	Type   models.AmountType
	Amount decimal.Decimal
}

// BudgetUpdate carries the budget fields to change. Nil fields are kept.
type BudgetUpdate struct {
	Name         *string
	Description  *string
	PeriodType   *models.PeriodType
	PeriodLength *int
}

// BudgetServicer defines the contract for budget operations.
type BudgetServicer interface {
	CreateBudget(ownerID, name, description string, periodType models.PeriodType, periodLength int, estimates []EstimateInput) (*models.Budget, error)
	GetUserBudgets(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(ownerID, budgetID string) (*models.Budget, error)
	UpdateBudget(ownerID, budgetID string, update BudgetUpdate) (*models.Budget, error)
	DeleteBudget(ownerID, budgetID string) error
	GetBudgetOverview(ownerID, budgetID string) (*summary.Budget, error)
}

// EstimateUpdate carries the estimate fields to change. Nil fields are kept.
type EstimateUpdate struct {
	Name   *string
	Type   *models.AmountType
	Amount *decimal.Decimal
}

// AmountServicer defines the contract for standing budget estimates.
type AmountServicer interface {
	CreateEstimate(ownerID, budgetID string, input EstimateInput) (*models.Amount, error)
	GetBudgetEstimates(ownerID, budgetID string) ([]models.Amount, error)
	GetAmountByID(ownerID, amountID string) (*models.Amount, error)
	UpdateEstimate(ownerID, amountID string, update EstimateUpdate) (*models.Amount, error)
	DeleteEstimate(ownerID, amountID string) error
}

// PeriodServicer defines the contract for budget period operations.
type PeriodServicer interface {
	CreatePeriod(ownerID, budgetID string, startDate time.Time) (*models.BudgetPeriod, error)
	GetBudgetPeriods(ownerID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.BudgetPeriod], error)
	GetPeriodByID(ownerID, periodID string) (*models.BudgetPeriod, error)
	GetCurrentPeriod(ownerID, budgetID string, on time.Time) (*models.BudgetPeriod, error)
	UpdatePeriod(ownerID, periodID string, startDate time.Time) (*models.BudgetPeriod, error)
	DeletePeriod(ownerID, periodID string) error
	GetPeriodSummary(ownerID, periodID string) (*summary.Period, error)
}

// ActualInput describes a transaction recorded against a period.
type ActualInput struct {
	EstimateID string
	Name       string
	Amount     decimal.Decimal
	OccurredOn time.Time
}

// ActualUpdate carries the actual fields to change. Nil fields are kept.
type ActualUpdate struct {
	EstimateID *string
	Name       *string
	Amount     *decimal.Decimal
	OccurredOn *time.Time
}

// ActualServicer defines the contract for actual amount operations.
type ActualServicer interface {
	RecordActual(ownerID, periodID string, input ActualInput) (*models.ActualAmount, error)
	GetPeriodActuals(ownerID, periodID string, page pagination.PageRequest) (*pagination.PageResponse[models.ActualAmount], error)
	GetActualByID(ownerID, actualID string) (*models.ActualAmount, error)
	UpdateActual(ownerID, actualID string, update ActualUpdate) (*models.ActualAmount, error)
	DeleteActual(ownerID, actualID string) error
}

// GoalServicer defines the contract for savings goal operations.
type GoalServicer interface {
	CreateGoal(ownerID, name string, target decimal.Decimal) (*models.Goal, error)
	GetUserGoals(ownerID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(ownerID, goalID string) (*models.Goal, error)
	UpdateGoal(ownerID, goalID string, name *string, target *decimal.Decimal) (*models.Goal, error)
	DeleteGoal(ownerID, goalID string) error
}

// Dashboard is the landing summary for a user.
type Dashboard struct {
	HasBudget      bool                  `json:"has_budget"`
	BudgetCount    int64                 `json:"budget_count"`
	GoalCount      int64                 `json:"goal_count"`
	CurrentPeriods []models.BudgetPeriod `json:"current_periods"`
}

// DashboardServicer defines the contract for the user dashboard.
type DashboardServicer interface {
	GetDashboard(ownerID string, today time.Time) (*Dashboard, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
