// Package server wires services and handlers into the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "silvercoin/internal/docs" // swagger docs
	"silvercoin/internal/handlers"
	"silvercoin/internal/middleware"
	"silvercoin/internal/services"
	"silvercoin/internal/validator"
)

// NewRouter builds the full API on top of db.
func NewRouter(db *gorm.DB) *gin.Engine {
	validator.Register()

	// Services
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db)
	amountService := services.NewAmountService(db)
	periodService := services.NewPeriodService(db)
	actualService := services.NewActualService(db)
	goalService := services.NewGoalService(db)
	dashboardService := services.NewDashboardService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	amountHandler := handlers.NewAmountHandler(amountService, auditService)
	periodHandler := handlers.NewPeriodHandler(periodService, auditService)
	actualHandler := handlers.NewActualHandler(actualService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/dashboard", dashboardHandler.GetDashboard)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/overview", budgetHandler.GetBudgetOverview)
	budgets.POST("/:id/amounts", amountHandler.CreateAmount)
	budgets.GET("/:id/amounts", amountHandler.GetBudgetAmounts)
	budgets.POST("/:id/periods", periodHandler.CreatePeriod)
	budgets.GET("/:id/periods", periodHandler.GetBudgetPeriods)
	budgets.GET("/:id/periods/current", periodHandler.GetCurrentPeriod)

	amounts := protected.Group("/amounts")
	amounts.GET("/:id", amountHandler.GetAmount)
	amounts.PUT("/:id", amountHandler.UpdateAmount)
	amounts.DELETE("/:id", amountHandler.DeleteAmount)

	periods := protected.Group("/periods")
	periods.GET("/:id", periodHandler.GetPeriod)
	periods.PUT("/:id", periodHandler.UpdatePeriod)
	periods.DELETE("/:id", periodHandler.DeletePeriod)
	periods.GET("/:id/summary", periodHandler.GetPeriodSummary)
	periods.POST("/:id/actuals", actualHandler.CreateActual)
	periods.GET("/:id/actuals", actualHandler.GetPeriodActuals)

	actuals := protected.Group("/actuals")
	actuals.GET("/:id", actualHandler.GetActual)
	actuals.PUT("/:id", actualHandler.UpdateActual)
	actuals.DELETE("/:id", actualHandler.DeleteActual)

	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
