package api

import (
	"FitTracker/internal/api/middleware"
	"FitTracker/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger
	r.Use(middleware.TraceMiddleware())
	logger.SetupGin(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		userGroup := apiGroup.Group("/analytics/users/:user_id")
		{
			userGroup.GET("/daily", group.AnalyticsHandler.GetDaily)
			userGroup.GET("/daily/range", group.AnalyticsHandler.GetDailyRange)
			userGroup.GET("/workouts", group.AnalyticsHandler.GetWorkoutAnalytics)
			userGroup.GET("/nutrition", group.AnalyticsHandler.GetNutritionAnalytics)
			userGroup.GET("/reports/monthly", group.AnalyticsHandler.GetMonthlyReport)
			userGroup.GET("/enhanced", group.AnalyticsHandler.GetEnhanced)

			userGroup.GET("/goals", group.GoalHandler.ListGoals)
			userGroup.POST("/goals", group.GoalHandler.CreateGoal)
			userGroup.DELETE("/goals/:goal_id", group.GoalHandler.DeleteGoal)
			userGroup.GET("/goals/progress", group.GoalHandler.GetProgress)
		}
	}

	return r
}
