package route

import (
	"github.com/dsnakex/Biotech-Dashboard/internal/controller"
	"github.com/dsnakex/Biotech-Dashboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Dashboard(r *gin.RouterGroup, dc *controller.DashboardController, middleware *middleware.Middleware) {
	charts := r.Group("/charts")
	charts.Use(middleware.AuthMiddleware)
	{
		charts.GET("/task-distribution", dc.TaskDistribution)
		charts.GET("/task-priority", dc.TaskPriority)
		charts.GET("/experiments-timeline", dc.ExperimentsTimeline)
		charts.GET("/tasks-gantt", dc.TasksGantt)
	}

	r.GET("/dashboard/stats", middleware.AuthMiddleware, dc.Stats)
}
