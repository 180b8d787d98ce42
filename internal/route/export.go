package route

import (
	"github.com/dsnakex/Biotech-Dashboard/internal/controller"
	"github.com/dsnakex/Biotech-Dashboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Export(r *gin.RouterGroup, ec *controller.ExportController, middleware *middleware.Middleware) {
	g := r.Group("/export")
	g.Use(middleware.AuthMiddleware)
	{
		g.GET("/tasks/csv", ec.Tasks)
		g.GET("/experiments/csv", ec.Experiments)
	}
}
