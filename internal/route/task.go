package route

import (
	"github.com/dsnakex/Biotech-Dashboard/internal/controller"
	"github.com/dsnakex/Biotech-Dashboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Tasks(r *gin.RouterGroup, tc *controller.TaskController, middleware *middleware.Middleware) {
	g := r.Group("/tasks")
	g.Use(middleware.AuthMiddleware)
	{
		g.GET("", tc.List)
		g.POST("", tc.Create)
		g.GET("/:taskId", tc.Get)
		g.PUT("/:taskId", tc.Update)
		g.DELETE("/:taskId", tc.Delete)
	}
}
