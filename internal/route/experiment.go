package route

import (
	"github.com/dsnakex/Biotech-Dashboard/internal/controller"
	"github.com/dsnakex/Biotech-Dashboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Experiments(r *gin.RouterGroup, ec *controller.ExperimentController, middleware *middleware.Middleware) {
	g := r.Group("/experiments")
	g.Use(middleware.AuthMiddleware)
	{
		g.GET("", ec.List)
		g.POST("", ec.Create)
		g.GET("/:experimentId", ec.Get)
		g.PUT("/:experimentId", ec.Update)
		g.DELETE("/:experimentId", ec.Delete)
		g.POST("/:experimentId/files", ec.UploadFile)
	}
}
