package route

import (
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/controller"
	"github.com/dsnakex/Biotech-Dashboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Resources(r *gin.RouterGroup, rc *controller.ResourceController, middleware *middleware.Middleware) {
	g := r.Group("/resources")
	g.Use(middleware.AuthMiddleware)
	{
		g.GET("", rc.List)
		g.POST("", rc.Create)
		g.POST("/import", rc.ImportCSV)
		g.GET("/:resourceId", rc.Get)
		g.PUT("/:resourceId", rc.Update)
		g.DELETE("/:resourceId", middleware.RequirePermission(constant.ResourceDelete), rc.Delete)
		g.POST("/:resourceId/usage", rc.RecordUsage)
		g.GET("/:resourceId/usage", rc.UsageHistory)
		g.POST("/:resourceId/restock", rc.Restock)
		g.GET("/:resourceId/label", rc.Label)
	}
}
