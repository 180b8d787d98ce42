package route

import (
	"github.com/dsnakex/Biotech-Dashboard/internal/controller"
	"github.com/dsnakex/Biotech-Dashboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Comments(r *gin.RouterGroup, cc *controller.CommentController, middleware *middleware.Middleware) {
	g := r.Group("/comments")
	g.Use(middleware.AuthMiddleware)
	{
		g.GET("", cc.List)
		g.POST("", cc.Create)
		g.PUT("/:commentId", cc.Update)
		g.DELETE("/:commentId", cc.Delete)
	}
}
