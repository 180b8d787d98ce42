package route

import (
	"github.com/dsnakex/Biotech-Dashboard/internal/controller"
	"github.com/dsnakex/Biotech-Dashboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Auth(r *gin.RouterGroup, authController *controller.AuthController, middleware *middleware.Middleware) {
	g := r.Group("/auth")
	{
		g.POST("/register", authController.Register)
		g.POST("/login", authController.Login)
		g.POST("/jwt/refresh", authController.RefreshAccessToken)
		g.GET("/me", middleware.AuthMiddleware, authController.Me)
	}
}
