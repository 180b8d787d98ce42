package controller

import (
	"net/http"

	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/gin-gonic/gin"
)

type IndexController struct {
	*baseController
}

func (ic IndexController) Index(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Biotech Dashboard API with Authentication",
		"version": constant.APP_VERSION,
		"status":  "running",
		"features": []string{
			"JWT Auth",
			"Charts API",
			"CSV Export",
			"Project Hierarchy",
			"Comments",
			"Resource Tracking",
		},
	})
}
