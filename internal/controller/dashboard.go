package controller

import (
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	*baseController
}

func (dc DashboardController) Stats(ctx *gin.Context) {
	stats, err := dc.app.Repository.Dashboard.Stats(ctx, nil)
	if err != nil {
		dc.respondError(ctx, "Failed to get dashboard stats", err)
		return
	}

	util.ResponseSuccess(ctx, stats)
}

func (dc DashboardController) TaskDistribution(ctx *gin.Context) {
	chart, err := dc.app.Repository.Dashboard.TaskDistribution(ctx, nil)
	if err != nil {
		dc.respondError(ctx, "Failed to get task distribution", err)
		return
	}

	util.ResponseSuccess(ctx, chart)
}

func (dc DashboardController) TaskPriority(ctx *gin.Context) {
	chart, err := dc.app.Repository.Dashboard.TaskPriority(ctx, nil)
	if err != nil {
		dc.respondError(ctx, "Failed to get task priority", err)
		return
	}

	util.ResponseSuccess(ctx, chart)
}

func (dc DashboardController) ExperimentsTimeline(ctx *gin.Context) {
	chart, err := dc.app.Repository.Dashboard.ExperimentsTimeline(ctx, nil)
	if err != nil {
		dc.respondError(ctx, "Failed to get experiments timeline", err)
		return
	}

	util.ResponseSuccess(ctx, chart)
}

func (dc DashboardController) TasksGantt(ctx *gin.Context) {
	gantt, err := dc.app.Repository.Dashboard.TasksGantt(ctx, nil)
	if err != nil {
		dc.respondError(ctx, "Failed to get tasks gantt", err)
		return
	}

	util.ResponseSuccess(ctx, gantt)
}
