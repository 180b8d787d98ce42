package controller

import (
	"net/http"
	"strings"

	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/dsnakex/Biotech-Dashboard/internal/repository"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/gin-gonic/gin"
)

type TaskController struct {
	*baseController
}

type taskRequest struct {
	Title       string     `json:"title" binding:"required,strNotEmpty,cmax=255"`
	Assignee    string     `json:"assignee" binding:"cmax=255"`
	Status      string     `json:"status" binding:"omitempty,oneof=todo progress review done"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	StartDate   model.Date `json:"start_date"`
	EndDate     model.Date `json:"end_date"`
	Deadline    model.Date `json:"deadline"`
	Description string     `json:"description"`
}

func (r taskRequest) toModel() *model.Task {
	if r.Status == "" {
		r.Status = constant.TaskStatusTodo
	}
	if r.Priority == "" {
		r.Priority = constant.PriorityMedium
	}

	return &model.Task{
		Title:       strings.TrimSpace(r.Title),
		Assignee:    r.Assignee,
		Status:      r.Status,
		Priority:    r.Priority,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Deadline:    r.Deadline,
		Description: r.Description,
	}
}

func (tc TaskController) List(ctx *gin.Context) {
	tasks, err := tc.app.Repository.Task.List(ctx, nil, repository.TaskFilter{
		Status:   ctx.Query("status"),
		Priority: ctx.Query("priority"),
	})
	if err != nil {
		tc.respondError(ctx, "Failed to list tasks", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"tasks": tasks,
	})
}

func (tc TaskController) Get(ctx *gin.Context) {
	id, ok := tc.paramID(ctx, "taskId")
	if !ok {
		return
	}

	task, err := tc.app.Repository.Task.GetById(ctx, nil, id)
	if err != nil {
		tc.respondError(ctx, "Failed to get task", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"task": task,
	})
}

func (tc TaskController) Create(ctx *gin.Context) {
	user, ok := tc.mustAuthUser(ctx)
	if !ok {
		return
	}

	var body taskRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	task := body.toModel()
	task.CreatedBy = &user.ID
	if err := tc.app.Repository.Task.Create(ctx, nil, task); err != nil {
		tc.respondError(ctx, "Failed to create task", err)
		return
	}
	tc.app.Repository.Dashboard.InvalidateStats()

	util.ResponseCreated(ctx, gin.H{
		"task": task,
	})
}

func (tc TaskController) Update(ctx *gin.Context) {
	id, ok := tc.paramID(ctx, "taskId")
	if !ok {
		return
	}

	var body taskRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	task := body.toModel()
	task.ID = id
	if err := tc.app.Repository.Task.Update(ctx, nil, task); err != nil {
		tc.respondError(ctx, "Failed to update task", err)
		return
	}
	tc.app.Repository.Dashboard.InvalidateStats()

	updated, err := tc.app.Repository.Task.GetById(ctx, nil, id)
	if err != nil {
		tc.respondError(ctx, "Failed to get task", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"task": updated,
	})
}

func (tc TaskController) Delete(ctx *gin.Context) {
	id, ok := tc.paramID(ctx, "taskId")
	if !ok {
		return
	}

	if err := tc.app.Repository.Task.Delete(ctx, nil, id); err != nil {
		tc.respondError(ctx, "Failed to delete task", err)
		return
	}
	tc.app.Repository.Dashboard.InvalidateStats()

	util.ResponseSuccess(ctx, gin.H{
		"message": "Task deleted successfully",
	})
}
