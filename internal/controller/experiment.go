package controller

import (
	"net/http"
	"strings"

	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/dsnakex/Biotech-Dashboard/internal/repository"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ExperimentController struct {
	*baseController
}

type experimentRequest struct {
	Title            string              `json:"title" binding:"required,strNotEmpty,cmax=500"`
	ProtocolType     string              `json:"protocol_type" binding:"cmax=255"`
	Assignee         string              `json:"assignee" binding:"cmax=255"`
	Status           string              `json:"status" binding:"omitempty,oneof=progress done review todo"`
	StartDate        model.Date          `json:"start_date"`
	EndDate          model.Date          `json:"end_date"`
	Description      string              `json:"description"`
	Results          string              `json:"results"`
	Priority         string              `json:"priority" binding:"omitempty,oneof=low medium high"`
	Tags             []string            `json:"tags" binding:"omitempty,dive,strNotEmpty,cmax=50"`
	ExperimentNumber string              `json:"experiment_number" binding:"cmax=100"`
	Hypothesis       string              `json:"hypothesis"`
	Objectives       string              `json:"objectives"`
	Observations     string              `json:"observations"`
	Conclusion       string              `json:"conclusion"`
	SuccessStatus    string              `json:"success_status" binding:"cmax=50"`
	NextSteps        string              `json:"next_steps"`
	FilesLink        string              `json:"files_link" binding:"cmax=500"`
	Cost             decimal.NullDecimal `json:"cost"`
	CategoryID       *uint               `json:"category_id" binding:"omitempty,gt=0"`
}

func (r experimentRequest) toModel() *model.Experiment {
	if r.Status == "" {
		r.Status = constant.ExperimentStatusProgress
	}
	if r.Priority == "" {
		r.Priority = constant.PriorityMedium
	}

	return &model.Experiment{
		Title:            strings.TrimSpace(r.Title),
		ProtocolType:     r.ProtocolType,
		Assignee:         r.Assignee,
		Status:           r.Status,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		Description:      r.Description,
		Results:          r.Results,
		Priority:         r.Priority,
		Tags:             r.Tags,
		ExperimentNumber: strings.TrimSpace(r.ExperimentNumber),
		Hypothesis:       r.Hypothesis,
		Objectives:       r.Objectives,
		Observations:     r.Observations,
		Conclusion:       r.Conclusion,
		SuccessStatus:    r.SuccessStatus,
		NextSteps:        r.NextSteps,
		FilesLink:        r.FilesLink,
		Cost:             r.Cost,
		CategoryID:       r.CategoryID,
	}
}

func (ec ExperimentController) List(ctx *gin.Context) {
	categoryID, err := queryID(ctx, "category_id")
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err, "category_id"), nil)
		return
	}

	experiments, err := ec.app.Repository.Experiment.List(ctx, nil, repository.ExperimentFilter{
		Status:     ctx.Query("status"),
		CategoryID: categoryID,
	})
	if err != nil {
		ec.respondError(ctx, "Failed to list experiments", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"experiments": experiments,
	})
}

func (ec ExperimentController) Get(ctx *gin.Context) {
	id, ok := ec.paramID(ctx, "experimentId")
	if !ok {
		return
	}

	experiment, err := ec.app.Repository.Experiment.GetById(ctx, nil, id)
	if err != nil {
		ec.respondError(ctx, "Failed to get experiment", err)
		return
	}

	var fileURL string
	if experiment.FilesLink != "" {
		fileURL, err = ec.app.Repository.Experiment.FileURL(ctx, experiment)
		if err != nil {
			// the experiment is still useful without its attachment
			ec.app.Logger.Warnf("Failed to resolve files link of experiment %d: %v", id, err)
		}
	}

	util.ResponseSuccess(ctx, gin.H{
		"experiment": experiment,
		"file_url":   fileURL,
	})
}

func (ec ExperimentController) Create(ctx *gin.Context) {
	user, ok := ec.mustAuthUser(ctx)
	if !ok {
		return
	}

	var body experimentRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	experiment := body.toModel()
	experiment.CreatedBy = &user.ID
	if err := ec.app.Repository.Experiment.Create(ctx, nil, experiment); err != nil {
		ec.respondError(ctx, "Failed to create experiment", err)
		return
	}
	ec.app.Repository.Dashboard.InvalidateStats()

	util.ResponseCreated(ctx, gin.H{
		"experiment": experiment,
	})
}

func (ec ExperimentController) Update(ctx *gin.Context) {
	id, ok := ec.paramID(ctx, "experimentId")
	if !ok {
		return
	}

	var body experimentRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	experiment := body.toModel()
	experiment.ID = id
	if experiment.ExperimentNumber == "" {
		existing, err := ec.app.Repository.Experiment.GetById(ctx, nil, id)
		if err != nil {
			ec.respondError(ctx, "Failed to get experiment", err)
			return
		}
		experiment.ExperimentNumber = existing.ExperimentNumber
	}

	if err := ec.app.Repository.Experiment.Update(ctx, nil, experiment); err != nil {
		ec.respondError(ctx, "Failed to update experiment", err)
		return
	}
	ec.app.Repository.Dashboard.InvalidateStats()

	updated, err := ec.app.Repository.Experiment.GetById(ctx, nil, id)
	if err != nil {
		ec.respondError(ctx, "Failed to get experiment", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"experiment": updated,
	})
}

func (ec ExperimentController) Delete(ctx *gin.Context) {
	id, ok := ec.paramID(ctx, "experimentId")
	if !ok {
		return
	}

	if err := ec.app.Repository.Experiment.Delete(ctx, nil, id); err != nil {
		ec.respondError(ctx, "Failed to delete experiment", err)
		return
	}
	ec.app.Repository.Dashboard.InvalidateStats()

	util.ResponseSuccess(ctx, gin.H{
		"message": "Experiment deleted successfully",
	})
}

func (ec ExperimentController) UploadFile(ctx *gin.Context) {
	id, ok := ec.paramID(ctx, "experimentId")
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "No file uploaded", util.GenerateErrorMessages(err, "file"), nil)
		return
	}

	experiment, err := ec.app.Repository.Experiment.AttachFile(ctx, nil, id, file)
	if err != nil {
		ec.respondError(ctx, "Failed to upload file", err)
		return
	}

	fileURL, err := ec.app.Repository.Experiment.FileURL(ctx, experiment)
	if err != nil {
		ec.app.Logger.Warnf("Failed to presign files link of experiment %d: %v", id, err)
	}

	util.ResponseSuccess(ctx, gin.H{
		"experiment": experiment,
		"file_url":   fileURL,
	})
}
