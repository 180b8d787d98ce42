package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dsnakex/Biotech-Dashboard/internal/auth"
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/mailer"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/dsnakex/Biotech-Dashboard/internal/repository"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/dsnakex/Biotech-Dashboard/pkg/labkit"
	"github.com/gin-gonic/gin"
)

type ResourceController struct {
	*baseController
}

type resourceRequest struct {
	Name         string  `json:"name" binding:"required,strNotEmpty,cmax=255"`
	Category     string  `json:"category" binding:"cmax=100"`
	LotNumber    string  `json:"lot_number" binding:"cmax=100"`
	InitialStock float64 `json:"initial_stock" binding:"gte=0"`
	Unit         string  `json:"unit" binding:"cmax=50"`
}

func (r resourceRequest) toModel() *model.Resource {
	return &model.Resource{
		Name:         strings.TrimSpace(r.Name),
		Category:     r.Category,
		LotNumber:    r.LotNumber,
		InitialStock: r.InitialStock,
		Unit:         r.Unit,
	}
}

func (rc ResourceController) List(ctx *gin.Context) {
	resources, err := rc.app.Repository.Resource.List(ctx, nil, repository.ResourceFilter{
		Category: ctx.Query("category"),
		Status:   ctx.Query("status"),
	})
	if err != nil {
		rc.respondError(ctx, "Failed to list resources", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"resources": resources,
	})
}

func (rc ResourceController) Get(ctx *gin.Context) {
	id, ok := rc.paramID(ctx, "resourceId")
	if !ok {
		return
	}

	resource, err := rc.app.Repository.Resource.GetById(ctx, nil, id)
	if err != nil {
		rc.respondError(ctx, "Failed to get resource", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"resource": resource,
	})
}

func (rc ResourceController) Create(ctx *gin.Context) {
	user, ok := rc.mustAuthUser(ctx)
	if !ok {
		return
	}

	var body resourceRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	resource := body.toModel()
	if err := rc.app.Repository.Resource.Create(ctx, nil, resource, user.ID); err != nil {
		rc.respondError(ctx, "Failed to create resource", err)
		return
	}
	rc.app.Repository.Dashboard.InvalidateStats()

	util.ResponseCreated(ctx, gin.H{
		"resource": resource,
	})
}

func (rc ResourceController) Update(ctx *gin.Context) {
	user, ok := rc.mustAuthUser(ctx)
	if !ok {
		return
	}

	id, ok := rc.paramID(ctx, "resourceId")
	if !ok {
		return
	}

	var body resourceRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	resource := body.toModel()
	resource.ID = id
	updated, err := rc.app.Repository.Resource.Update(ctx, nil, resource, user.ID)
	if err != nil {
		rc.respondError(ctx, "Failed to update resource", err)
		return
	}
	rc.app.Repository.Dashboard.InvalidateStats()

	util.ResponseSuccess(ctx, gin.H{
		"resource": updated,
	})
}

func (rc ResourceController) Delete(ctx *gin.Context) {
	id, ok := rc.paramID(ctx, "resourceId")
	if !ok {
		return
	}

	if err := rc.app.Repository.Resource.Delete(ctx, nil, id); err != nil {
		rc.respondError(ctx, "Failed to delete resource", err)
		return
	}
	rc.app.Repository.Dashboard.InvalidateStats()

	util.ResponseSuccess(ctx, gin.H{
		"message": "Resource deleted successfully",
	})
}

func (rc ResourceController) RecordUsage(ctx *gin.Context) {
	user, ok := rc.mustAuthUser(ctx)
	if !ok {
		return
	}

	id, ok := rc.paramID(ctx, "resourceId")
	if !ok {
		return
	}

	type Request struct {
		QuantityUsed float64 `json:"quantity_used" binding:"required,gt=0"`
		Purpose      string  `json:"purpose"`
	}
	var body Request
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	result, err := rc.app.Repository.Resource.RecordUsage(ctx, nil, id, body.QuantityUsed, body.Purpose, user.ID)
	if err != nil {
		rc.respondError(ctx, "Failed to record usage", err)
		return
	}
	rc.app.Repository.Dashboard.InvalidateStats()

	if result.Alert {
		go rc.sendStockAlert(*result.Resource, *user)
	}

	util.ResponseSuccess(ctx, gin.H{
		"usage":     result.Usage,
		"resource":  result.Resource,
		"new_stock": result.Resource.CurrentStock,
		"status":    result.Resource.Status,
	})
}

// sendStockAlert mails every user whose role receives alerts. It runs after
// the response is written, so it must not use the request context.
func (rc ResourceController) sendStockAlert(resource model.Resource, usedBy auth.JWTPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	recipients, err := rc.app.Repository.User.ListByRoles(ctx, nil, util.RolesWith(constant.AlertReceive))
	if err != nil {
		rc.app.Logger.Errorf("Failed to list alert recipients for resource %d: %v", resource.ID, err)
		return
	}

	for _, recipient := range recipients {
		_, err := rc.app.Mailer.Send(mailer.RESOURCE_ALERT_TEMPLATE, recipient.FullName, recipient.Email, mailer.ResourceAlert{
			Username:     recipient.FullName,
			ResourceID:   resource.ID,
			ResourceName: resource.Name,
			LotNumber:    resource.LotNumber,
			Status:       string(resource.Status),
			CurrentStock: resource.CurrentStock,
			InitialStock: resource.InitialStock,
			Unit:         resource.Unit,
			UsedBy:       usedBy.FullName,
		})
		if errors.Is(err, mailer.ErrDisabled) {
			rc.app.Logger.Debugf("Mailer disabled, skipped stock alert for resource %d", resource.ID)
			return
		}
		if err != nil {
			rc.app.Logger.Errorw("Failed to send stock alert", "resource_id", resource.ID, "to", recipient.Email, "error", err)
		}
	}
}

func (rc ResourceController) UsageHistory(ctx *gin.Context) {
	id, ok := rc.paramID(ctx, "resourceId")
	if !ok {
		return
	}

	usages, err := rc.app.Repository.Resource.UsageHistory(ctx, nil, id)
	if err != nil {
		rc.respondError(ctx, "Failed to get usage history", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"usage_history": usages,
	})
}

func (rc ResourceController) Restock(ctx *gin.Context) {
	user, ok := rc.mustAuthUser(ctx)
	if !ok {
		return
	}

	id, ok := rc.paramID(ctx, "resourceId")
	if !ok {
		return
	}

	type Request struct {
		Quantity  float64 `json:"quantity" binding:"required,gt=0"`
		LotNumber string  `json:"lot_number" binding:"cmax=100"`
	}
	var body Request
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	resource, err := rc.app.Repository.Resource.Restock(ctx, nil, id, body.Quantity, strings.TrimSpace(body.LotNumber), user.ID)
	if err != nil {
		rc.respondError(ctx, "Failed to restock resource", err)
		return
	}
	rc.app.Repository.Dashboard.InvalidateStats()

	util.ResponseSuccess(ctx, gin.H{
		"resource": resource,
	})
}

func (rc ResourceController) ImportCSV(ctx *gin.Context) {
	user, ok := rc.mustAuthUser(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "No file uploaded", util.GenerateErrorMessages(err, "file"), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		rc.respondError(ctx, "Failed to read file", err)
		return
	}
	defer file.Close()

	resources, err := rc.app.Repository.Resource.ImportCSV(ctx, nil, file, user.ID)
	if err != nil {
		rc.respondError(ctx, "Failed to import resources", err)
		return
	}
	rc.app.Repository.Dashboard.InvalidateStats()

	util.ResponseCreated(ctx, gin.H{
		"imported":  len(resources),
		"resources": resources,
	})
}

func labelContent(resource *model.Resource) string {
	return fmt.Sprintf("resource:%d|%s|%s", resource.ID, resource.Name, resource.LotNumber)
}

// Label renders a printable QR code identifying the resource.
func (rc ResourceController) Label(ctx *gin.Context) {
	id, ok := rc.paramID(ctx, "resourceId")
	if !ok {
		return
	}

	size := labkit.DefaultQRCodeSize
	if raw := ctx.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 64 || parsed > 1024 {
			util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(errors.New("size must be between 64 and 1024"), "size"), nil)
			return
		}
		size = parsed
	}

	resource, err := rc.app.Repository.Resource.GetById(ctx, nil, id)
	if err != nil {
		rc.respondError(ctx, "Failed to get resource", err)
		return
	}

	png, err := labkit.GenerateQRCodePNG(labelContent(resource), size)
	if err != nil {
		rc.respondError(ctx, "Failed to generate label", err)
		return
	}

	util.ResponseFile(ctx, "inline", fmt.Sprintf("resource-%d.png", resource.ID), "image/png", png)
}
