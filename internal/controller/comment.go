package controller

import (
	"net/http"
	"strings"

	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/gin-gonic/gin"
)

type CommentController struct {
	*baseController
}

func (cc CommentController) List(ctx *gin.Context) {
	type Request struct {
		EntityType constant.CommentEntityType `form:"entity_type" binding:"required,entitytype"`
		EntityID   uint                       `form:"entity_id" binding:"required,gt=0"`
		Page       uint                       `form:"page"`
		PageSize   uint                       `form:"page_size" binding:"lte=100"`
	}
	var query Request

	if err := ctx.ShouldBindQuery(&query); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	page, err := cc.app.Repository.Comment.ListByEntity(ctx, nil, query.EntityType, query.EntityID, query.Page, query.PageSize)
	if err != nil {
		cc.respondError(ctx, "Failed to list comments", err)
		return
	}

	util.ResponseSuccess(ctx, page)
}

func (cc CommentController) Create(ctx *gin.Context) {
	user, ok := cc.mustAuthUser(ctx)
	if !ok {
		return
	}

	type Request struct {
		EntityType constant.CommentEntityType `json:"entity_type" binding:"required,entitytype"`
		EntityID   uint                       `json:"entity_id" binding:"required,gt=0"`
		Content    string                     `json:"content" binding:"required,strNotEmpty,cmax=5000"`
	}
	var body Request

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	comment, err := cc.app.Repository.Comment.Create(ctx, nil, body.EntityType, body.EntityID, user.ID, strings.TrimSpace(body.Content))
	if err != nil {
		cc.respondError(ctx, "Failed to create comment", err)
		return
	}

	util.ResponseCreated(ctx, gin.H{
		"comment": comment,
	})
}

func (cc CommentController) Update(ctx *gin.Context) {
	user, ok := cc.mustAuthUser(ctx)
	if !ok {
		return
	}

	id, ok := cc.paramID(ctx, "commentId")
	if !ok {
		return
	}

	type Request struct {
		Content string `json:"content" binding:"required,strNotEmpty,cmax=5000"`
	}
	var body Request

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	comment, err := cc.app.Repository.Comment.Update(ctx, nil, id, user.ID, strings.TrimSpace(body.Content))
	if err != nil {
		cc.respondError(ctx, "Failed to update comment", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"comment": comment,
	})
}

func (cc CommentController) Delete(ctx *gin.Context) {
	user, ok := cc.mustAuthUser(ctx)
	if !ok {
		return
	}

	id, ok := cc.paramID(ctx, "commentId")
	if !ok {
		return
	}

	if err := cc.app.Repository.Comment.Delete(ctx, nil, id, user.ID, user.Role); err != nil {
		cc.respondError(ctx, "Failed to delete comment", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"message": "Comment deleted successfully",
	})
}
