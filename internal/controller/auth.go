package controller

import (
	"errors"
	"net/http"

	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	*baseController
}

func (ac AuthController) respondTokens(ctx *gin.Context, status int, user *model.User) {
	refreshToken, accessToken, err := ac.app.Repository.JWT.GenRefreshAndAccessToken(ctx, nil, *user)
	if err != nil {
		ac.respondError(ctx, "Failed to generate token", err)
		return
	}

	ctx.JSON(status, util.BuildResponseSuccess(gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"token_type":    "bearer",
		"user":          user,
	}))
}

func (ac AuthController) Register(ctx *gin.Context) {
	type Request struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6,max=72"`
		FullName string `json:"full_name" binding:"required,strNotEmpty,cmax=255"`
		// admin accounts are only created by the migrate command
		Role constant.UserRole `json:"role" binding:"omitempty,oneof=researcher manager"`
	}
	var body Request

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	user, err := ac.app.Repository.User.Register(ctx, nil, body.Email, body.Password, body.FullName, body.Role)
	if err != nil {
		ac.respondError(ctx, "Failed to register", err)
		return
	}

	ac.respondTokens(ctx, http.StatusCreated, user)
}

func (ac AuthController) Login(ctx *gin.Context) {
	type Request struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	var body Request

	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	user, err := ac.app.Repository.User.Authenticate(ctx, nil, body.Email, body.Password)
	if err != nil {
		ac.respondError(ctx, "Failed to login", err)
		return
	}

	ac.respondTokens(ctx, http.StatusOK, user)
}

func (ac AuthController) Me(ctx *gin.Context) {
	authUser, ok := ac.mustAuthUser(ctx)
	if !ok {
		return
	}

	user, err := ac.app.Repository.User.GetById(ctx, nil, authUser.ID)
	if err != nil {
		ac.respondError(ctx, "Failed to get user", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"user": user,
	})
}

func (ac AuthController) RefreshAccessToken(ctx *gin.Context) {
	refreshToken, err := util.ReadRefreshToken(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err), nil)
		return
	}

	newRefreshToken, newAccessToken, err := ac.app.Repository.JWT.RefreshToken(ctx, nil, refreshToken)
	if err != nil {
		ac.app.Logger.Debugf("Failed to refresh token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err), nil)
		return
	}

	if newRefreshToken == nil || newAccessToken == nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(errors.New("failed to refresh token")), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"refresh_token": newRefreshToken,
		"access_token":  newAccessToken,
	})
}
