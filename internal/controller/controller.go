package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	appcontext "github.com/dsnakex/Biotech-Dashboard/internal/app_context"
	"github.com/dsnakex/Biotech-Dashboard/internal/apperror"
	"github.com/dsnakex/Biotech-Dashboard/internal/auth"
	"github.com/dsnakex/Biotech-Dashboard/internal/middleware"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/gin-gonic/gin"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	Index      *IndexController
	Auth       *AuthController
	Task       *TaskController
	Experiment *ExperimentController
	Resource   *ResourceController
	Hierarchy  *HierarchyController
	Comment    *CommentController
	Dashboard  *DashboardController
	Export     *ExportController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	return &Controller{
		Index:      &IndexController{baseController: bc},
		Auth:       &AuthController{baseController: bc},
		Task:       &TaskController{baseController: bc},
		Experiment: &ExperimentController{baseController: bc},
		Resource:   &ResourceController{baseController: bc},
		Hierarchy:  &HierarchyController{baseController: bc},
		Comment:    &CommentController{baseController: bc},
		Dashboard:  &DashboardController{baseController: bc},
		Export:     &ExportController{baseController: bc},
	}
}

func (b *baseController) getAuthUser(ctx *gin.Context) (*auth.JWTPayload, error) {
	user, ok := middleware.AuthUser(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	return user, nil
}

// mustAuthUser writes a 401 and returns false when no user is authenticated.
func (b *baseController) mustAuthUser(ctx *gin.Context) (*auth.JWTPayload, bool) {
	user, err := b.getAuthUser(ctx)
	if err != nil {
		b.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err), nil)
		return nil, false
	}
	return user, true
}

// paramID parses a positive numeric path parameter, writing a 400 on failure.
func (b *baseController) paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(fmt.Errorf("%s must be a positive integer", name), name), nil)
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional numeric query parameter.
func queryID(ctx *gin.Context, name string) (*uint, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a positive integer", name)
	}
	v := uint(id)
	return &v, nil
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict), errors.Is(err, apperror.ErrIntegrityViolation):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrInsufficientStock), errors.Is(err, apperror.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a repository error onto its HTTP status. Internal
// errors are logged and their details hidden from the client.
func (b *baseController) respondError(ctx *gin.Context, message string, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		b.app.Logger.Errorf("%s: %v", message, err)
		util.ResponseFailed(ctx, status, message, util.GenerateErrorMessages(errors.New("internal server error")), nil)
		return
	}

	b.app.Logger.Debugf("%s: %v", message, err)
	if errors.Is(err, apperror.ErrInsufficientStock) {
		message = err.Error()
	}
	util.ResponseFailed(ctx, status, message, util.GenerateErrorMessages(err), nil)
}
