package controller

import (
	"net/http"
	"strings"

	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/hierarchy"
	"github.com/dsnakex/Biotech-Dashboard/internal/model"
	"github.com/dsnakex/Biotech-Dashboard/internal/util"
	"github.com/gin-gonic/gin"
)

// HierarchyController serves projects, their sub-projects and the
// categories experiments are filed under.
type HierarchyController struct {
	*baseController
}

type projectRequest struct {
	Name        string     `json:"name" binding:"required,strNotEmpty,cmax=255"`
	Description string     `json:"description"`
	Status      string     `json:"status" binding:"cmax=50"`
	StartDate   model.Date `json:"start_date"`
	EndDate     model.Date `json:"end_date"`
	Manager     string     `json:"manager" binding:"cmax=255"`
}

func (r projectRequest) toModel() *model.Project {
	if r.Status == "" {
		r.Status = constant.ProjectStatusActive
	}
	return &model.Project{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Status:      r.Status,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Manager:     r.Manager,
	}
}

type subProjectRequest struct {
	ProjectID   uint       `json:"project_id" binding:"required,gt=0"`
	Name        string     `json:"name" binding:"required,strNotEmpty,cmax=255"`
	Description string     `json:"description"`
	Status      string     `json:"status" binding:"cmax=50"`
	StartDate   model.Date `json:"start_date"`
	EndDate     model.Date `json:"end_date"`
	Lead        string     `json:"lead" binding:"cmax=255"`
}

func (r subProjectRequest) toModel() *model.SubProject {
	if r.Status == "" {
		r.Status = constant.ProjectStatusActive
	}
	return &model.SubProject{
		ProjectID:   r.ProjectID,
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		Status:      r.Status,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Lead:        r.Lead,
	}
}

type categoryRequest struct {
	SubProjectID uint   `json:"sub_project_id" binding:"required,gt=0"`
	Name         string `json:"name" binding:"required,strNotEmpty,cmax=255"`
	Description  string `json:"description"`
	Color        string `json:"color" binding:"omitempty,hexcolor6"`
}

func (r categoryRequest) toModel() *model.Category {
	if r.Color == "" {
		r.Color = constant.DefaultCategoryColor
	}
	return &model.Category{
		SubProjectID: r.SubProjectID,
		Name:         strings.TrimSpace(r.Name),
		Description:  r.Description,
		Color:        r.Color,
	}
}

func (hc HierarchyController) respondDeleted(ctx *gin.Context, message string, report *hierarchy.DeletionReport) {
	hc.app.Repository.Dashboard.InvalidateStats()
	util.ResponseSuccess(ctx, gin.H{
		"message": message,
		"report":  report,
	})
}

func (hc HierarchyController) ListProjects(ctx *gin.Context) {
	projects, err := hc.app.Repository.Project.List(ctx, nil, ctx.Query("status"))
	if err != nil {
		hc.respondError(ctx, "Failed to list projects", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"projects": projects,
	})
}

func (hc HierarchyController) GetProject(ctx *gin.Context) {
	id, ok := hc.paramID(ctx, "projectId")
	if !ok {
		return
	}

	project, err := hc.app.Repository.Project.GetById(ctx, nil, id)
	if err != nil {
		hc.respondError(ctx, "Failed to get project", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"project": project,
	})
}

func (hc HierarchyController) ProjectTree(ctx *gin.Context) {
	id, ok := hc.paramID(ctx, "projectId")
	if !ok {
		return
	}

	tree, err := hc.app.Repository.Project.Tree(ctx, nil, id)
	if err != nil {
		hc.respondError(ctx, "Failed to get project tree", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"project": tree,
	})
}

func (hc HierarchyController) CreateProject(ctx *gin.Context) {
	user, ok := hc.mustAuthUser(ctx)
	if !ok {
		return
	}

	var body projectRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	project := body.toModel()
	project.CreatedBy = &user.ID
	if err := hc.app.Repository.Project.Create(ctx, nil, project); err != nil {
		hc.respondError(ctx, "Failed to create project", err)
		return
	}

	util.ResponseCreated(ctx, gin.H{
		"project": project,
	})
}

func (hc HierarchyController) UpdateProject(ctx *gin.Context) {
	id, ok := hc.paramID(ctx, "projectId")
	if !ok {
		return
	}

	var body projectRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	project := body.toModel()
	project.ID = id
	if err := hc.app.Repository.Project.Update(ctx, nil, project); err != nil {
		hc.respondError(ctx, "Failed to update project", err)
		return
	}

	updated, err := hc.app.Repository.Project.GetById(ctx, nil, id)
	if err != nil {
		hc.respondError(ctx, "Failed to get project", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"project": updated,
	})
}

func (hc HierarchyController) DeleteProject(ctx *gin.Context) {
	id, ok := hc.paramID(ctx, "projectId")
	if !ok {
		return
	}

	report, err := hc.app.Repository.Project.Delete(ctx, nil, id)
	if err != nil {
		hc.respondError(ctx, "Failed to delete project", err)
		return
	}

	hc.respondDeleted(ctx, "Project deleted successfully", report)
}

func (hc HierarchyController) ListSubProjects(ctx *gin.Context) {
	projectID, err := queryID(ctx, "project_id")
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err, "project_id"), nil)
		return
	}

	subProjects, err := hc.app.Repository.SubProject.List(ctx, nil, projectID)
	if err != nil {
		hc.respondError(ctx, "Failed to list sub projects", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"sub_projects": subProjects,
	})
}

func (hc HierarchyController) GetSubProject(ctx *gin.Context) {
	id, ok := hc.paramID(ctx, "subProjectId")
	if !ok {
		return
	}

	subProject, err := hc.app.Repository.SubProject.GetById(ctx, nil, id)
	if err != nil {
		hc.respondError(ctx, "Failed to get sub project", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"sub_project": subProject,
	})
}

func (hc HierarchyController) CreateSubProject(ctx *gin.Context) {
	user, ok := hc.mustAuthUser(ctx)
	if !ok {
		return
	}

	var body subProjectRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	subProject := body.toModel()
	subProject.CreatedBy = &user.ID
	if err := hc.app.Repository.SubProject.Create(ctx, nil, subProject); err != nil {
		hc.respondError(ctx, "Failed to create sub project", err)
		return
	}

	util.ResponseCreated(ctx, gin.H{
		"sub_project": subProject,
	})
}

func (hc HierarchyController) UpdateSubProject(ctx *gin.Context) {
	id, ok := hc.paramID(ctx, "subProjectId")
	if !ok {
		return
	}

	var body subProjectRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	subProject := body.toModel()
	subProject.ID = id
	if err := hc.app.Repository.SubProject.Update(ctx, nil, subProject); err != nil {
		hc.respondError(ctx, "Failed to update sub project", err)
		return
	}

	updated, err := hc.app.Repository.SubProject.GetById(ctx, nil, id)
	if err != nil {
		hc.respondError(ctx, "Failed to get sub project", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"sub_project": updated,
	})
}

func (hc HierarchyController) DeleteSubProject(ctx *gin.Context) {
	id, ok := hc.paramID(ctx, "subProjectId")
	if !ok {
		return
	}

	report, err := hc.app.Repository.SubProject.Delete(ctx, nil, id)
	if err != nil {
		hc.respondError(ctx, "Failed to delete sub project", err)
		return
	}

	hc.respondDeleted(ctx, "Sub project deleted successfully", report)
}

func (hc HierarchyController) ListCategories(ctx *gin.Context) {
	subProjectID, err := queryID(ctx, "sub_project_id")
	if err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err, "sub_project_id"), nil)
		return
	}

	categories, err := hc.app.Repository.Category.List(ctx, nil, subProjectID)
	if err != nil {
		hc.respondError(ctx, "Failed to list categories", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"categories": categories,
	})
}

func (hc HierarchyController) GetCategory(ctx *gin.Context) {
	id, ok := hc.paramID(ctx, "categoryId")
	if !ok {
		return
	}

	category, err := hc.app.Repository.Category.GetById(ctx, nil, id)
	if err != nil {
		hc.respondError(ctx, "Failed to get category", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"category": category,
	})
}

func (hc HierarchyController) CreateCategory(ctx *gin.Context) {
	user, ok := hc.mustAuthUser(ctx)
	if !ok {
		return
	}

	var body categoryRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	category := body.toModel()
	category.CreatedBy = &user.ID
	if err := hc.app.Repository.Category.Create(ctx, nil, category); err != nil {
		hc.respondError(ctx, "Failed to create category", err)
		return
	}

	util.ResponseCreated(ctx, gin.H{
		"category": category,
	})
}

func (hc HierarchyController) UpdateCategory(ctx *gin.Context) {
	id, ok := hc.paramID(ctx, "categoryId")
	if !ok {
		return
	}

	var body categoryRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
		return
	}

	category := body.toModel()
	category.ID = id
	if err := hc.app.Repository.Category.Update(ctx, nil, category); err != nil {
		hc.respondError(ctx, "Failed to update category", err)
		return
	}

	updated, err := hc.app.Repository.Category.GetById(ctx, nil, id)
	if err != nil {
		hc.respondError(ctx, "Failed to get category", err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"category": updated,
	})
}

func (hc HierarchyController) DeleteCategory(ctx *gin.Context) {
	id, ok := hc.paramID(ctx, "categoryId")
	if !ok {
		return
	}

	report, err := hc.app.Repository.Category.Delete(ctx, nil, id)
	if err != nil {
		hc.respondError(ctx, "Failed to delete category", err)
		return
	}

	hc.respondDeleted(ctx, "Category deleted successfully", report)
}
