package route

import (
	"github.com/dsnakex/Biotech-Dashboard/internal/constant"
	"github.com/dsnakex/Biotech-Dashboard/internal/controller"
	"github.com/dsnakex/Biotech-Dashboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

func Hierarchy(r *gin.RouterGroup, hc *controller.HierarchyController, middleware *middleware.Middleware) {
	canDelete := middleware.RequirePermission(constant.HierarchyDelete)

	projects := r.Group("/projects")
	projects.Use(middleware.AuthMiddleware)
	{
		projects.GET("", hc.ListProjects)
		projects.POST("", hc.CreateProject)
		projects.GET("/:projectId", hc.GetProject)
		projects.GET("/:projectId/tree", hc.ProjectTree)
		projects.PUT("/:projectId", hc.UpdateProject)
		projects.DELETE("/:projectId", canDelete, hc.DeleteProject)
	}

	subProjects := r.Group("/sub-projects")
	subProjects.Use(middleware.AuthMiddleware)
	{
		subProjects.GET("", hc.ListSubProjects)
		subProjects.POST("", hc.CreateSubProject)
		subProjects.GET("/:subProjectId", hc.GetSubProject)
		subProjects.PUT("/:subProjectId", hc.UpdateSubProject)
		subProjects.DELETE("/:subProjectId", canDelete, hc.DeleteSubProject)
	}

	categories := r.Group("/categories")
	categories.Use(middleware.AuthMiddleware)
	{
		categories.GET("", hc.ListCategories)
		categories.POST("", hc.CreateCategory)
		categories.GET("/:categoryId", hc.GetCategory)
		categories.PUT("/:categoryId", hc.UpdateCategory)
		categories.DELETE("/:categoryId", canDelete, hc.DeleteCategory)
	}
}
