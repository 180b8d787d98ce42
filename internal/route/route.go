package route

import (
	"github.com/dsnakex/Biotech-Dashboard/internal/controller"
	"github.com/dsnakex/Biotech-Dashboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Register mounts every endpoint: the index on the root and the API under /api.
func Register(r *gin.Engine, c *controller.Controller, m *middleware.Middleware) {
	r.GET("/", c.Index.Index)

	api := r.Group("/api")
	Auth(api, c.Auth, m)
	Tasks(api, c.Task, m)
	Experiments(api, c.Experiment, m)
	Resources(api, c.Resource, m)
	Hierarchy(api, c.Hierarchy, m)
	Comments(api, c.Comment, m)
	Dashboard(api, c.Dashboard, m)
	Export(api, c.Export, m)
}
