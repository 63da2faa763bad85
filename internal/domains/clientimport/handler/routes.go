package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the import wizard under rg (already authenticated).
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	imports := rg.Group("/clients/import")
	{
		imports.GET("/template", h.Template)
		imports.GET("/jobs", h.ListJobs)
		imports.POST("", h.Upload)
		imports.GET("/:id", h.Get)
		imports.DELETE("/:id", h.Abandon)
		imports.POST("/:id/bulk", h.BulkEdit)
		imports.PATCH("/:id/records/:index", h.UpdateRecord)
		imports.POST("/:id/plans/auto-create", h.AutoCreatePlans)
		imports.POST("/:id/submit", h.Submit)
	}
}
