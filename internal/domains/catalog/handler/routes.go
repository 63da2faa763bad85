package handler

import "github.com/gin-gonic/gin"

func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("/servers", h.ListServers)
		catalog.GET("/plans", h.ListPlans)
		catalog.POST("/plans", h.CreatePlan)
		catalog.GET("/applications", h.ListApplications)
	}
}
