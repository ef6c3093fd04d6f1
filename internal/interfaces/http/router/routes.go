package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes 注册 /api 下的业务路由
func RegisterAPIRoutes(api *gin.RouterGroup, h *RouterHandlers) {
	// 导出
	api.GET("/generation/export", h.Export.ExportGenerations)

	// 生成记录
	generations := api.Group("/generations")
	{
		generations.GET("", h.Generation.ListGenerations)
		generations.POST("", h.Generation.IngestGeneration)
		generations.GET("/:id", h.Generation.GetGeneration)
	}

	// 应用工作区
	apps := api.Group("/apps/:appId")
	{
		apps.GET("", h.App.GetWorkspace)
		apps.GET("/models", h.App.ListModels)
		apps.GET("/tags", h.App.ListTags)
		apps.GET("/generations/page", h.Page.RenderPage)
	}
}
