package handler

import (
	"github.com/gin-gonic/gin"

	"genlog-api/internal/interfaces/http/dto"
	"genlog-api/internal/interfaces/http/middleware"
	"genlog-api/pkg/logger"
)

// AppHandler 应用工作区处理器
type AppHandler struct {
	workspaces WorkspaceResolver
	options    OptionProvider
}

// NewAppHandler 创建应用处理器
func NewAppHandler(workspaces WorkspaceResolver, options OptionProvider) *AppHandler {
	return &AppHandler{
		workspaces: workspaces,
		options:    options,
	}
}

// GetWorkspace 获取工作区（激活状态与套餐）
// @Summary 获取工作区
// @Tags Apps
// @Produce json
// @Param appId path string true "应用 ID"
// @Success 200 {object} dto.Response[dto.WorkspaceResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/apps/{appId} [get]
func (h *AppHandler) GetWorkspace(c *gin.Context) {
	ws, err := h.workspaces.Resolve(c.Request.Context(), middleware.AppID(c))
	if err != nil {
		respondError(c, err, "failed to resolve workspace")
		return
	}
	dto.Success(c, dto.ToWorkspaceResponse(ws))
}

// ListModels 获取模型筛选候选项
// @Summary 模型候选项
// @Tags Apps
// @Produce json
// @Param appId path string true "应用 ID"
// @Success 200 {object} dto.Response[dto.OptionsResponse]
// @Router /api/apps/{appId}/models [get]
func (h *AppHandler) ListModels(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.options.Models(ctx, middleware.AppID(c))
	if err != nil {
		logger.Error(ctx, "failed to list models", err)
		dto.InternalError(c, "failed to list models")
		return
	}
	dto.Success(c, &dto.OptionsResponse{Items: items})
}

// ListTags 获取标签筛选候选项
// @Summary 标签候选项
// @Tags Apps
// @Produce json
// @Param appId path string true "应用 ID"
// @Success 200 {object} dto.Response[dto.OptionsResponse]
// @Router /api/apps/{appId}/tags [get]
func (h *AppHandler) ListTags(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.options.Tags(ctx, middleware.AppID(c))
	if err != nil {
		logger.Error(ctx, "failed to list tags", err)
		dto.InternalError(c, "failed to list tags")
		return
	}
	dto.Success(c, &dto.OptionsResponse{Items: items})
}
