package handler

import (
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"genlog-api/internal/application/dashboard"
	"genlog-api/internal/interfaces/http/dto"
	"genlog-api/internal/interfaces/http/middleware"
	"genlog-api/pkg/logger"
)

// PageConfig 页面渲染参数
type PageConfig struct {
	Origin         *url.URL
	SearchDebounce time.Duration
	PageSize       int
}

// PageHandler 服务端渲染生成记录页面
type PageHandler struct {
	workspaces WorkspaceResolver
	options    OptionProvider
	source     dashboard.FeedSource
	cfg        PageConfig
}

// NewPageHandler 创建页面处理器
func NewPageHandler(workspaces WorkspaceResolver, options OptionProvider, source dashboard.FeedSource, cfg PageConfig) *PageHandler {
	return &PageHandler{
		workspaces: workspaces,
		options:    options,
		source:     source,
		cfg:        cfg,
	}
}

// RenderPage 按查询参数恢复筛选条件，加载首屏后返回页面视图
// @Summary 渲染生成记录页面
// @Tags Apps
// @Produce json
// @Param appId path string true "应用 ID"
// @Param search query string false "搜索文本"
// @Param models query string false "模型，逗号分隔"
// @Param tags query string false "标签，逗号分隔"
// @Param selected query string false "选中记录 ID"
// @Success 200 {object} dto.Response[dto.PageViewResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/apps/{appId}/generations/page [get]
func (h *PageHandler) RenderPage(c *gin.Context) {
	ctx := c.Request.Context()
	appID := middleware.AppID(c)

	ws, err := h.workspaces.Resolve(ctx, appID)
	if err != nil {
		respondError(c, err, "failed to resolve workspace")
		return
	}

	page := dashboard.NewPage(ctx, ws, h.source, dashboard.PageOptions{
		Origin:         h.cfg.Origin,
		SearchDebounce: h.cfg.SearchDebounce,
		PageSize:       h.cfg.PageSize,
	})
	defer page.Close()

	models, err := h.options.Models(ctx, appID)
	if err != nil {
		logger.Warn(ctx, "failed to load model options", "error", err.Error())
	}
	tags, err := h.options.Tags(ctx, appID)
	if err != nil {
		logger.Warn(ctx, "failed to load tag options", "error", err.Error())
	}
	page.SetFilterOptions(models, tags)

	page.Filters().Restore(dto.BindFeedQuery(c))
	page.Feed().Wait()

	if selected := c.Query("selected"); selected != "" {
		page.SelectByID(selected)
	}

	dto.Success(c, dto.ToPageViewResponse(page.View()))
}
