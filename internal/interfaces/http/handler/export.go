package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"genlog-api/internal/application/dashboard"
	"genlog-api/internal/domain/entity"
	"genlog-api/internal/infrastructure/messaging"
	"genlog-api/internal/interfaces/http/dto"
	"genlog-api/internal/interfaces/http/middleware"
	"genlog-api/pkg/errors"
	"genlog-api/pkg/logger"
)

// Exporter 按筛选条件写出 CSV
type Exporter interface {
	Export(ctx context.Context, ws *entity.Workspace, q dashboard.FeedQuery, w io.Writer) (int, error)
}

// AuditPublisher 投递审计日志
type AuditPublisher interface {
	PublishAuditLog(ctx context.Context, log *messaging.AuditLogMessage) (string, error)
}

// ExportHandler 导出处理器
type ExportHandler struct {
	workspaces WorkspaceResolver
	exporter   Exporter
	limiter    middleware.RateLimiter
	perMinute  int
	audit      AuditPublisher
}

// NewExportHandler 创建导出处理器；limiter 与 audit 可为空
func NewExportHandler(workspaces WorkspaceResolver, exporter Exporter, limiter middleware.RateLimiter, perMinute int, audit AuditPublisher) *ExportHandler {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &ExportHandler{
		workspaces: workspaces,
		exporter:   exporter,
		limiter:    limiter,
		perMinute:  perMinute,
		audit:      audit,
	}
}

// ExportGenerations 以 CSV 下载当前筛选条件下的全部生成记录，仅 pro 套餐可用
// @Summary 导出生成记录
// @Tags Generations
// @Produce text/csv
// @Param appId query string true "应用 ID"
// @Param search query string false "搜索文本"
// @Param models query string false "模型，逗号分隔"
// @Param tags query string false "标签，逗号分隔"
// @Success 200 {file} file
// @Failure 403 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /api/generation/export [get]
func (h *ExportHandler) ExportGenerations(c *gin.Context) {
	ctx := c.Request.Context()
	req := dto.BindFeedRequest(c)
	if req.AppID == "" {
		dto.BadRequest(c, "appId is required")
		return
	}

	ws, err := h.workspaces.Resolve(ctx, req.AppID)
	if err != nil {
		respondError(c, err, "failed to resolve workspace")
		return
	}
	if !ws.Plan.CanExport() {
		dto.AppError(c, errors.ErrPlanUpgradeRequired)
		return
	}

	if h.limiter != nil {
		allowed, err := h.limiter.Allow(ctx, "ratelimit:export:"+ws.AppID, h.perMinute, time.Minute)
		if err != nil {
			logger.Warn(ctx, "export rate limiter unavailable", "error", err.Error())
		} else if !allowed {
			dto.TooManyRequests(c, "export rate limit exceeded")
			return
		}
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="generations-%s.csv"`, ws.AppID))
	c.Status(http.StatusOK)

	rows, err := h.exporter.Export(ctx, ws, req.Query, c.Writer)
	status := http.StatusOK
	if err != nil {
		status = http.StatusInternalServerError
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Type")
			c.Writer.Header().Del("Content-Disposition")
			respondError(c, err, "failed to export generations")
		} else {
			// 已开始写出，只能截断
			logger.Error(ctx, "export interrupted", err, "rows", rows)
		}
	}

	h.publishAudit(c, ws, status, rows)
}

func (h *ExportHandler) publishAudit(c *gin.Context, ws *entity.Workspace, status, rows int) {
	if h.audit == nil {
		return
	}
	ctx := c.Request.Context()
	_, err := h.audit.PublishAuditLog(ctx, &messaging.AuditLogMessage{
		AppID:      ws.AppID,
		TeamID:     ws.TeamID,
		Action:     "generation.export",
		Resource:   c.Request.URL.Path,
		RequestID:  c.GetString("request_id"),
		TraceID:    c.GetString("trace_id"),
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		StatusCode: status,
		Metadata:   map[string]any{"rows": rows, "query": c.Request.URL.RawQuery},
	})
	if err != nil {
		logger.Warn(ctx, "failed to publish export audit log", "error", err.Error())
	}
}
