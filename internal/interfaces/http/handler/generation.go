package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"genlog-api/internal/domain/entity"
	"genlog-api/internal/domain/repository"
	"genlog-api/internal/interfaces/http/dto"
	"genlog-api/pkg/errors"
	"genlog-api/pkg/logger"
)

// GenerationSubmitter 受理上报的生成记录
type GenerationSubmitter interface {
	Submit(ctx context.Context, requestID string, g *entity.Generation) (string, error)
}

// GenerationHandler 生成记录处理器
type GenerationHandler struct {
	generationRepo repository.GenerationRepository
	submitter      GenerationSubmitter
}

// NewGenerationHandler 创建生成记录处理器
func NewGenerationHandler(generationRepo repository.GenerationRepository, submitter GenerationSubmitter) *GenerationHandler {
	return &GenerationHandler{
		generationRepo: generationRepo,
		submitter:      submitter,
	}
}

// ListGenerations 游标分页获取生成记录
// @Summary 获取生成记录列表
// @Description 按时间倒序返回应用下的生成记录，支持搜索、模型与标签筛选
// @Tags Generations
// @Produce json
// @Param appId query string true "应用 ID"
// @Param search query string false "搜索文本"
// @Param models query string false "模型，逗号分隔"
// @Param tags query string false "标签，逗号分隔"
// @Param cursor query string false "游标"
// @Param limit query int false "单页条数"
// @Success 200 {object} dto.Response[dto.GenerationListResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/generations [get]
func (h *GenerationHandler) ListGenerations(c *gin.Context) {
	ctx := c.Request.Context()
	req := dto.BindFeedRequest(c)
	if req.AppID == "" {
		dto.BadRequest(c, "appId is required")
		return
	}

	page, err := h.generationRepo.List(ctx, req.Query.Filter(req.AppID), req.Cursor, req.Limit)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidCursor) {
			dto.BadRequest(c, "invalid cursor")
			return
		}
		logger.Error(ctx, "failed to list generations", err)
		dto.InternalError(c, "failed to list generations")
		return
	}

	dto.SuccessWithPage(c, dto.ToGenerationListResponse(page.Items), &dto.PageMeta{
		Limit:      req.Limit,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	})
}

// GetGeneration 获取单条生成记录
// @Summary 获取生成记录详情
// @Tags Generations
// @Produce json
// @Param id path string true "记录 ID"
// @Param appId query string true "应用 ID"
// @Success 200 {object} dto.Response[dto.GenerationResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/generations/{id} [get]
func (h *GenerationHandler) GetGeneration(c *gin.Context) {
	ctx := c.Request.Context()
	appID := c.Query("appId")
	if appID == "" {
		dto.BadRequest(c, "appId is required")
		return
	}

	g, err := h.generationRepo.GetByID(ctx, appID, dto.BindGenerationID(c))
	if err != nil {
		logger.Error(ctx, "failed to get generation", err)
		dto.InternalError(c, "failed to get generation")
		return
	}
	if g == nil {
		dto.AppError(c, errors.ErrGenerationNotFound)
		return
	}

	dto.Success(c, dto.ToGenerationResponse(g))
}

// IngestGeneration 上报一条生成记录，异步入库
// @Summary 上报生成记录
// @Tags Generations
// @Accept json
// @Produce json
// @Param body body dto.IngestGenerationRequest true "生成记录"
// @Success 202 {object} dto.Response[dto.IngestGenerationResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/generations [post]
func (h *GenerationHandler) IngestGeneration(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.IngestGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	messageID, err := h.submitter.Submit(ctx, c.GetString("request_id"), req.ToEntity())
	if err != nil {
		respondError(c, err, "failed to ingest generation")
		return
	}

	dto.Accepted(c, &dto.IngestGenerationResponse{MessageID: messageID})
}
