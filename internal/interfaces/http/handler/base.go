// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"genlog-api/internal/domain/entity"
	"genlog-api/internal/interfaces/http/dto"
	"genlog-api/pkg/errors"
	"genlog-api/pkg/logger"
)

// WorkspaceResolver 按应用 ID 解析工作区
type WorkspaceResolver interface {
	Resolve(ctx context.Context, appID string) (*entity.Workspace, error)
}

// OptionProvider 模型与标签候选项
type OptionProvider interface {
	Models(ctx context.Context, appID string) ([]string, error)
	Tags(ctx context.Context, appID string) ([]string, error)
}

// respondError 业务错误按错误码响应，其余记录日志后返回 500
func respondError(c *gin.Context, err error, message string) {
	if errors.IsAppError(err) {
		appErr := errors.AsAppError(err)
		if appErr.HTTPStatus < 500 {
			dto.AppError(c, appErr)
			return
		}
	}
	logger.Error(c.Request.Context(), message, err)
	dto.InternalError(c, message)
}
