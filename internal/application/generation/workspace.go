// Package generation 提供生成记录的入库、导出、筛选项与工作区能力
package generation

import (
	"context"
	"strings"

	"genlog-api/internal/domain/entity"
	"genlog-api/internal/domain/repository"
	"genlog-api/pkg/errors"
)

// WorkspaceService 解析页面所需的工作区上下文
type WorkspaceService struct {
	apps  repository.AppRepository
	teams repository.TeamRepository
}

// NewWorkspaceService 创建工作区服务
func NewWorkspaceService(apps repository.AppRepository, teams repository.TeamRepository) *WorkspaceService {
	return &WorkspaceService{apps: apps, teams: teams}
}

// Resolve 由应用 ID 组装工作区；应用不存在返回 ErrAppNotFound
func (s *WorkspaceService) Resolve(ctx context.Context, appID string) (*entity.Workspace, error) {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return nil, errors.ErrInvalidParam.WithDetail("appId is required")
	}

	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, errors.ErrAppNotFound.WithDetail(appID)
	}

	team, err := s.teams.GetByID(ctx, app.TeamID)
	if err != nil {
		return nil, err
	}
	return entity.NewWorkspace(app, team), nil
}
