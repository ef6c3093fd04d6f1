package repository

import (
	"context"

	"genlog-api/internal/domain/entity"
)

// AppRepository 应用仓储接口
type AppRepository interface {
	// Create 创建应用
	Create(ctx context.Context, app *entity.App) error

	// GetByID 根据 ID 获取应用，不存在返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.App, error)

	// MarkActivated 标记应用已收到首条记录，幂等
	MarkActivated(ctx context.Context, id string) error
}

// TeamRepository 团队仓储接口
type TeamRepository interface {
	// Create 创建团队
	Create(ctx context.Context, team *entity.Team) error

	// GetByID 根据 ID 获取团队，不存在返回 nil, nil
	GetByID(ctx context.Context, id string) (*entity.Team, error)

	// UpdatePlan 变更套餐
	UpdatePlan(ctx context.Context, id string, plan entity.PlanTier) error
}
