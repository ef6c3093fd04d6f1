package repository

import (
	"context"

	"genlog-api/internal/domain/entity"
)

// GenerationFilter 生成记录查询条件；空值表示不过滤
type GenerationFilter struct {
	AppID  string
	Search *string
	Models []string
	Tags   []string
}

// GenerationRepository 生成记录仓储接口
type GenerationRepository interface {
	// Create 写入一条记录
	Create(ctx context.Context, g *entity.Generation) error

	// GetByID 获取应用下的单条记录，不存在返回 nil, nil
	GetByID(ctx context.Context, appID, id string) (*entity.Generation, error)

	// List 按 (created_at, id) 倒序的游标分页
	List(ctx context.Context, filter GenerationFilter, cursor string, limit int) (*CursorPage[*entity.Generation], error)

	// Scan 按批遍历全部匹配记录，fn 返回错误时停止
	Scan(ctx context.Context, filter GenerationFilter, batchSize int, fn func(batch []*entity.Generation) error) error

	// ListModelNames 应用下出现过的模型名
	ListModelNames(ctx context.Context, appID string) ([]string, error)

	// ListTags 应用下出现过的标签
	ListTags(ctx context.Context, appID string) ([]string, error)
}
