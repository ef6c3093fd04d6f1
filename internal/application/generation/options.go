package generation

import (
	"context"

	"genlog-api/internal/domain/repository"
	"genlog-api/internal/infrastructure/persistence/redis"
)

// OptionStore 筛选项缓存
type OptionStore interface {
	Strings(ctx context.Context, appID, kind string, load func(ctx context.Context) ([]string, error)) ([]string, error)
	Invalidate(ctx context.Context, appID string) error
}

// OptionService 提供模型名与标签两个多选框的候选项
type OptionService struct {
	repo  repository.GenerationRepository
	store OptionStore
}

// NewOptionService 创建筛选项服务；store 为空时直接查库
func NewOptionService(repo repository.GenerationRepository, store OptionStore) *OptionService {
	return &OptionService{repo: repo, store: store}
}

// Models 应用下的模型名
func (s *OptionService) Models(ctx context.Context, appID string) ([]string, error) {
	return s.load(ctx, appID, redis.OptionModels, func(ctx context.Context) ([]string, error) {
		return s.repo.ListModelNames(ctx, appID)
	})
}

// Tags 应用下的标签
func (s *OptionService) Tags(ctx context.Context, appID string) ([]string, error) {
	return s.load(ctx, appID, redis.OptionTags, func(ctx context.Context) ([]string, error) {
		return s.repo.ListTags(ctx, appID)
	})
}

// Invalidate 新记录入库后清除缓存
func (s *OptionService) Invalidate(ctx context.Context, appID string) error {
	if s.store == nil {
		return nil
	}
	return s.store.Invalidate(ctx, appID)
}

func (s *OptionService) load(ctx context.Context, appID, kind string, fn func(ctx context.Context) ([]string, error)) ([]string, error) {
	var (
		values []string
		err    error
	)
	if s.store == nil {
		values, err = fn(ctx)
	} else {
		values, err = s.store.Strings(ctx, appID, kind, fn)
	}
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}
