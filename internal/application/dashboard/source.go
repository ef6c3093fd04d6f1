package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"genlog-api/internal/domain/repository"
)

// RepositorySource 基于仓储的数据来源，合并相同的并发分页请求
type RepositorySource struct {
	repo  repository.GenerationRepository
	group singleflight.Group
}

// NewRepositorySource 创建仓储数据来源
func NewRepositorySource(repo repository.GenerationRepository) *RepositorySource {
	return &RepositorySource{repo: repo}
}

// FetchPage 实现 FeedSource
func (s *RepositorySource) FetchPage(ctx context.Context, appID string, q FeedQuery, cursor string, limit int) (*FeedPage, error) {
	key := strings.Join([]string{appID, q.Key(), cursor, strconv.Itoa(limit)}, "\x1d")

	ch := s.group.DoChan(key, func() (any, error) {
		page, err := s.repo.List(context.WithoutCancel(ctx), q.Filter(appID), cursor, limit)
		if err != nil {
			return nil, err
		}
		return &FeedPage{Items: page.Items, NextCursor: page.NextCursor, HasMore: page.HasMore}, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("failed to fetch generation page: %w", res.Err)
		}
		return res.Val.(*FeedPage), nil
	}
}
