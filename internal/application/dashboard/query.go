// Package dashboard 实现请求日志页面的控制逻辑：筛选、分页加载、选中、导出与空状态判定
package dashboard

import (
	"strconv"
	"strings"

	"genlog-api/internal/domain/repository"
)

// FeedQuery 一组已提交的筛选条件
type FeedQuery struct {
	Search *string
	Models []string
	Tags   []string
}

// NewFeedQuery 规范化筛选条件：空白搜索视为不过滤，列表去掉空项与重复项
func NewFeedQuery(search *string, models, tags []string) FeedQuery {
	return FeedQuery{
		Search: normalizeSearch(search),
		Models: normalizeList(models),
		Tags:   normalizeList(tags),
	}
}

// Key 按值比较用的规范键，各部分经 strconv.Quote 转义
func (q FeedQuery) Key() string {
	var b strings.Builder
	if q.Search == nil {
		b.WriteString("-")
	} else {
		b.WriteString(strconv.Quote(*q.Search))
	}
	for _, part := range []struct {
		tag    string
		values []string
	}{{"m", q.Models}, {"t", q.Tags}} {
		b.WriteString(" " + part.tag + "[")
		for i, v := range part.values {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(v))
		}
		b.WriteByte(']')
	}
	return b.String()
}

// Equal 按值比较
func (q FeedQuery) Equal(other FeedQuery) bool {
	return q.Key() == other.Key()
}

// SearchText 返回搜索词，未设置时为空串
func (q FeedQuery) SearchText() string {
	if q.Search == nil {
		return ""
	}
	return *q.Search
}

// Filter 转换为仓储查询条件
func (q FeedQuery) Filter(appID string) repository.GenerationFilter {
	return repository.GenerationFilter{
		AppID:  appID,
		Search: q.Search,
		Models: q.Models,
		Tags:   q.Tags,
	}
}

func normalizeSearch(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

func normalizeList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
