package dashboard

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"genlog-api/internal/domain/entity"
	"genlog-api/pkg/logger"
	"genlog-api/pkg/metrics"
)

// FeedPage 一页记录与续页信息
type FeedPage struct {
	Items      []*entity.Generation
	NextCursor string
	HasMore    bool
}

// FeedSource 分页数据来源
type FeedSource interface {
	FetchPage(ctx context.Context, appID string, q FeedQuery, cursor string, limit int) (*FeedPage, error)
}

// FeedSnapshot 某一时刻的列表状态
type FeedSnapshot struct {
	Query            FeedQuery
	Records          []*entity.Generation
	IsLoading        bool
	IsValidatingMore bool
	HasMore          bool
	Err              error
}

// Feed 按筛选条件增量加载的生成记录列表
// 同一筛选条件下至多一个请求在途；条件变化后旧请求的响应被丢弃
type Feed struct {
	mu sync.Mutex
	wg sync.WaitGroup

	ctx    context.Context
	source FeedSource
	appID  string
	limit  int

	query   FeedQuery
	key     string
	started bool

	records    []*entity.Generation
	seen       map[string]struct{}
	cursor     string
	hasMore    bool
	loading    bool
	validating bool
	err        error

	epoch    uint64
	cancel   context.CancelFunc
	closed   bool
	onChange func(FeedSnapshot)
}

// NewFeed 创建列表；在 SetQuery 之前不发起请求
func NewFeed(ctx context.Context, source FeedSource, appID string, limit int) *Feed {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Feed{
		ctx:    ctx,
		source: source,
		appID:  appID,
		limit:  limit,
		seen:   make(map[string]struct{}),
	}
}

// OnChange 注册状态变更回调，在请求完成后调用
func (f *Feed) OnChange(fn func(FeedSnapshot)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// SetQuery 切换筛选条件；与当前条件值相同时不重新请求
func (f *Feed) SetQuery(q FeedQuery) {
	key := q.Key()

	f.mu.Lock()
	if f.closed || (f.started && key == f.key) {
		f.mu.Unlock()
		return
	}
	if f.cancel != nil {
		f.cancel()
	}

	f.started = true
	f.query = q
	f.key = key
	f.records = nil
	f.seen = make(map[string]struct{})
	f.cursor = ""
	f.hasMore = false
	f.err = nil
	f.loading = true
	f.validating = false

	epoch, ctx := f.beginLocked()
	f.mu.Unlock()

	f.launch(ctx, epoch, q, "", true)
}

// LoadMore 加载下一页；已到末尾、首屏加载中或已有请求在途时不做任何事
func (f *Feed) LoadMore() bool {
	f.mu.Lock()
	if f.closed || !f.started || !f.hasMore || f.loading || f.validating {
		f.mu.Unlock()
		return false
	}
	f.validating = true
	f.err = nil
	q, cursor := f.query, f.cursor
	epoch, ctx := f.beginLocked()
	f.mu.Unlock()

	f.launch(ctx, epoch, q, cursor, false)
	return true
}

// beginLocked 为新请求分配代次与可取消的 context
func (f *Feed) beginLocked() (uint64, context.Context) {
	f.epoch++
	ctx, cancel := context.WithCancel(f.ctx)
	f.cancel = cancel
	return f.epoch, ctx
}

func (f *Feed) launch(ctx context.Context, epoch uint64, q FeedQuery, cursor string, initial bool) {
	f.wg.Add(1)
	go f.fetch(ctx, epoch, q, cursor, initial)
}

func (f *Feed) fetch(ctx context.Context, epoch uint64, q FeedQuery, cursor string, initial bool) {
	defer f.wg.Done()

	start := time.Now()
	page, err := f.source.FetchPage(ctx, f.appID, q, cursor, f.limit)
	metrics.FeedPageFetchDuration.WithLabelValues(strconv.FormatBool(initial)).Observe(time.Since(start).Seconds())

	f.mu.Lock()
	if f.closed || epoch != f.epoch {
		f.mu.Unlock()
		metrics.FeedStaleResponses.Inc()
		return
	}

	f.loading = false
	f.validating = false
	f.cancel = nil
	if err != nil {
		f.err = err
		f.mu.Unlock()
		logger.Warn(ctx, "generation page fetch failed", "app_id", f.appID, "error", err.Error())
		f.notify()
		return
	}

	if page != nil {
		for _, g := range page.Items {
			if g == nil {
				continue
			}
			if _, dup := f.seen[g.ID]; dup {
				continue
			}
			f.seen[g.ID] = struct{}{}
			f.records = append(f.records, g)
		}
		f.cursor = page.NextCursor
		f.hasMore = page.HasMore && page.NextCursor != ""
	}
	f.mu.Unlock()

	f.notify()
}

func (f *Feed) notify() {
	f.mu.Lock()
	cb := f.onChange
	snap := f.snapshotLocked()
	f.mu.Unlock()
	if cb != nil {
		cb(snap)
	}
}

// Snapshot 返回当前状态的副本
func (f *Feed) Snapshot() FeedSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Feed) snapshotLocked() FeedSnapshot {
	return FeedSnapshot{
		Query:            f.query,
		Records:          slices.Clone(f.records),
		IsLoading:        f.loading,
		IsValidatingMore: f.validating,
		HasMore:          f.hasMore,
		Err:              f.err,
	}
}

// Wait 等待所有已发起的请求返回
func (f *Feed) Wait() {
	f.wg.Wait()
}

// Close 取消在途请求，之后的响应不再修改状态
func (f *Feed) Close() {
	f.mu.Lock()
	f.closed = true
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mu.Unlock()
}

// CompareTokens 按 token 总数比较
func CompareTokens(a, b *entity.Generation) int {
	return cmp.Compare(a.TotalTokens(), b.TotalTokens())
}

// SortByTokens 按 token 总数稳定排序，返回新切片
func SortByTokens(records []*entity.Generation, desc bool) []*entity.Generation {
	out := slices.Clone(records)
	if desc {
		slices.SortStableFunc(out, func(a, b *entity.Generation) int { return CompareTokens(b, a) })
	} else {
		slices.SortStableFunc(out, CompareTokens)
	}
	return out
}
