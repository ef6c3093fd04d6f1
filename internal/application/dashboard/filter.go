package dashboard

import (
	"slices"
	"sync"
	"time"

	"github.com/bep/debounce"
)

// DefaultSearchDebounce 搜索输入的静默窗口
const DefaultSearchDebounce = time.Second

// FilterState 页面筛选状态
// 搜索词经防抖后提交，模型与标签立即提交；每次提交都整体替换旧值
type FilterState struct {
	mu       sync.Mutex
	commitMu sync.Mutex

	search *string
	models []string
	tags   []string

	// searchSeq 每次搜索输入递增，只有最新一次输入能提交
	searchSeq uint64

	debounced func(func())
	onCommit  func(FeedQuery)
	closed    bool
}

// NewFilterState 创建筛选状态，interval 非正数时使用默认窗口
func NewFilterState(interval time.Duration, onCommit func(FeedQuery)) *FilterState {
	if interval <= 0 {
		interval = DefaultSearchDebounce
	}
	return &FilterState{
		debounced: debounce.New(interval),
		onCommit:  onCommit,
	}
}

// SetSearch 输入搜索词，静默 interval 后才提交最后一次输入
func (f *FilterState) SetSearch(text string) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	seq := f.nextSearchLocked()
	f.mu.Unlock()

	f.debounced(func() {
		f.commit(func() {
			if f.searchSeq == seq {
				f.search = normalizeSearch(&text)
			}
		})
	})
}

func (f *FilterState) nextSearchLocked() uint64 {
	f.searchSeq++
	return f.searchSeq
}

// supersedeSearch 让已触发但尚未提交的防抖回调失效
func (f *FilterState) supersedeSearch() {
	f.mu.Lock()
	f.nextSearchLocked()
	f.mu.Unlock()
	f.debounced(func() {})
}

// CommitSearch 立即提交搜索词，并取消尚未触发的防抖提交
func (f *FilterState) CommitSearch(text string) {
	f.supersedeSearch()
	f.commit(func() { f.search = normalizeSearch(&text) })
}

// SetModels 替换已选模型
func (f *FilterState) SetModels(models []string) {
	f.commit(func() { f.models = normalizeList(models) })
}

// SetTags 替换已选标签
func (f *FilterState) SetTags(tags []string) {
	f.commit(func() { f.tags = normalizeList(tags) })
}

// Restore 一次性恢复全部筛选条件，只提交一次
func (f *FilterState) Restore(q FeedQuery) {
	q = NewFeedQuery(q.Search, q.Models, q.Tags)
	f.supersedeSearch()
	f.commit(func() {
		f.search = q.Search
		f.models = q.Models
		f.tags = q.Tags
	})
}

// commit 应用变更，值有变化时回调 onCommit
func (f *FilterState) commit(apply func()) {
	f.commitMu.Lock()
	defer f.commitMu.Unlock()

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	before := f.queryLocked()
	apply()
	after := f.queryLocked()
	cb := f.onCommit
	f.mu.Unlock()

	if cb != nil && !before.Equal(after) {
		cb(after)
	}
}

// Search 已提交的搜索词
func (f *FilterState) Search() *string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return normalizeSearch(f.search)
}

// Models 已选模型
func (f *FilterState) Models() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.models)
}

// Tags 已选标签
func (f *FilterState) Tags() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.tags)
}

// Query 当前已提交的筛选条件
func (f *FilterState) Query() FeedQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queryLocked()
}

func (f *FilterState) queryLocked() FeedQuery {
	return FeedQuery{
		Search: normalizeSearch(f.search),
		Models: slices.Clone(f.models),
		Tags:   slices.Clone(f.tags),
	}
}

// Close 取消待触发的提交，之后的输入全部忽略
func (f *FilterState) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.debounced(func() {})
}
