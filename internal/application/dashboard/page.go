package dashboard

import (
	"context"
	"net/url"
	"slices"
	"sync"
	"time"

	"genlog-api/internal/domain/entity"
)

const (
	// PageTitle 页面标题
	PageTitle = "Generations"
	// EmptyWhat 未激活时空状态提示的对象
	EmptyWhat = "requests"
)

// PageOptions 页面参数
type PageOptions struct {
	Origin         *url.URL
	SearchDebounce time.Duration
	PageSize       int
}

// Page 组合筛选、列表、选中与导出的页面控制器
type Page struct {
	mu sync.Mutex

	workspace *entity.Workspace
	origin    *url.URL
	columns   []Column

	filters   *FilterState
	feed      *Feed
	selection *Selection

	modelOptions []string
	tagOptions   []string
}

// NewPage 挂载页面：创建空的筛选与选中状态并发起首屏请求
func NewPage(ctx context.Context, ws *entity.Workspace, source FeedSource, opts PageOptions) *Page {
	appID := ""
	if ws != nil {
		appID = ws.AppID
	}

	p := &Page{
		workspace: ws,
		origin:    opts.Origin,
		columns:   Columns(),
		feed:      NewFeed(ctx, source, appID, opts.PageSize),
		selection: NewSelection(),
	}
	p.filters = NewFilterState(opts.SearchDebounce, p.feed.SetQuery)
	p.feed.SetQuery(p.filters.Query())
	return p
}

// Filters 筛选状态
func (p *Page) Filters() *FilterState { return p.filters }

// Feed 记录列表
func (p *Page) Feed() *Feed { return p.feed }

// Selection 选中状态
func (p *Page) Selection() *Selection { return p.selection }

// SetWorkspace 更新工作区上下文（激活状态、套餐）
func (p *Page) SetWorkspace(ws *entity.Workspace) {
	p.mu.Lock()
	p.workspace = ws
	p.mu.Unlock()
}

// SetFilterOptions 设置模型与标签下拉的候选项
func (p *Page) SetFilterOptions(models, tags []string) {
	p.mu.Lock()
	p.modelOptions = slices.Clone(models)
	p.tagOptions = slices.Clone(tags)
	p.mu.Unlock()
}

// SelectByID 在已加载的记录中按 ID 选中，找不到时清空选中
func (p *Page) SelectByID(id string) bool {
	if id == "" {
		p.selection.Clear()
		return false
	}
	for _, g := range p.feed.Snapshot().Records {
		if g.ID == id {
			p.selection.Select(g)
			return true
		}
	}
	p.selection.Clear()
	return false
}

// ExportURL 当前筛选条件下的导出链接
func (p *Page) ExportURL() string {
	p.mu.Lock()
	origin, ws := p.origin, p.workspace
	p.mu.Unlock()

	appID := ""
	if ws != nil {
		appID = ws.AppID
	}
	return ExportURLForQuery(origin, appID, p.filters.Query())
}

// Close 卸载页面：取消防抖与在途请求，丢弃选中
func (p *Page) Close() {
	p.filters.Close()
	p.feed.Close()
	p.selection.Clear()
}

// EmptyState 空状态提示
type EmptyState struct {
	What string `json:"what"`
}

// FilterView 筛选区
type FilterView struct {
	Search            *string  `json:"search"`
	Models            []string `json:"models"`
	Tags              []string `json:"tags"`
	ModelOptions      []string `json:"model_options"`
	TagOptions        []string `json:"tag_options"`
	SearchPlaceholder string   `json:"search_placeholder"`
	ModelPlaceholder  string   `json:"model_placeholder"`
	TagPlaceholder    string   `json:"tag_placeholder"`
}

// ColumnView 列头
type ColumnView struct {
	ID       string `json:"id"`
	Header   string `json:"header"`
	Size     int    `json:"size"`
	Sortable bool   `json:"sortable"`
}

// TableView 表格区；Loading 为整表加载，LoadingMore 为底部加载提示
type TableView struct {
	Columns     []ColumnView `json:"columns"`
	Rows        []Row        `json:"rows"`
	Loading     bool         `json:"loading"`
	LoadingMore bool         `json:"loading_more"`
	HasMore     bool         `json:"has_more"`
	Error       string       `json:"error,omitempty"`
}

// PageView 页面的一次渲染结果
// 空状态分支下只有 Title 与 EmptyState
type PageView struct {
	Title      string       `json:"title"`
	EmptyState *EmptyState  `json:"empty_state,omitempty"`
	Export     ExportAction `json:"-"`
	Filters    *FilterView  `json:"filters,omitempty"`
	Table      *TableView   `json:"table,omitempty"`
	Drawer     *DetailView  `json:"drawer,omitempty"`
}

// ShowsEmptyState 是否渲染空状态
func (v PageView) ShowsEmptyState() bool {
	return v.EmptyState != nil
}

// View 渲染页面
// 首屏加载中从不展示空状态；加载结束且工作区未激活时只展示空状态
func (p *Page) View() PageView {
	snap := p.feed.Snapshot()

	p.mu.Lock()
	ws := p.workspace
	modelOptions := slices.Clone(p.modelOptions)
	tagOptions := slices.Clone(p.tagOptions)
	p.mu.Unlock()

	activated := ws != nil && ws.Activated
	if !snap.IsLoading && !activated {
		return PageView{Title: PageTitle, EmptyState: &EmptyState{What: EmptyWhat}}
	}

	plan := entity.PlanFree
	if ws != nil {
		plan = ws.Plan
	}

	q := p.filters.Query()
	view := PageView{
		Title:  PageTitle,
		Export: DecideExportAction(plan, p.ExportURL()),
		Filters: &FilterView{
			Search:            q.Search,
			Models:            q.Models,
			Tags:              q.Tags,
			ModelOptions:      modelOptions,
			TagOptions:        tagOptions,
			SearchPlaceholder: "Type to filter",
			ModelPlaceholder:  "Model",
			TagPlaceholder:    "Tags",
		},
		Table:  p.tableView(snap),
		Drawer: NewDetailView(p.selection.Current()),
	}
	return view
}

func (p *Page) tableView(snap FeedSnapshot) *TableView {
	cols := make([]ColumnView, 0, len(p.columns))
	for _, c := range p.columns {
		cols = append(cols, ColumnView{ID: c.ID, Header: c.Header, Size: c.Size, Sortable: c.Sortable})
	}
	t := &TableView{
		Columns:     cols,
		Rows:        BuildRows(p.columns, snap.Records),
		Loading:     snap.IsLoading,
		LoadingMore: snap.IsValidatingMore,
		HasMore:     snap.HasMore,
	}
	if snap.Err != nil {
		t.Error = snap.Err.Error()
	}
	return t
}
