package dashboard

import (
	"cmp"
	"time"

	"genlog-api/internal/domain/entity"
)

// DateTimeLayout 抽屉标题与导出中的时间格式
const DateTimeLayout = "Jan 2, 2006, 15:04:05"

// Column 表格列定义；Cell 对缺失的可选字段返回 nil
type Column struct {
	ID       string
	Header   string
	Size     int
	Sortable bool
	Cell     func(g *entity.Generation) any
	Compare  func(a, b *entity.Generation) int
}

// Columns 生成记录表格的列，顺序即展示顺序
func Columns() []Column {
	return []Column{
		{ID: "created_at", Header: "Time", Size: 60, Sortable: true,
			Cell: func(g *entity.Generation) any { return g.CreatedAt },
			Compare: func(a, b *entity.Generation) int { return a.CreatedAt.Compare(b.CreatedAt) }},
		{ID: "name", Header: "Model", Size: 80,
			Cell: func(g *entity.Generation) any { return g.Name }},
		{ID: "duration", Header: "Duration", Size: 25, Sortable: true,
			Cell: func(g *entity.Generation) any { return durationSeconds(g.DurationMs) },
			Compare: func(a, b *entity.Generation) int { return cmp.Compare(a.DurationMs, b.DurationMs) }},
		{ID: "user", Header: "User", Size: 60,
			Cell: func(g *entity.Generation) any { return derefString(g.UserID) }},
		{ID: "tokens", Header: "Tokens", Size: 25, Sortable: true,
			Cell:    func(g *entity.Generation) any { return g.TotalTokens() },
			Compare: CompareTokens},
		{ID: "cost", Header: "Cost", Size: 25, Sortable: true,
			Cell:    func(g *entity.Generation) any { return derefFloat(g.Cost) },
			Compare: compareCost},
		{ID: "feedback", Header: "Feedback", Size: 30,
			Cell: func(g *entity.Generation) any { return feedbackCell(g.Feedback) }},
		{ID: "tags", Header: "Tags", Size: 60,
			Cell: func(g *entity.Generation) any { return tagsCell(g.Tags) }},
		{ID: "input", Header: "Prompt", Size: 200,
			Cell: func(g *entity.Generation) any { return jsonCell(g.Input) }},
		{ID: "output", Header: "Result", Size: 200,
			Cell: outputCell},
	}
}

func durationSeconds(ms int64) float64 {
	return float64(ms) / 1000
}

func derefString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func derefFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func feedbackCell(fb *entity.Feedback) any {
	if fb == nil || (fb.Thumbs == "" && fb.Comment == "") {
		return nil
	}
	return *fb
}

func tagsCell(tags []string) any {
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func jsonCell(j entity.JSON) any {
	if j.IsEmpty() {
		return nil
	}
	return j
}

// outputCell 失败的调用展示错误内容，否则展示输出
func outputCell(g *entity.Generation) any {
	if g.HasError() {
		return jsonCell(g.Error)
	}
	return jsonCell(g.Output)
}

// compareCost 未记录成本的排在最前
func compareCost(a, b *entity.Generation) int {
	switch {
	case a.Cost == nil && b.Cost == nil:
		return 0
	case a.Cost == nil:
		return -1
	case b.Cost == nil:
		return 1
	default:
		return cmp.Compare(*a.Cost, *b.Cost)
	}
}

// Row 一行已提取的单元格
type Row struct {
	ID    string         `json:"id"`
	Cells map[string]any `json:"cells"`
}

// BuildRows 按列提取每条记录的单元格
func BuildRows(columns []Column, records []*entity.Generation) []Row {
	rows := make([]Row, 0, len(records))
	for _, g := range records {
		cells := make(map[string]any, len(columns))
		for _, c := range columns {
			cells[c.ID] = c.Cell(g)
		}
		rows = append(rows, Row{ID: g.ID, Cells: cells})
	}
	return rows
}

// DetailView 详情抽屉内容
type DetailView struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Model            string      `json:"model"`
	Temperature      *float64    `json:"temperature,omitempty"`
	Input            entity.JSON `json:"input"`
	PromptTokens     int         `json:"prompt_tokens"`
	OutputLabel      string      `json:"output_label"`
	Output           entity.JSON `json:"output"`
	CompletionTokens int         `json:"completion_tokens"`
}

// NewDetailView 组装详情；有错误时展示错误而不展示输出
func NewDetailView(g *entity.Generation) *DetailView {
	if g == nil {
		return nil
	}
	v := &DetailView{
		ID:               g.ID,
		Title:            FormatDateTime(g.CreatedAt),
		Model:            g.Name,
		Input:            g.Input,
		PromptTokens:     g.PromptTokens,
		OutputLabel:      "Output",
		Output:           g.Output,
		CompletionTokens: g.CompletionTokens,
	}
	if t, ok := g.Temperature(); ok {
		v.Temperature = &t
	}
	if g.HasError() {
		v.OutputLabel = "Error"
		v.Output = g.Error
	}
	return v
}

// FormatDateTime 统一的时间展示格式
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}
