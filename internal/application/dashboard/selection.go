package dashboard

import (
	"sync"

	"genlog-api/internal/domain/entity"
)

// Selection 当前在详情抽屉中展示的记录，至多一条
type Selection struct {
	mu      sync.Mutex
	current *entity.Generation
}

// NewSelection 创建空选中状态
func NewSelection() *Selection {
	return &Selection{}
}

// Select 选中记录（保存引用），传 nil 等同于 Clear
func (s *Selection) Select(g *entity.Generation) {
	s.mu.Lock()
	s.current = g
	s.mu.Unlock()
}

// Clear 关闭详情
func (s *Selection) Clear() {
	s.Select(nil)
}

// Current 当前选中记录
func (s *Selection) Current() *entity.Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// IsOpen 详情抽屉是否打开
func (s *Selection) IsOpen() bool {
	return s.Current() != nil
}
