// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// FeedbackThumbs 反馈倾向
type FeedbackThumbs string

const (
	FeedbackUp   FeedbackThumbs = "up"
	FeedbackDown FeedbackThumbs = "down"
)

// Feedback 终端用户对一次生成的反馈
type Feedback struct {
	Thumbs  FeedbackThumbs `json:"thumbs,omitempty"`
	Comment string         `json:"comment,omitempty"`
}

// Params 调用参数，只有 Temperature 参与展示
type Params struct {
	Temperature *float64       `json:"temperature,omitempty"`
	MaxTokens   *int           `json:"max_tokens,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// Generation 一次模型调用记录
type Generation struct {
	ID               string         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AppID            string         `json:"app_id" gorm:"type:uuid;not null;index:idx_generations_app_created,priority:1"`
	CreatedAt        time.Time      `json:"created_at" gorm:"not null;index:idx_generations_app_created,priority:2,sort:desc"`
	Name             string         `json:"name" gorm:"type:varchar(128);not null;index"`
	DurationMs       int64          `json:"duration_ms" gorm:"not null;default:0"`
	UserID           *string        `json:"user_id,omitempty" gorm:"type:varchar(255)"`
	PromptTokens     int            `json:"prompt_tokens" gorm:"not null;default:0"`
	CompletionTokens int            `json:"completion_tokens" gorm:"not null;default:0"`
	Cost             *float64       `json:"cost,omitempty" gorm:"type:numeric(14,6)"`
	Feedback         *Feedback      `json:"feedback,omitempty" gorm:"type:jsonb;serializer:json"`
	Tags             pq.StringArray `json:"tags" gorm:"type:text[];not null;default:'{}'"`
	Input            JSON           `json:"input,omitempty" gorm:"type:jsonb"`
	Output           JSON           `json:"output,omitempty" gorm:"type:jsonb"`
	Error            JSON           `json:"error,omitempty" gorm:"type:jsonb"`
	Params           *Params        `json:"params,omitempty" gorm:"type:jsonb;serializer:json"`
}

// TableName 指定表名
func (Generation) TableName() string {
	return "generations"
}

// TotalTokens 提示词与补全 token 之和，不落库
func (g *Generation) TotalTokens() int {
	return g.PromptTokens + g.CompletionTokens
}

// HasError 是否为失败的调用
func (g *Generation) HasError() bool {
	return !g.Error.IsEmpty()
}

// Temperature 返回温度参数，未设置时 ok 为 false
func (g *Generation) Temperature() (float64, bool) {
	if g.Params == nil || g.Params.Temperature == nil {
		return 0, false
	}
	return *g.Params.Temperature, true
}

// Validate 校验入库前的记录
func (g *Generation) Validate() error {
	if strings.TrimSpace(g.AppID) == "" {
		return fmt.Errorf("app_id is required")
	}
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if g.PromptTokens < 0 {
		return fmt.Errorf("prompt_tokens must be >= 0, got %d", g.PromptTokens)
	}
	if g.CompletionTokens < 0 {
		return fmt.Errorf("completion_tokens must be >= 0, got %d", g.CompletionTokens)
	}
	if g.DurationMs < 0 {
		return fmt.Errorf("duration_ms must be >= 0, got %d", g.DurationMs)
	}
	if g.Cost != nil && *g.Cost < 0 {
		return fmt.Errorf("cost must be >= 0")
	}
	return nil
}

// NormalizeTags 去掉空白与重复标签，保持首次出现顺序
func NormalizeTags(tags []string) pq.StringArray {
	out := make(pq.StringArray, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
