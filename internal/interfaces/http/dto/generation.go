package dto

import (
	"time"

	"genlog-api/internal/domain/entity"
)

// GenerationResponse 生成记录响应
type GenerationResponse struct {
	ID               string           `json:"id"`
	AppID            string           `json:"app_id"`
	CreatedAt        time.Time        `json:"created_at"`
	Name             string           `json:"name"`
	DurationMs       int64            `json:"duration_ms"`
	UserID           *string          `json:"user_id,omitempty"`
	PromptTokens     int              `json:"prompt_tokens"`
	CompletionTokens int              `json:"completion_tokens"`
	TotalTokens      int              `json:"total_tokens"`
	Cost             *float64         `json:"cost,omitempty"`
	Feedback         *entity.Feedback `json:"feedback,omitempty"`
	Tags             []string         `json:"tags"`
	Input            entity.JSON      `json:"input,omitempty"`
	Output           entity.JSON      `json:"output,omitempty"`
	Error            entity.JSON      `json:"error,omitempty"`
	Params           *entity.Params   `json:"params,omitempty"`
}

// GenerationListResponse 生成记录列表响应
type GenerationListResponse struct {
	Items []*GenerationResponse `json:"items"`
}

// IngestGenerationRequest 上报生成记录请求
type IngestGenerationRequest struct {
	AppID            string           `json:"app_id" binding:"required"`
	CreatedAt        *time.Time       `json:"created_at"`
	Name             string           `json:"name" binding:"required"`
	DurationMs       int64            `json:"duration_ms"`
	UserID           *string          `json:"user_id"`
	PromptTokens     int              `json:"prompt_tokens"`
	CompletionTokens int              `json:"completion_tokens"`
	Cost             *float64         `json:"cost"`
	Feedback         *entity.Feedback `json:"feedback"`
	Tags             []string         `json:"tags"`
	Input            entity.JSON      `json:"input"`
	Output           entity.JSON      `json:"output"`
	Error            entity.JSON      `json:"error"`
	Params           *entity.Params   `json:"params"`
}

// IngestGenerationResponse 上报受理响应
type IngestGenerationResponse struct {
	MessageID string `json:"message_id"`
}

// ToEntity 转换为实体；未提供时间时取当前时间
func (r *IngestGenerationRequest) ToEntity() *entity.Generation {
	createdAt := time.Now().UTC()
	if r.CreatedAt != nil {
		createdAt = r.CreatedAt.UTC()
	}
	return &entity.Generation{
		AppID:            r.AppID,
		CreatedAt:        createdAt,
		Name:             r.Name,
		DurationMs:       r.DurationMs,
		UserID:           r.UserID,
		PromptTokens:     r.PromptTokens,
		CompletionTokens: r.CompletionTokens,
		Cost:             r.Cost,
		Feedback:         r.Feedback,
		Tags:             entity.NormalizeTags(r.Tags),
		Input:            r.Input,
		Output:           r.Output,
		Error:            r.Error,
		Params:           r.Params,
	}
}

// ToGenerationResponse 实体转换为响应
func ToGenerationResponse(g *entity.Generation) *GenerationResponse {
	if g == nil {
		return nil
	}
	tags := []string(g.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &GenerationResponse{
		ID:               g.ID,
		AppID:            g.AppID,
		CreatedAt:        g.CreatedAt,
		Name:             g.Name,
		DurationMs:       g.DurationMs,
		UserID:           g.UserID,
		PromptTokens:     g.PromptTokens,
		CompletionTokens: g.CompletionTokens,
		TotalTokens:      g.TotalTokens(),
		Cost:             g.Cost,
		Feedback:         g.Feedback,
		Tags:             tags,
		Input:            g.Input,
		Output:           g.Output,
		Error:            g.Error,
		Params:           g.Params,
	}
}

// ToGenerationListResponse 实体列表转换为响应
func ToGenerationListResponse(items []*entity.Generation) *GenerationListResponse {
	out := make([]*GenerationResponse, 0, len(items))
	for _, g := range items {
		out = append(out, ToGenerationResponse(g))
	}
	return &GenerationListResponse{Items: out}
}
