package dto

import (
	"genlog-api/internal/application/dashboard"
	"genlog-api/internal/domain/entity"
)

// ExportActionResponse 导出按钮；download 带 url，upgrade 带弹窗信息
type ExportActionResponse struct {
	Kind      dashboard.ExportActionKind `json:"kind"`
	Label     string                     `json:"label"`
	URL       string                     `json:"url,omitempty"`
	Modal     string                     `json:"modal,omitempty"`
	ModalSize int                        `json:"modal_size,omitempty"`
}

// PageViewResponse 服务端渲染的页面视图
type PageViewResponse struct {
	dashboard.PageView
	Export *ExportActionResponse `json:"export,omitempty"`
}

// WorkspaceResponse 工作区响应
type WorkspaceResponse struct {
	AppID     string          `json:"app_id"`
	AppName   string          `json:"app_name"`
	TeamID    string          `json:"team_id"`
	Activated bool            `json:"activated"`
	Plan      entity.PlanTier `json:"plan"`
	CanExport bool            `json:"can_export"`
}

// OptionsResponse 筛选候选项
type OptionsResponse struct {
	Items []string `json:"items"`
}

// ToExportActionResponse 导出动作转换为响应
func ToExportActionResponse(a dashboard.ExportAction) *ExportActionResponse {
	switch v := a.(type) {
	case dashboard.DirectDownload:
		return &ExportActionResponse{Kind: v.Kind(), Label: v.Label, URL: v.URL}
	case dashboard.UpgradePrompt:
		return &ExportActionResponse{Kind: v.Kind(), Label: v.Label, Modal: v.Modal, ModalSize: v.Size}
	default:
		return nil
	}
}

// ToPageViewResponse 页面视图转换为响应
func ToPageViewResponse(v dashboard.PageView) *PageViewResponse {
	return &PageViewResponse{
		PageView: v,
		Export:   ToExportActionResponse(v.Export),
	}
}

// ToWorkspaceResponse 工作区转换为响应
func ToWorkspaceResponse(ws *entity.Workspace) *WorkspaceResponse {
	if ws == nil {
		return nil
	}
	return &WorkspaceResponse{
		AppID:     ws.AppID,
		AppName:   ws.AppName,
		TeamID:    ws.TeamID,
		Activated: ws.Activated,
		Plan:      ws.Plan,
		CanExport: ws.Plan.CanExport(),
	}
}
