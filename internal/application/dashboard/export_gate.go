package dashboard

import (
	"genlog-api/internal/domain/entity"
)

const (
	// ExportLabel 导出按钮文案
	ExportLabel = "Export to CSV"
	// UpgradeModal 升级弹窗标识
	UpgradeModal = "upgrade"
	// UpgradeModalSize 升级弹窗宽度
	UpgradeModalSize = 800
)

// ExportActionKind 导出动作类别
type ExportActionKind string

const (
	ExportDirect  ExportActionKind = "download"
	ExportUpgrade ExportActionKind = "upgrade"
)

// ExportAction 导出按钮的两种形态之一
type ExportAction interface {
	Kind() ExportActionKind
}

// DirectDownload 直接下载链接
type DirectDownload struct {
	Label string
	URL   string
}

// Kind 实现 ExportAction
func (DirectDownload) Kind() ExportActionKind { return ExportDirect }

// UpgradePrompt 打开升级弹窗，不发起导出请求
type UpgradePrompt struct {
	Label string
	Modal string
	Size  int
}

// Kind 实现 ExportAction
func (UpgradePrompt) Kind() ExportActionKind { return ExportUpgrade }

// DecideExportAction pro 套餐给出下载链接，其余套餐给出升级提示
func DecideExportAction(plan entity.PlanTier, exportURL string) ExportAction {
	if plan.CanExport() {
		return DirectDownload{Label: ExportLabel, URL: exportURL}
	}
	return UpgradePrompt{Label: ExportLabel, Modal: UpgradeModal, Size: UpgradeModalSize}
}
