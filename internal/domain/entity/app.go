package entity

import (
	"time"
)

// PlanTier 团队套餐
type PlanTier string

const (
	PlanFree PlanTier = "free"
	PlanPro  PlanTier = "pro"
)

// CanExport 仅 pro 套餐可直接导出
func (p PlanTier) CanExport() bool {
	return p == PlanPro
}

// Team 团队，承载套餐信息
type Team struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Plan      PlanTier  `json:"plan" gorm:"type:varchar(32);not null;default:'free'"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Team) TableName() string {
	return "teams"
}

// App 应用，生成记录归属的工作区
type App struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TeamID    string    `json:"team_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Activated bool      `json:"activated" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (App) TableName() string {
	return "apps"
}

// Workspace 页面需要的工作区上下文
type Workspace struct {
	AppID     string   `json:"app_id"`
	AppName   string   `json:"app_name"`
	TeamID    string   `json:"team_id"`
	Activated bool     `json:"activated"`
	Plan      PlanTier `json:"plan"`
}

// NewWorkspace 由应用与团队组装工作区；团队缺失时按免费套餐处理
func NewWorkspace(app *App, team *Team) *Workspace {
	ws := &Workspace{
		AppID:     app.ID,
		AppName:   app.Name,
		TeamID:    app.TeamID,
		Activated: app.Activated,
		Plan:      PlanFree,
	}
	if team != nil && team.Plan != "" {
		ws.Plan = team.Plan
	}
	return ws
}
