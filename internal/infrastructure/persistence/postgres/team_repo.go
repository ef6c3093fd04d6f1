package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"genlog-api/internal/domain/entity"
)

// TeamRepository 团队仓储实现
type TeamRepository struct {
	client *Client
}

// NewTeamRepository 创建团队仓储
func NewTeamRepository(client *Client) *TeamRepository {
	return &TeamRepository{client: client}
}

// Create 创建团队
func (r *TeamRepository) Create(ctx context.Context, team *entity.Team) error {
	ctx, span := tracer.Start(ctx, "postgres.TeamRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(team).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取团队
func (r *TeamRepository) GetByID(ctx context.Context, id string) (*entity.Team, error) {
	ctx, span := tracer.Start(ctx, "postgres.TeamRepository.GetByID")
	defer span.End()

	if !validID(id) {
		return nil, nil
	}
	db := getDB(ctx, r.client.db)
	var team entity.Team
	if err := db.First(&team, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &team, nil
}

// UpdatePlan 变更套餐
func (r *TeamRepository) UpdatePlan(ctx context.Context, id string, plan entity.PlanTier) error {
	ctx, span := tracer.Start(ctx, "postgres.TeamRepository.UpdatePlan")
	defer span.End()

	db := getDB(ctx, r.client.db)
	res := db.Model(&entity.Team{}).Where("id = ?", id).Update("plan", plan)
	if res.Error != nil {
		span.RecordError(res.Error)
		return fmt.Errorf("failed to update team plan: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("team %s not found", id)
	}
	return nil
}
