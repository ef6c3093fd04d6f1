package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"genlog-api/internal/domain/entity"
)

// AppRepository 应用仓储实现
type AppRepository struct {
	client *Client
}

// NewAppRepository 创建应用仓储
func NewAppRepository(client *Client) *AppRepository {
	return &AppRepository{client: client}
}

// Create 创建应用
func (r *AppRepository) Create(ctx context.Context, app *entity.App) error {
	ctx, span := tracer.Start(ctx, "postgres.AppRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(app).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create app: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取应用
func (r *AppRepository) GetByID(ctx context.Context, id string) (*entity.App, error) {
	ctx, span := tracer.Start(ctx, "postgres.AppRepository.GetByID")
	defer span.End()

	if !validID(id) {
		return nil, nil
	}
	db := getDB(ctx, r.client.db)
	var app entity.App
	if err := db.First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get app: %w", err)
	}
	return &app, nil
}

// MarkActivated 标记应用已收到首条记录
func (r *AppRepository) MarkActivated(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.AppRepository.MarkActivated")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.App{}).
		Where("id = ? AND activated = ?", id, false).
		Update("activated", true).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to mark app activated: %w", err)
	}
	return nil
}
