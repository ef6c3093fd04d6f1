package postgres

import (
	"context"
	"fmt"

	"genlog-api/internal/domain/entity"
)

// Migrate 同步表结构并补齐 GORM 无法声明的索引
func (c *Client) Migrate(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "postgres.Migrate")
	defer span.End()

	db := c.db.WithContext(ctx)
	if err := db.AutoMigrate(&entity.Team{}, &entity.App{}, &entity.Generation{}); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}

	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_generations_tags ON generations USING GIN (tags)",
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to exec migration %q: %w", stmt, err)
		}
	}
	return nil
}
