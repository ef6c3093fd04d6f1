package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"genlog-api/internal/domain/entity"
	"genlog-api/internal/domain/repository"
)

// likeEscaper 转义 LIKE 通配符
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GenerationRepository 生成记录仓储实现
type GenerationRepository struct {
	client *Client
}

// NewGenerationRepository 创建生成记录仓储
func NewGenerationRepository(client *Client) *GenerationRepository {
	return &GenerationRepository{client: client}
}

// Create 写入一条记录
func (r *GenerationRepository) Create(ctx context.Context, g *entity.Generation) error {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.Create")
	defer span.End()

	// 同一条流消息重复投递时 ID 相同，只保留第一次写入
	db := getDB(ctx, r.client.db)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(g).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create generation: %w", err)
	}
	return nil
}

// GetByID 获取应用下的单条记录
func (r *GenerationRepository) GetByID(ctx context.Context, appID, id string) (*entity.Generation, error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.GetByID")
	defer span.End()

	if !validID(appID, id) {
		return nil, nil
	}
	db := getDB(ctx, r.client.db)
	var g entity.Generation
	if err := db.Where("app_id = ? AND id = ?", appID, id).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	return &g, nil
}

// List 按 (created_at, id) 倒序的游标分页，多取一条判断是否还有下一页
func (r *GenerationRepository) List(ctx context.Context, filter repository.GenerationFilter, cursor string, limit int) (*repository.CursorPage[*entity.Generation], error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.List")
	defer span.End()
	span.SetAttributes(
		attribute.String("app_id", filter.AppID),
		attribute.Bool("first_page", cursor == ""),
	)

	after, err := repository.DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	if after != nil && !validID(after.ID) {
		return nil, fmt.Errorf("%w: malformed id", repository.ErrInvalidCursor)
	}
	limit = repository.NormalizeLimit(limit)
	if !validID(filter.AppID) {
		return &repository.CursorPage[*entity.Generation]{Items: []*entity.Generation{}}, nil
	}

	var items []*entity.Generation
	if err := r.pageQuery(getDB(ctx, r.client.db), filter, after, limit+1).Find(&items).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}

	return toCursorPage(items, limit), nil
}

// Scan 按批遍历全部匹配记录
func (r *GenerationRepository) Scan(ctx context.Context, filter repository.GenerationFilter, batchSize int, fn func(batch []*entity.Generation) error) error {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.Scan")
	defer span.End()

	if batchSize <= 0 {
		batchSize = repository.MaxLimit
	}
	if !validID(filter.AppID) {
		return nil
	}

	var after *repository.Cursor
	total := 0
	for {
		var batch []*entity.Generation
		if err := r.pageQuery(getDB(ctx, r.client.db), filter, after, batchSize).Find(&batch).Error; err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to scan generations: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		total += len(batch)
		if err := fn(batch); err != nil {
			return err
		}
		if len(batch) < batchSize {
			break
		}
		last := batch[len(batch)-1]
		after = &repository.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	span.SetAttributes(attribute.Int("rows", total))
	return nil
}

// ListModelNames 应用下出现过的模型名，按字母序
func (r *GenerationRepository) ListModelNames(ctx context.Context, appID string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.ListModelNames")
	defer span.End()

	if !validID(appID) {
		return []string{}, nil
	}
	db := getDB(ctx, r.client.db)
	var names []string
	if err := db.Model(&entity.Generation{}).
		Where("app_id = ?", appID).
		Distinct("name").
		Order("name").
		Pluck("name", &names).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list model names: %w", err)
	}
	return names, nil
}

// ListTags 应用下出现过的标签，按字母序
func (r *GenerationRepository) ListTags(ctx context.Context, appID string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "postgres.GenerationRepository.ListTags")
	defer span.End()

	if !validID(appID) {
		return []string{}, nil
	}
	db := getDB(ctx, r.client.db)
	var tags []string
	if err := db.Raw(
		"SELECT DISTINCT tag FROM generations, unnest(tags) AS tag WHERE app_id = ? ORDER BY tag",
		appID,
	).Scan(&tags).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// pageQuery 组装过滤、键集位置与排序
func (r *GenerationRepository) pageQuery(db *gorm.DB, filter repository.GenerationFilter, after *repository.Cursor, limit int) *gorm.DB {
	q := applyGenerationFilter(db.Model(&entity.Generation{}), filter)
	if after != nil {
		q = q.Where("(created_at, id) < (?, ?)", after.CreatedAt, after.ID)
	}
	return q.Order("created_at DESC").Order("id DESC").Limit(limit)
}

// applyGenerationFilter 追加过滤条件；空值不参与过滤
func applyGenerationFilter(db *gorm.DB, filter repository.GenerationFilter) *gorm.DB {
	db = db.Where("app_id = ?", filter.AppID)

	if filter.Search != nil {
		if s := strings.TrimSpace(*filter.Search); s != "" {
			pattern := "%" + likeEscaper.Replace(s) + "%"
			db = db.Where("(name ILIKE ? OR input::text ILIKE ? OR output::text ILIKE ?)", pattern, pattern, pattern)
		}
	}
	if len(filter.Models) > 0 {
		db = db.Where("name = ANY(?)", pq.Array(filter.Models))
	}
	if len(filter.Tags) > 0 {
		db = db.Where("tags && ?", pq.StringArray(filter.Tags))
	}
	return db
}

// toCursorPage 截断多取的一条并生成下一页游标
func toCursorPage(items []*entity.Generation, limit int) *repository.CursorPage[*entity.Generation] {
	page := &repository.CursorPage[*entity.Generation]{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.HasMore = true
		last := page.Items[limit-1]
		page.NextCursor = repository.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	if page.Items == nil {
		page.Items = []*entity.Generation{}
	}
	return page
}
