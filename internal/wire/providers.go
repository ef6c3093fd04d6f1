package wire

import (
	"genlog-api/internal/application/generation"
	"genlog-api/internal/config"
	"genlog-api/internal/domain/repository"
	"genlog-api/internal/infrastructure/messaging"
	"genlog-api/internal/infrastructure/persistence/postgres"
	"genlog-api/internal/infrastructure/persistence/redis"
	"genlog-api/internal/interfaces/http/handler"
)

// Worker 入库 worker 依赖容器
type Worker struct {
	RedisClient   *redis.Client
	IngestHandler *generation.IngestHandler
}

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient *postgres.Client
	AppRepo  *postgres.AppRepository
	TeamRepo *postgres.TeamRepository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideOptionCache 提供筛选项缓存
func ProvideOptionCache(cache *redis.Cache, cfg *config.Config) *redis.OptionCache {
	return redis.NewOptionCache(cache, cfg.Cache.Redis.FilterTTL)
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideExportService 提供导出服务
func ProvideExportService(repo repository.GenerationRepository, cfg *config.Config) *generation.ExportService {
	return generation.NewExportService(repo, cfg.Dashboard.ExportBatchSize)
}

// ProvideHealthHandler 提供健康检查处理器
func ProvideHealthHandler(pg *postgres.Client, redisClient *redis.Client) *handler.HealthHandler {
	return handler.NewHealthHandler(pg, redisClient)
}

// ProvideExportHandler 提供导出处理器，审计日志经消息流投递
func ProvideExportHandler(workspaces *generation.WorkspaceService, exporter *generation.ExportService, limiter *redis.RateLimiter, producer *messaging.Producer, cfg *config.Config) *handler.ExportHandler {
	return handler.NewExportHandler(workspaces, exporter, limiter, cfg.Dashboard.ExportRateLimitPerMinute, producer)
}

// ProvidePageConfig 提供页面渲染参数
func ProvidePageConfig(cfg *config.Config) (handler.PageConfig, error) {
	origin, err := cfg.Dashboard.Origin()
	if err != nil {
		return handler.PageConfig{}, err
	}
	return handler.PageConfig{
		Origin:         origin,
		SearchDebounce: cfg.Dashboard.SearchDebounce,
		PageSize:       cfg.Dashboard.FeedPageSize,
	}, nil
}
