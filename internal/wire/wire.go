//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"github.com/google/wire"

	"genlog-api/internal/application/dashboard"
	"genlog-api/internal/application/generation"
	"genlog-api/internal/config"
	"genlog-api/internal/domain/repository"
	"genlog-api/internal/infrastructure/messaging"
	"genlog-api/internal/infrastructure/persistence/postgres"
	"genlog-api/internal/infrastructure/persistence/redis"
	"genlog-api/internal/interfaces/http/handler"
	"genlog-api/internal/interfaces/http/middleware"
	"genlog-api/internal/interfaces/http/router"
)

// InitializeApp 初始化 HTTP 服务（带路由器）
func InitializeApp(cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		PostgresSet,
		TeamSet,
		RedisSet,
		MessagingSet,
		ServiceSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializeWorker 初始化入库 worker
func InitializeWorker(cfg *config.Config) (*Worker, func(), error) {
	wire.Build(
		PostgresSet,
		TxSet,
		ProvideRedisClient,
		redis.NewCache,
		ProvideOptionCache,
		generation.NewOptionService,
		generation.NewIngestHandler,
		wire.Bind(new(generation.OptionStore), new(*redis.OptionCache)),
		wire.Bind(new(generation.OptionInvalidator), new(*generation.OptionService)),
		wire.Struct(new(Worker), "*"),
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		ProvidePostgresClient,
		postgres.NewAppRepository,
		postgres.NewTeamRepository,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 客户端与生成记录、应用仓储
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewGenerationRepository,
	postgres.NewAppRepository,
	wire.Bind(new(repository.GenerationRepository), new(*postgres.GenerationRepository)),
	wire.Bind(new(repository.AppRepository), new(*postgres.AppRepository)),
)

// TeamSet 团队仓储
var TeamSet = wire.NewSet(
	postgres.NewTeamRepository,
	wire.Bind(new(repository.TeamRepository), new(*postgres.TeamRepository)),
)

// TxSet 事务管理
var TxSet = wire.NewSet(
	postgres.NewTxManager,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	ProvideOptionCache,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	wire.Bind(new(generation.Publisher), new(*messaging.Producer)),
)

// ServiceSet 应用服务集合
var ServiceSet = wire.NewSet(
	generation.NewWorkspaceService,
	generation.NewOptionService,
	generation.NewIngestService,
	ProvideExportService,
	dashboard.NewRepositorySource,
	wire.Bind(new(generation.OptionStore), new(*redis.OptionCache)),
	wire.Bind(new(dashboard.FeedSource), new(*dashboard.RepositorySource)),
	wire.Bind(new(handler.WorkspaceResolver), new(*generation.WorkspaceService)),
	wire.Bind(new(handler.OptionProvider), new(*generation.OptionService)),
	wire.Bind(new(handler.GenerationSubmitter), new(*generation.IngestService)),
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideHealthHandler,
	handler.NewGenerationHandler,
	ProvideExportHandler,
	handler.NewAppHandler,
	ProvidePageConfig,
	handler.NewPageHandler,
	wire.Struct(new(router.RouterHandlers), "*"),
	router.NewWithDeps,
)
