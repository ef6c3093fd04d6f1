package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"genlog-api/internal/domain/entity"
	"genlog-api/internal/domain/repository"
	"genlog-api/internal/infrastructure/messaging"
	"genlog-api/pkg/errors"
	"genlog-api/pkg/logger"
	"genlog-api/pkg/metrics"
)

// Publisher 投递待入库记录
type Publisher interface {
	PublishGeneration(ctx context.Context, ingest *messaging.GenerationIngestMessage) (string, error)
}

// IngestService 接收生成记录并投递到入库流
type IngestService struct {
	apps      repository.AppRepository
	publisher Publisher
}

// NewIngestService 创建入库服务
func NewIngestService(apps repository.AppRepository, publisher Publisher) *IngestService {
	return &IngestService{apps: apps, publisher: publisher}
}

// Submit 校验后投递，返回流消息 ID
func (s *IngestService) Submit(ctx context.Context, requestID string, g *entity.Generation) (string, error) {
	if err := prepare(g); err != nil {
		metrics.GenerationsIngestedTotal.WithLabelValues("rejected").Inc()
		return "", errors.ErrValidationFailed.WithDetail(err.Error())
	}

	app, err := s.apps.GetByID(ctx, g.AppID)
	if err != nil {
		return "", err
	}
	if app == nil {
		metrics.GenerationsIngestedTotal.WithLabelValues("rejected").Inc()
		return "", errors.ErrAppNotFound.WithDetail(g.AppID)
	}

	// ID 在投递前确定，消费端重复投递时写入同一主键
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	id, err := s.publisher.PublishGeneration(ctx, &messaging.GenerationIngestMessage{
		RequestID:  requestID,
		Generation: g,
	})
	if err != nil {
		metrics.GenerationsIngestedTotal.WithLabelValues("failed").Inc()
		return "", errors.Wrap(err, errors.CodeIngestFailed, "failed to enqueue generation")
	}

	metrics.GenerationsIngestedTotal.WithLabelValues("accepted").Inc()
	return id, nil
}

// prepare 规整字段并校验
func prepare(g *entity.Generation) error {
	if g == nil {
		return fmt.Errorf("generation is required")
	}
	g.AppID = strings.TrimSpace(g.AppID)
	g.Name = strings.TrimSpace(g.Name)
	g.Tags = entity.NormalizeTags(g.Tags)
	return g.Validate()
}

// OptionInvalidator 入库后让筛选项缓存失效
type OptionInvalidator interface {
	Invalidate(ctx context.Context, appID string) error
}

// IngestHandler 入库流消费逻辑
type IngestHandler struct {
	tx          repository.Transactor
	generations repository.GenerationRepository
	apps        repository.AppRepository
	options     OptionInvalidator
}

// NewIngestHandler 创建入库消费处理器
func NewIngestHandler(tx repository.Transactor, generations repository.GenerationRepository, apps repository.AppRepository, options OptionInvalidator) *IngestHandler {
	return &IngestHandler{tx: tx, generations: generations, apps: apps, options: options}
}

// Handle 持久化记录并把应用标记为已激活
func (h *IngestHandler) Handle(ctx context.Context, msg *messaging.Message) error {
	var payload messaging.GenerationIngestMessage
	if err := msg.UnmarshalPayload(&payload); err != nil {
		// 载荷无法解析，重试也不会成功
		logger.Error(ctx, "discarding undecodable generation payload", err, "message_id", msg.ID)
		metrics.GenerationsIngestedTotal.WithLabelValues("discarded").Inc()
		return nil
	}

	g := payload.Generation
	if err := prepare(g); err != nil {
		logger.Warn(ctx, "discarding invalid generation", "message_id", msg.ID, "error", err.Error())
		metrics.GenerationsIngestedTotal.WithLabelValues("discarded").Inc()
		return nil
	}

	err := h.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := h.generations.Create(ctx, g); err != nil {
			return err
		}
		return h.apps.MarkActivated(ctx, g.AppID)
	})
	if err != nil {
		metrics.GenerationsIngestedTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.GenerationsIngestedTotal.WithLabelValues("stored").Inc()
	metrics.GenerationTokens.WithLabelValues(g.Name, "prompt").Add(float64(g.PromptTokens))
	metrics.GenerationTokens.WithLabelValues(g.Name, "completion").Add(float64(g.CompletionTokens))

	if h.options != nil {
		if err := h.options.Invalidate(ctx, g.AppID); err != nil {
			logger.Warn(ctx, "failed to invalidate filter options", "error", err.Error())
		}
	}

	logger.Debug(ctx, "generation stored", "generation_id", g.ID, "model", g.Name, "tokens", g.TotalTokens())
	return nil
}
