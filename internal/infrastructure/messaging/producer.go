package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"genlog-api/pkg/logger"
)

var tracer = otel.Tracer("messaging")

// Producer 消息生产者
type Producer struct {
	client *redis.Client
	maxLen int64
}

// NewProducer 创建消息生产者
func NewProducer(client *redis.Client, maxLen int64) *Producer {
	if maxLen <= 0 {
		maxLen = 100000
	}
	return &Producer{
		client: client,
		maxLen: maxLen,
	}
}

// Publish 发布消息到指定流
func (p *Producer) Publish(ctx context.Context, stream Stream, msg *Message) (string, error) {
	ctx, span := tracer.Start(ctx, "producer.Publish",
		trace.WithAttributes(
			attribute.String("stream", string(stream)),
			attribute.String("message.id", msg.ID),
			attribute.String("message.type", msg.Type),
		))
	defer span.End()

	data, err := json.Marshal(msg)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	result, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: string(stream),
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	span.SetAttributes(attribute.String("stream.message_id", result))
	return result, nil
}

// PublishGeneration 投递一条待入库的生成记录
func (p *Producer) PublishGeneration(ctx context.Context, ingest *GenerationIngestMessage) (string, error) {
	g := ingest.Generation
	msg, err := NewMessage(uuid.NewString(), TypeGenerationIngest, g.AppID, ingest)
	if err != nil {
		return "", err
	}
	stampTrace(ctx, msg, ingest.RequestID)
	return p.Publish(ctx, StreamGenerationIngest, msg)
}

// PublishAuditLog 发布审计日志
func (p *Producer) PublishAuditLog(ctx context.Context, log *AuditLogMessage) (string, error) {
	msg, err := NewMessage(uuid.NewString(), TypeAudit, log.AppID, log)
	if err != nil {
		return "", err
	}
	msg.TeamID = log.TeamID
	stampTrace(ctx, msg, log.RequestID)
	return p.Publish(ctx, StreamAuditLog, msg)
}

// stampTrace 把请求与追踪标识带到消费端日志
func stampTrace(ctx context.Context, msg *Message, requestID string) {
	if requestID == "" {
		requestID, _ = ctx.Value(logger.RequestIDKey).(string)
	}
	if requestID != "" {
		msg.SetMetadata("request_id", requestID)
	}
	if traceID, ok := ctx.Value(logger.TraceIDKey).(string); ok && traceID != "" {
		msg.SetMetadata("trace_id", traceID)
	}
}
