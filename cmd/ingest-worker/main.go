// Package main 生成记录入库 worker 入口
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"genlog-api/internal/config"
	"genlog-api/internal/infrastructure/messaging"
	"genlog-api/internal/wire"
	"genlog-api/pkg/logger"
	"genlog-api/pkg/tracer"
)

const dlqAlertThreshold = 100

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown, err := tracer.Init(ctx, tracer.Config{
		ServiceName: "ingest-worker",
		Endpoint:    cfg.Observability.Tracing.Endpoint,
		SampleRate:  cfg.Observability.Tracing.SampleRate,
		Enabled:     cfg.Observability.Tracing.Enabled,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init tracer", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	worker, cleanup, err := wire.InitializeWorker(cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize worker", err)
	}
	defer cleanup()

	streamCfg := cfg.Messaging.RedisStream
	consumerConfig := func(stream messaging.Stream, group messaging.ConsumerGroup) messaging.ConsumerConfig {
		return messaging.ConsumerConfig{
			Stream:       stream,
			Group:        group.WithPrefix(streamCfg.ConsumerGroupPrefix),
			ConsumerName: hostnameConsumerName(),
			BlockTimeout: streamCfg.BlockTimeout,
			BatchSize:    streamCfg.BatchSize,
			RetryLimit:   streamCfg.RetryLimit,
			Backoff: messaging.BackoffConfig{
				Initial:    streamCfg.RetryBackoff.Initial,
				Max:        streamCfg.RetryBackoff.Max,
				Multiplier: streamCfg.RetryBackoff.Multiplier,
			},
		}
	}

	ingest := messaging.NewConsumer(worker.RedisClient.Redis(),
		consumerConfig(messaging.StreamGenerationIngest, messaging.ConsumerGroupIngestWorker))
	ingest.RegisterHandler(messaging.TypeGenerationIngest, worker.IngestHandler.Handle)

	archiver := messaging.NewConsumer(worker.RedisClient.Redis(),
		consumerConfig(messaging.StreamAuditLog, messaging.ConsumerGroupArchiver))
	archiver.RegisterHandler(messaging.TypeAudit, archiveAuditLog)

	for _, c := range []*messaging.Consumer{ingest, archiver} {
		if err := c.Start(ctx); err != nil {
			logger.Fatal(ctx, "failed to start consumer", err)
		}
	}
	go ingest.MonitorDLQ(ctx, dlqAlertThreshold)

	log := logger.FromContext(ctx)
	log.Info("ingest-worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("ingest-worker shutting down")
	cancel()
	ingest.Stop()
	archiver.Stop()
}

// archiveAuditLog 审计日志落到结构化日志
func archiveAuditLog(ctx context.Context, msg *messaging.Message) error {
	var entry messaging.AuditLogMessage
	if err := msg.UnmarshalPayload(&entry); err != nil {
		return err
	}
	logger.Info(ctx, "audit",
		"action", entry.Action,
		"app_id", entry.AppID,
		"team_id", entry.TeamID,
		"resource", entry.Resource,
		"status", entry.StatusCode,
		"request_id", entry.RequestID,
		"ip", entry.IPAddress,
		"metadata", entry.Metadata,
	)
	return nil
}

func hostnameConsumerName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "worker"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}
