package generation

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"genlog-api/internal/application/dashboard"
	"genlog-api/internal/domain/entity"
	"genlog-api/internal/domain/repository"
	"genlog-api/pkg/errors"
	"genlog-api/pkg/logger"
	"genlog-api/pkg/metrics"
)

// exportHeader CSV 表头
var exportHeader = []string{
	"id", "created_at", "model", "duration_ms", "user_id",
	"prompt_tokens", "completion_tokens", "total_tokens", "cost",
	"feedback", "feedback_comment", "tags", "temperature",
	"input", "output", "error",
}

// ExportService 把筛选结果写成 CSV
type ExportService struct {
	repo      repository.GenerationRepository
	batchSize int
}

// NewExportService 创建导出服务
func NewExportService(repo repository.GenerationRepository, batchSize int) *ExportService {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &ExportService{repo: repo, batchSize: batchSize}
}

// Export 校验套餐后写出 CSV，返回写出的行数
func (s *ExportService) Export(ctx context.Context, ws *entity.Workspace, q dashboard.FeedQuery, w io.Writer) (int, error) {
	if ws == nil || !ws.Plan.CanExport() {
		metrics.ExportTotal.WithLabelValues("denied").Inc()
		return 0, errors.ErrPlanUpgradeRequired
	}

	rows, err := s.WriteCSV(ctx, q.Filter(ws.AppID), w)
	if err != nil {
		metrics.ExportTotal.WithLabelValues("failed").Inc()
		return rows, errors.Wrap(err, errors.CodeExportFailed, "generation export failed")
	}

	metrics.ExportTotal.WithLabelValues("ok").Inc()
	metrics.ExportRows.Observe(float64(rows))
	logger.Info(ctx, "generations exported", "rows", rows)
	return rows, nil
}

// WriteCSV 按批读取并写出，不做套餐校验
func (s *ExportService) WriteCSV(ctx context.Context, filter repository.GenerationFilter, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("failed to write csv header: %w", err)
	}

	rows := 0
	err := s.repo.Scan(ctx, filter, s.batchSize, func(batch []*entity.Generation) error {
		for _, g := range batch {
			if err := cw.Write(csvRecord(g)); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
			rows++
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		return rows, err
	}

	cw.Flush()
	return rows, cw.Error()
}

func csvRecord(g *entity.Generation) []string {
	rec := []string{
		g.ID,
		g.CreatedAt.UTC().Format(time.RFC3339),
		safeCell(g.Name),
		strconv.FormatInt(g.DurationMs, 10),
		"",
		strconv.Itoa(g.PromptTokens),
		strconv.Itoa(g.CompletionTokens),
		strconv.Itoa(g.TotalTokens()),
		"",
		"",
		"",
		safeCell(strings.Join(g.Tags, ",")),
		"",
		safeCell(g.Input.Text()),
		safeCell(g.Output.Text()),
		safeCell(g.Error.Text()),
	}
	if g.UserID != nil {
		rec[4] = safeCell(*g.UserID)
	}
	if g.Cost != nil {
		rec[8] = strconv.FormatFloat(*g.Cost, 'f', -1, 64)
	}
	if g.Feedback != nil {
		rec[9] = string(g.Feedback.Thumbs)
		rec[10] = safeCell(g.Feedback.Comment)
	}
	if temp, ok := g.Temperature(); ok {
		rec[12] = strconv.FormatFloat(temp, 'f', -1, 64)
	}
	return rec
}

// safeCell 以公式触发字符开头的文本加 ' 前缀，表格软件打开时按文本显示
func safeCell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}
