package router

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"genlog-api/internal/application/dashboard"
	"genlog-api/internal/application/generation"
	"genlog-api/internal/config"
	"genlog-api/internal/domain/entity"
	"genlog-api/internal/domain/repository"
	"genlog-api/internal/infrastructure/messaging"
	"genlog-api/internal/interfaces/http/handler"
	"genlog-api/pkg/errors"
)

type fakeGenerations struct {
	mu      sync.Mutex
	items   []*entity.Generation
	filters []repository.GenerationFilter
	scanErr error
}

func (f *fakeGenerations) Create(_ context.Context, g *entity.Generation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, g)
	return nil
}

func (f *fakeGenerations) GetByID(_ context.Context, appID, id string) (*entity.Generation, error) {
	for _, g := range f.items {
		if g.AppID == appID && g.ID == id {
			return g, nil
		}
	}
	return nil, nil
}

func (f *fakeGenerations) List(_ context.Context, filter repository.GenerationFilter, cursor string, limit int) (*repository.CursorPage[*entity.Generation], error) {
	if _, err := repository.DecodeCursor(cursor); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()

	var items []*entity.Generation
	for _, g := range f.items {
		if g.AppID == filter.AppID {
			items = append(items, g)
		}
	}
	page := &repository.CursorPage[*entity.Generation]{Items: items}
	if len(items) > limit {
		page.Items = items[:limit]
		page.HasMore = true
		last := items[limit-1]
		page.NextCursor = repository.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return page, nil
}

func (f *fakeGenerations) Scan(_ context.Context, filter repository.GenerationFilter, batchSize int, fn func([]*entity.Generation) error) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	var items []*entity.Generation
	for _, g := range f.items {
		if g.AppID == filter.AppID {
			items = append(items, g)
		}
	}
	for start := 0; start < len(items); start += batchSize {
		if err := fn(items[start:min(start+batchSize, len(items))]); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeGenerations) ListModelNames(context.Context, string) ([]string, error) {
	return []string{"claude-3", "gpt-4"}, nil
}

func (f *fakeGenerations) ListTags(context.Context, string) ([]string, error) {
	return []string{"prod"}, nil
}

type fakeWorkspaces map[string]*entity.Workspace

func (f fakeWorkspaces) Resolve(_ context.Context, appID string) (*entity.Workspace, error) {
	if appID == "" {
		return nil, errors.ErrInvalidParam.WithDetail("app id is required")
	}
	ws, ok := f[appID]
	if !ok {
		return nil, errors.ErrAppNotFound.WithDetail(appID)
	}
	return ws, nil
}

type fakeSubmitter struct {
	got       *entity.Generation
	requestID string
	err       error
}

func (f *fakeSubmitter) Submit(_ context.Context, requestID string, g *entity.Generation) (string, error) {
	f.got, f.requestID = g, requestID
	if f.err != nil {
		return "", f.err
	}
	return "1-0", nil
}

type countingLimiter struct {
	mu    sync.Mutex
	hits  map[string]int
}

func (l *countingLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.hits == nil {
		l.hits = map[string]int{}
	}
	l.hits[key]++
	return l.hits[key] <= limit, nil
}

type recordingAudit struct {
	logs []*messaging.AuditLogMessage
}

func (r *recordingAudit) PublishAuditLog(_ context.Context, log *messaging.AuditLogMessage) (string, error) {
	r.logs = append(r.logs, log)
	return "1-0", nil
}

type testEnv struct {
	engine    *gin.Engine
	repo      *fakeGenerations
	submitter *fakeSubmitter
	limiter   *countingLimiter
	audit     *recordingAudit
}

func genAt(id, appID string, minute int) *entity.Generation {
	return &entity.Generation{
		ID:               id,
		AppID:            appID,
		Name:             "gpt-4",
		CreatedAt:        time.Date(2024, 5, 1, 9, minute, 0, 0, time.UTC),
		PromptTokens:     10,
		CompletionTokens: 5,
		Tags:             []string{"prod"},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	origin, err := url.Parse("https://app.genlog.dev")
	require.NoError(t, err)

	repo := &fakeGenerations{items: []*entity.Generation{
		genAt("g3", "pro-app", 3),
		genAt("g2", "pro-app", 2),
		genAt("g1", "pro-app", 1),
		genAt("f1", "free-app", 1),
	}}
	workspaces := fakeWorkspaces{
		"pro-app":  {AppID: "pro-app", TeamID: "t1", Activated: true, Plan: entity.PlanPro},
		"free-app": {AppID: "free-app", TeamID: "t2", Activated: true, Plan: entity.PlanFree},
		"new-app":  {AppID: "new-app", TeamID: "t3", Activated: false, Plan: entity.PlanPro},
	}
	options := generation.NewOptionService(repo, nil)
	submitter := &fakeSubmitter{}
	limiter := &countingLimiter{}
	audit := &recordingAudit{}

	cfg := &config.Config{}
	cfg.App.Name = "genlog-test"
	cfg.App.Env = "test"

	handlers := &RouterHandlers{
		Health:     handler.NewHealthHandler(nil, nil),
		Generation: handler.NewGenerationHandler(repo, submitter),
		Export:     handler.NewExportHandler(workspaces, generation.NewExportService(repo, 2), limiter, 2, audit),
		App:        handler.NewAppHandler(workspaces, options),
		Page: handler.NewPageHandler(workspaces, options, dashboard.NewRepositorySource(repo), handler.PageConfig{
			Origin:         origin,
			SearchDebounce: 10 * time.Millisecond,
			PageSize:       2,
		}),
	}

	return &testEnv{
		engine:    NewWithDeps(cfg, handlers, limiter).Engine(),
		repo:      repo,
		submitter: submitter,
		limiter:   limiter,
		audit:     audit,
	}
}
