package generation

import (
	"context"
	"sync"

	"genlog-api/internal/domain/entity"
	"genlog-api/internal/domain/repository"
	"genlog-api/internal/infrastructure/messaging"
)

type memGenerations struct {
	mu      sync.Mutex
	items   []*entity.Generation
	models  []string
	tags    []string
	listErr error
	calls   int
	batches []int
}

func (m *memGenerations) Create(_ context.Context, g *entity.Generation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.ID == "" {
		g.ID = "generated"
	}
	for _, existing := range m.items {
		if existing.ID == g.ID {
			return nil
		}
	}
	m.items = append(m.items, g)
	return nil
}

func (m *memGenerations) GetByID(_ context.Context, appID, id string) (*entity.Generation, error) {
	for _, g := range m.items {
		if g.AppID == appID && g.ID == id {
			return g, nil
		}
	}
	return nil, nil
}

func (m *memGenerations) List(context.Context, repository.GenerationFilter, string, int) (*repository.CursorPage[*entity.Generation], error) {
	return &repository.CursorPage[*entity.Generation]{Items: m.items}, nil
}

func (m *memGenerations) Scan(_ context.Context, _ repository.GenerationFilter, batchSize int, fn func([]*entity.Generation) error) error {
	for start := 0; start < len(m.items); start += batchSize {
		end := min(start+batchSize, len(m.items))
		m.batches = append(m.batches, end-start)
		if err := fn(m.items[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (m *memGenerations) ListModelNames(context.Context, string) ([]string, error) {
	m.calls++
	return m.models, m.listErr
}

func (m *memGenerations) ListTags(context.Context, string) ([]string, error) {
	m.calls++
	return m.tags, m.listErr
}

type memApps struct {
	apps      map[string]*entity.App
	activated []string
}

func (m *memApps) Create(_ context.Context, app *entity.App) error {
	m.apps[app.ID] = app
	return nil
}

func (m *memApps) GetByID(_ context.Context, id string) (*entity.App, error) {
	return m.apps[id], nil
}

func (m *memApps) MarkActivated(_ context.Context, id string) error {
	m.activated = append(m.activated, id)
	if app, ok := m.apps[id]; ok {
		app.Activated = true
	}
	return nil
}

type memTeams struct {
	teams map[string]*entity.Team
}

func (m *memTeams) Create(_ context.Context, team *entity.Team) error {
	m.teams[team.ID] = team
	return nil
}

func (m *memTeams) GetByID(_ context.Context, id string) (*entity.Team, error) {
	return m.teams[id], nil
}

func (m *memTeams) UpdatePlan(_ context.Context, id string, plan entity.PlanTier) error {
	m.teams[id].Plan = plan
	return nil
}

type passTx struct{ calls int }

func (p *passTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

type recordingPublisher struct {
	sent []*messaging.GenerationIngestMessage
	err  error
}

func (p *recordingPublisher) PublishGeneration(_ context.Context, ingest *messaging.GenerationIngestMessage) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	p.sent = append(p.sent, ingest)
	return "1-0", nil
}

// mapStore 进程内的筛选项缓存
type mapStore struct {
	values      map[string][]string
	invalidated []string
}

func (s *mapStore) Strings(ctx context.Context, appID, kind string, load func(ctx context.Context) ([]string, error)) ([]string, error) {
	key := appID + ":" + kind
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	s.values[key] = v
	return v, nil
}

func (s *mapStore) Invalidate(_ context.Context, appID string) error {
	s.invalidated = append(s.invalidated, appID)
	for k := range s.values {
		if len(k) > len(appID) && k[:len(appID)+1] == appID+":" {
			delete(s.values, k)
		}
	}
	return nil
}
