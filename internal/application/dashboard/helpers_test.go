package dashboard

import (
	"context"
	"testing"
	"time"

	"genlog-api/internal/domain/entity"
)

func gen(id string, prompt, completion int) *entity.Generation {
	return &entity.Generation{
		ID:               id,
		AppID:            "app-1",
		Name:             "gpt-4o",
		CreatedAt:        time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		PromptTokens:     prompt,
		CompletionTokens: completion,
	}
}

func strPtr(s string) *string { return &s }

type fetchResult struct {
	page *FeedPage
	err  error
}

type pendingFetch struct {
	appID  string
	query  FeedQuery
	cursor string
	limit  int
	reply  chan fetchResult
}

func (p *pendingFetch) respond(page *FeedPage, err error) {
	p.reply <- fetchResult{page: page, err: err}
}

// scriptedSource 每次请求都阻塞，直到测试显式回复；不响应 ctx 取消，便于构造过期响应
type scriptedSource struct {
	calls chan *pendingFetch
}

func newScriptedSource() *scriptedSource {
	return &scriptedSource{calls: make(chan *pendingFetch, 16)}
}

func (s *scriptedSource) FetchPage(_ context.Context, appID string, q FeedQuery, cursor string, limit int) (*FeedPage, error) {
	p := &pendingFetch{appID: appID, query: q, cursor: cursor, limit: limit, reply: make(chan fetchResult, 1)}
	s.calls <- p
	r := <-p.reply
	return r.page, r.err
}

func (s *scriptedSource) next(t *testing.T) *pendingFetch {
	t.Helper()
	select {
	case p := <-s.calls:
		return p
	case <-time.After(time.Second):
		t.Fatal("expected a page fetch, none was issued")
		return nil
	}
}

func (s *scriptedSource) assertIdle(t *testing.T) {
	t.Helper()
	select {
	case p := <-s.calls:
		t.Fatalf("unexpected page fetch: cursor=%q query=%q", p.cursor, p.query.Key())
	case <-time.After(30 * time.Millisecond):
	}
}

func ids(records []*entity.Generation) []string {
	out := make([]string, 0, len(records))
	for _, g := range records {
		out = append(out, g.ID)
	}
	return out
}
