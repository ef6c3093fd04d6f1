package dashboard

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genlog-api/internal/domain/entity"
)

func settled(f *Feed) func() bool {
	return func() bool {
		s := f.Snapshot()
		return !s.IsLoading && !s.IsValidatingMore
	}
}

func TestFeedInitialLoadThenLoadMore(t *testing.T) {
	src := newScriptedSource()
	f := NewFeed(context.Background(), src, "app-1", 2)
	defer f.Close()

	f.SetQuery(FeedQuery{})
	first := src.next(t)
	assert.Equal(t, "app-1", first.appID)
	assert.Equal(t, "", first.cursor)
	assert.Equal(t, 2, first.limit)

	snap := f.Snapshot()
	assert.True(t, snap.IsLoading)
	assert.False(t, snap.IsValidatingMore)

	first.respond(&FeedPage{Items: []*entity.Generation{gen("a", 1, 1), gen("b", 1, 1)}, NextCursor: "c1", HasMore: true}, nil)
	require.Eventually(t, settled(f), time.Second, time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, ids(f.Snapshot().Records))

	require.True(t, f.LoadMore())
	snap = f.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.True(t, snap.IsValidatingMore)

	second := src.next(t)
	assert.Equal(t, "c1", second.cursor)
	// b 已存在，应去重
	second.respond(&FeedPage{Items: []*entity.Generation{gen("b", 1, 1), gen("c", 1, 1)}}, nil)
	require.Eventually(t, settled(f), time.Second, time.Millisecond)

	snap = f.Snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, ids(snap.Records))
	assert.False(t, snap.HasMore)
}

func TestFeedLoadMoreIsNoOpWhenExhausted(t *testing.T) {
	src := newScriptedSource()
	f := NewFeed(context.Background(), src, "app-1", 10)
	defer f.Close()

	assert.False(t, f.LoadMore(), "no query yet")

	f.SetQuery(FeedQuery{})
	src.next(t).respond(&FeedPage{Items: []*entity.Generation{gen("a", 0, 0)}, HasMore: false}, nil)
	require.Eventually(t, settled(f), time.Second, time.Millisecond)

	assert.False(t, f.LoadMore())
	assert.False(t, f.LoadMore())
	src.assertIdle(t)
	assert.NoError(t, f.Snapshot().Err)
}

func TestFeedAtMostOneRequestInFlight(t *testing.T) {
	src := newScriptedSource()
	f := NewFeed(context.Background(), src, "app-1", 1)
	defer f.Close()

	f.SetQuery(FeedQuery{})
	initial := src.next(t)

	assert.False(t, f.LoadMore(), "initial page still loading")
	src.assertIdle(t)

	initial.respond(&FeedPage{Items: []*entity.Generation{gen("a", 0, 0)}, NextCursor: "c1", HasMore: true}, nil)
	require.Eventually(t, settled(f), time.Second, time.Millisecond)

	require.True(t, f.LoadMore())
	assert.False(t, f.LoadMore())
	assert.False(t, f.LoadMore())

	more := src.next(t)
	src.assertIdle(t)
	more.respond(&FeedPage{Items: []*entity.Generation{gen("b", 0, 0)}, NextCursor: "c2", HasMore: true}, nil)
	require.Eventually(t, settled(f), time.Second, time.Millisecond)
	assert.True(t, f.Snapshot().HasMore)
}

func TestFeedDiscardsStaleResponse(t *testing.T) {
	src := newScriptedSource()
	f := NewFeed(context.Background(), src, "app-1", 10)
	defer f.Close()

	f.SetQuery(NewFeedQuery(strPtr("old"), nil, nil))
	stale := src.next(t)

	f.SetQuery(NewFeedQuery(strPtr("new"), nil, nil))
	current := src.next(t)
	assert.Equal(t, "new", current.query.SearchText())

	current.respond(&FeedPage{Items: []*entity.Generation{gen("fresh", 0, 0)}}, nil)
	stale.respond(&FeedPage{Items: []*entity.Generation{gen("stale", 0, 0)}}, nil)
	f.Wait()

	snap := f.Snapshot()
	assert.Equal(t, []string{"fresh"}, ids(snap.Records))
	assert.Equal(t, "new", snap.Query.SearchText())
	assert.False(t, snap.IsLoading)
}

func TestFeedSetQuerySameValueDoesNotRefetch(t *testing.T) {
	src := newScriptedSource()
	f := NewFeed(context.Background(), src, "app-1", 10)
	defer f.Close()

	f.SetQuery(NewFeedQuery(nil, []string{"gpt-4"}, nil))
	src.next(t).respond(&FeedPage{}, nil)
	require.Eventually(t, settled(f), time.Second, time.Millisecond)

	f.SetQuery(NewFeedQuery(nil, []string{"gpt-4"}, nil))
	src.assertIdle(t)

	f.SetQuery(NewFeedQuery(nil, []string{"gpt-4", "claude-3"}, nil))
	p := src.next(t)
	assert.Equal(t, []string{"gpt-4", "claude-3"}, p.query.Models)
	p.respond(&FeedPage{}, nil)
}

func TestFeedSurfacesErrorWithoutSpinner(t *testing.T) {
	src := newScriptedSource()
	f := NewFeed(context.Background(), src, "app-1", 10)
	defer f.Close()

	var changes []FeedSnapshot
	done := make(chan struct{}, 1)
	f.OnChange(func(s FeedSnapshot) {
		changes = append(changes, s)
		done <- struct{}{}
	})

	f.SetQuery(FeedQuery{})
	src.next(t).respond(nil, errors.New("connection refused"))
	<-done

	snap := f.Snapshot()
	require.Error(t, snap.Err)
	assert.False(t, snap.IsLoading)
	assert.False(t, snap.IsValidatingMore)
	assert.Empty(t, snap.Records)
	require.Len(t, changes, 1)
	assert.EqualError(t, changes[0].Err, "connection refused")
}

func TestFeedCloseStopsMutation(t *testing.T) {
	src := newScriptedSource()
	f := NewFeed(context.Background(), src, "app-1", 10)

	f.SetQuery(FeedQuery{})
	p := src.next(t)
	f.Close()
	p.respond(&FeedPage{Items: []*entity.Generation{gen("late", 0, 0)}}, nil)
	f.Wait()

	assert.Empty(t, f.Snapshot().Records)

	f.SetQuery(NewFeedQuery(strPtr("after close"), nil, nil))
	src.assertIdle(t)
}

func TestCompareTokensUsesSum(t *testing.T) {
	a := gen("a", 10, 5)
	b := gen("b", 3, 8)

	assert.Equal(t, 1, CompareTokens(a, b))
	assert.Equal(t, -1, CompareTokens(b, a))
	assert.Equal(t, 0, CompareTokens(gen("x", 7, 0), gen("y", 0, 7)))
}

func TestCompareTokensIsConsistentOnRandomSet(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	records := make([]*entity.Generation, 40)
	for i := range records {
		records[i] = gen(string(rune('A'+i)), r.Intn(20), r.Intn(20))
	}

	for _, a := range records {
		for _, b := range records {
			assert.Equal(t, CompareTokens(a, b), -CompareTokens(b, a))
			for _, c := range records {
				if CompareTokens(a, b) <= 0 && CompareTokens(b, c) <= 0 {
					assert.LessOrEqual(t, CompareTokens(a, c), 0)
				}
			}
		}
	}
}

func TestSortByTokensIsStable(t *testing.T) {
	records := []*entity.Generation{
		gen("p", 5, 5),
		gen("q", 1, 1),
		gen("r", 9, 1),
		gen("s", 2, 0),
		gen("t", 0, 10),
	}

	asc := SortByTokens(records, false)
	assert.Equal(t, []string{"q", "s", "p", "r", "t"}, ids(asc))

	desc := SortByTokens(records, true)
	assert.Equal(t, []string{"p", "r", "t", "q", "s"}, ids(desc))

	assert.Equal(t, []string{"p", "q", "r", "s", "t"}, ids(records), "input slice untouched")
}
