package paginate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offsetUpstream simulates an offset/total endpoint over a fixed item set,
// recording every request it serves.
type offsetUpstream struct {
	mu       sync.Mutex
	items    []int
	requests []int
	failAt   int
	err      error
}

func newOffsetUpstream(n int) *offsetUpstream {
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	return &offsetUpstream{items: items, failAt: -1}
}

func (u *offsetUpstream) fetch(_ context.Context, startAt, maxResults int) ([]int, int, error) {
	u.mu.Lock()
	u.requests = append(u.requests, startAt)
	u.mu.Unlock()

	if u.failAt >= 0 && startAt == u.failAt {
		return nil, 0, u.err
	}

	end := startAt + maxResults
	if end > len(u.items) {
		end = len(u.items)
	}
	if startAt >= len(u.items) {
		return nil, len(u.items), nil
	}
	return u.items[startAt:end], len(u.items), nil
}

func (u *offsetUpstream) requestCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func TestOffset_CollectsAllPagesInOrder(t *testing.T) {
	upstream := newOffsetUpstream(250)

	results, err := Offset(context.Background(), upstream.fetch, 100)
	require.NoError(t, err)

	// Exactly three requests: 0, 100, 200
	assert.Equal(t, 3, upstream.requestCount())
	upstream.mu.Lock()
	assert.ElementsMatch(t, []int{0, 100, 200}, upstream.requests)
	upstream.mu.Unlock()

	require.Len(t, results, 250)
	for i, v := range results {
		require.Equal(t, i, v, "results must preserve page order")
	}
}

func TestOffset_SinglePage(t *testing.T) {
	upstream := newOffsetUpstream(80)

	results, err := Offset(context.Background(), upstream.fetch, 100)
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.requestCount())
	assert.Len(t, results, 80)
}

func TestOffset_Empty(t *testing.T) {
	upstream := newOffsetUpstream(0)

	results, err := Offset(context.Background(), upstream.fetch, 100)
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.requestCount())
	assert.Empty(t, results)
}

func TestOffset_DefaultPageSize(t *testing.T) {
	upstream := newOffsetUpstream(150)

	results, err := Offset(context.Background(), upstream.fetch, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, upstream.requestCount())
	assert.Len(t, results, 150)
}

func TestOffset_FirstPageErrorPropagates(t *testing.T) {
	upstream := newOffsetUpstream(250)
	upstream.failAt = 0
	upstream.err = errors.New("upstream down")

	_, err := Offset(context.Background(), upstream.fetch, 100)
	assert.ErrorIs(t, err, upstream.err)
}

func TestOffset_TailPageErrorPropagates(t *testing.T) {
	upstream := newOffsetUpstream(250)
	upstream.failAt = 200
	upstream.err = errors.New("page gone")

	_, err := Offset(context.Background(), upstream.fetch, 100)
	assert.ErrorIs(t, err, upstream.err)
}

func TestToken_WalksSequentially(t *testing.T) {
	pages := map[string]struct {
		items []string
		next  string
	}{
		"":   {items: []string{"a", "b"}, next: "t1"},
		"t1": {items: []string{"c"}, next: "t2"},
		"t2": {items: []string{"d", "e"}, next: ""},
	}

	var seen []string
	results, err := Token(context.Background(), func(_ context.Context, token string) ([]string, string, error) {
		seen = append(seen, token)
		page := pages[token]
		return page.items, page.next, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"", "t1", "t2"}, seen, "pages must be requested in token order")
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, results)
}

func TestToken_SinglePage(t *testing.T) {
	results, err := Token(context.Background(), func(_ context.Context, token string) ([]int, string, error) {
		return []int{1, 2, 3}, "", nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, results)
}

func TestToken_ErrorMidWalk(t *testing.T) {
	boom := errors.New("boom")

	_, err := Token(context.Background(), func(_ context.Context, token string) ([]int, string, error) {
		if token == "t1" {
			return nil, "", boom
		}
		return []int{1}, "t1", nil
	})

	assert.ErrorIs(t, err, boom)
}

func TestToken_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := Token(ctx, func(_ context.Context, token string) ([]int, string, error) {
		calls++
		cancel()
		return []int{1}, fmt.Sprintf("t%d", calls), nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "no page may be requested after cancellation")
}
