// Package paginate implements the two pagination strategies the Jira APIs
// expose: offset/total list endpoints (projects, boards, per-issue worklogs)
// and token-cursor search endpoints. The offset walker fetches the first
// page, learns the total, and pulls every remaining page concurrently; the
// token walker is strictly sequential because each request depends on the
// token returned by the previous page.
package paginate

import (
	"context"

	"github.com/IamTakaiii/Project-MWP-JIRA-API/pkg/batch"
)

// PageSize is the page length requested from offset-paginated endpoints.
const PageSize = 100

// OffsetPageFunc fetches a single page starting at startAt and reports the
// page's items together with the upstream total.
type OffsetPageFunc[T any] func(ctx context.Context, startAt, maxResults int) ([]T, int, error)

// TokenPageFunc fetches the page designated by token (empty for the first
// page) and returns the items plus the next token, empty on the last page.
type TokenPageFunc[T any] func(ctx context.Context, token string) ([]T, string, error)

// Offset exhaustively collects an offset-paginated listing. The first page
// is fetched alone to learn the total; the remaining offsets are fetched
// concurrently and concatenated in page order. The total reported by the
// first page is trusted for the whole walk, so items added or removed
// upstream mid-walk surface as slightly stale results, not as an error.
func Offset[T any](ctx context.Context, fetch OffsetPageFunc[T], pageSize int) ([]T, error) {
	if pageSize <= 0 {
		pageSize = PageSize
	}

	first, total, err := fetch(ctx, 0, pageSize)
	if err != nil {
		return nil, err
	}
	if len(first) >= total {
		return first, nil
	}

	var offsets []int
	for startAt := pageSize; startAt < total; startAt += pageSize {
		offsets = append(offsets, startAt)
	}

	// One chunk sized to the page count: every remaining page in flight at once
	pages, err := batch.Process(ctx, offsets, func(ctx context.Context, startAt int) ([]T, error) {
		items, _, err := fetch(ctx, startAt, pageSize)
		return items, err
	}, len(offsets))
	if err != nil {
		return nil, err
	}

	all := first
	for _, page := range pages {
		all = append(all, page...)
	}
	return all, nil
}

// Token exhaustively collects a token-paginated search, one page at a time.
func Token[T any](ctx context.Context, fetch TokenPageFunc[T]) ([]T, error) {
	var all []T
	token := ""

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		items, next, err := fetch(ctx, token)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if next == "" {
			return all, nil
		}
		token = next
	}
}
