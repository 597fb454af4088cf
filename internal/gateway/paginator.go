package gateway

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/shurcooL/githubv4"
)

var errPaginatorUsed = errors.New("paginator has already been consumed")

// Page is one page of a cursor-paginated GraphQL connection.
type Page[T any] struct {
	Items       []T
	HasNextPage bool
	EndCursor   githubv4.String
}

// PageFunc fetches the page that follows cursor. A nil cursor requests the first page.
type PageFunc[T any] func(ctx context.Context, cursor *githubv4.String) (Page[T], error)

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Paginator walks a cursor-paginated connection one page at a time.
// It is single use: the cursor state cannot be rewound.
type Paginator[T any] struct {
	fetch  PageFunc[T]
	cursor *githubv4.String
	delay  time.Duration
	sleep  Sleeper
	used   bool
}

// NewPaginator creates a Paginator starting after cursor (nil for the first page)
// that waits delay between two consecutive page fetches.
func NewPaginator[T any](fetch PageFunc[T], cursor *githubv4.String, delay time.Duration, sleep Sleeper) *Paginator[T] {
	if sleep == nil {
		sleep = sleepContext
	}
	return &Paginator[T]{
		fetch:  fetch,
		cursor: cursor,
		delay:  delay,
		sleep:  sleep,
	}
}

// All yields the pages in server order. The next page is only requested, and the
// delay only observed, when the consumer asks for it; breaking out of the loop
// stops the walk. The first error is yielded once and ends the sequence.
func (p *Paginator[T]) All(ctx context.Context) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		if p.used {
			yield(nil, errPaginatorUsed)
			return
		}
		p.used = true

		for first := true; ; first = false {
			if !first {
				if err := p.sleep(ctx, p.delay); err != nil {
					yield(nil, err)
					return
				}
			}
			page, err := p.fetch(ctx, p.cursor)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(page.Items, nil) || !page.HasNextPage {
				return
			}
			p.cursor = githubv4.NewString(page.EndCursor)
		}
	}
}

// Collect walks every page and returns the ordered concatenation of their items.
func (p *Paginator[T]) Collect(ctx context.Context) ([]T, error) {
	var items []T
	for page, err := range p.All(ctx) {
		if err != nil {
			return nil, err
		}
		items = append(items, page...)
	}
	return items, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pageInfo is the pagination block shared by every connection we query.
type pageInfo struct {
	EndCursor   githubv4.String
	HasNextPage bool
}

func newPage[T any](items []T, info pageInfo) Page[T] {
	return Page[T]{Items: items, HasNextPage: info.HasNextPage, EndCursor: info.EndCursor}
}
