package api

import (
	"context"
	"iter"
)

// Page is the list envelope returned by paginated endpoints.
type Page[T any] struct {
	Data    []T  `json:"data"`
	HasMore bool `json:"has_more"`
	// Total counts all matching items across pages.
	Total int `json:"total"`
}

// PageFetcher fetches the page starting at offset.
type PageFetcher[T any] func(ctx context.Context, offset int) (*Page[T], error)

// Paginator walks an offset-paginated listing. It holds no cursor state, so
// one Paginator may be iterated any number of times, concurrently or not.
type Paginator[T any] struct {
	fetch PageFetcher[T]
}

// NewPaginator returns a Paginator over fetch.
func NewPaginator[T any](fetch PageFetcher[T]) *Paginator[T] {
	return &Paginator[T]{fetch: fetch}
}

// All returns a lazy sequence of every item, in server order.
//
// The offset advances by the number of items each page actually returned.
// Iteration stops after a page with has_more=false or no items. ctx is
// checked before every fetch; once it is done the sequence ends without an
// error. A failed fetch is yielded once as (zero, err) and ends the sequence.
func (p *Paginator[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		offset := 0
		for {
			if ctx.Err() != nil {
				return
			}

			page, err := p.fetch(ctx, offset)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				var zero T
				yield(zero, err)
				return
			}
			if page == nil {
				return
			}

			for _, item := range page.Data {
				if !yield(item, nil) {
					return
				}
			}

			if !page.HasMore || len(page.Data) == 0 {
				return
			}
			offset += len(page.Data)
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var items []T
	for item, err := range seq {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}
