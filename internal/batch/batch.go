// Package batch runs independent per-item work in parallel and reports
// each item's outcome. One item failing never cancels its siblings.
package batch

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one item, in input order.
type Outcome[T any] struct {
	Index int   `json:"index"`
	Value T     `json:"value,omitempty"`
	Err   error `json:"-"`
}

func (o Outcome[T]) OK() bool { return o.Err == nil }

// Report aggregates every item's outcome.
type Report[T any] struct {
	Outcomes  []Outcome[T] `json:"outcomes"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// Values returns the successful values in input order.
func (r *Report[T]) Values() []T {
	out := make([]T, 0, r.Succeeded)
	for _, o := range r.Outcomes {
		if o.OK() {
			out = append(out, o.Value)
		}
	}
	return out
}

// FirstError returns the lowest-index failure, annotated with its index.
func (r *Report[T]) FirstError() error {
	for _, o := range r.Outcomes {
		if o.Err != nil {
			return fmt.Errorf("item %d: %w", o.Index, o.Err)
		}
	}
	return nil
}

// Run calls fn for every item with at most limit calls in flight
// (GOMAXPROCS when limit <= 0). Items not yet started when ctx is cancelled
// fail with ctx.Err().
func Run[I, O any](ctx context.Context, items []I, limit int, fn func(context.Context, I) (O, error)) *Report[O] {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	outcomes := make([]Outcome[O], len(items))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			outcomes[i].Index = i
			if err := ctx.Err(); err != nil {
				outcomes[i].Err = err
				return nil
			}
			outcomes[i].Value, outcomes[i].Err = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	r := &Report[O]{Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Err != nil {
			r.Failed++
		} else {
			r.Succeeded++
		}
	}
	return r
}
