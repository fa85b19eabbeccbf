package batch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/csg33k/paycalc/internal/batch"
)

var errOdd = errors.New("odd")

func TestRun_CollectsEveryOutcome(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6}
	r := batch.Run(context.Background(), items, 3, func(_ context.Context, n int) (int, error) {
		if n%2 == 1 {
			return 0, errOdd
		}
		return n * 10, nil
	})

	if r.Succeeded != 4 || r.Failed != 3 {
		t.Fatalf("succeeded=%d failed=%d, want 4/3", r.Succeeded, r.Failed)
	}
	for i, o := range r.Outcomes {
		if o.Index != i {
			t.Errorf("outcome %d has index %d", i, o.Index)
		}
	}
	got := r.Values()
	want := []int{0, 20, 40, 60}
	if len(got) != len(want) {
		t.Fatalf("Values() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Values()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if err := r.FirstError(); !errors.Is(err, errOdd) {
		t.Errorf("FirstError() = %v, want errOdd", err)
	}
}

func TestRun_RespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 20)
	batch.Run(context.Background(), items, 2, func(_ context.Context, _ int) (struct{}, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		inFlight.Add(-1)
		return struct{}{}, nil
	})
	if peak.Load() > 2 {
		t.Errorf("peak concurrency %d exceeds limit 2", peak.Load())
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := batch.Run(ctx, []string{"a", "b"}, 0, func(context.Context, string) (string, error) {
		return "ran", nil
	})
	if r.Failed != 2 {
		t.Fatalf("Failed = %d, want 2", r.Failed)
	}
	if !errors.Is(r.Outcomes[0].Err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", r.Outcomes[0].Err)
	}
}

func TestRun_Empty(t *testing.T) {
	r := batch.Run(context.Background(), []int(nil), 4, func(context.Context, int) (int, error) { return 1, nil })
	if len(r.Outcomes) != 0 || r.FirstError() != nil {
		t.Errorf("unexpected report for empty input: %+v", r)
	}
}
