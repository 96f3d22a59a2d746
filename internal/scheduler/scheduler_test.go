package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/atomic"
)

type countingRefresher struct {
	calls *atomic.Int32
	err   error
}

func (r countingRefresher) Refresh(context.Context) error {
	r.calls.Inc()
	return r.err
}

func TestSchedulerDisabled(t *testing.T) {
	r := countingRefresher{calls: atomic.NewInt32(0)}
	s := New(0, r)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	time.Sleep(50 * time.Millisecond)
	if r.calls.Load() != 0 {
		t.Errorf("expected no refreshes, got %d", r.calls.Load())
	}
}

func TestSchedulerRefreshes(t *testing.T) {
	r := countingRefresher{calls: atomic.NewInt32(0), err: errors.New("upstream down")}
	s := New(time.Second, r)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for r.calls.Load() < 1 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if r.calls.Load() < 1 {
		t.Errorf("expected a scheduled refresh, got %d", r.calls.Load())
	}
}

func TestSchedulerRunDirect(t *testing.T) {
	r := countingRefresher{calls: atomic.NewInt32(0)}
	New(time.Hour, r).run()
	if r.calls.Load() != 1 {
		t.Errorf("expected a single refresh, got %d", r.calls.Load())
	}
}
