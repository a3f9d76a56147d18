package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/i474232898/angin-nusantara/internal/cities"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) RefreshAll(ctx context.Context) (int, error) {
	r.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("expected a deadline")
	}
	return 2, r.err
}

func TestStartDisabled(t *testing.T) {
	r := &countingRefresher{}
	s := New(0, r, zaptest.NewLogger(t))
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	if s.Jobs() != 0 {
		t.Fatalf("Jobs() = %d, want 0", s.Jobs())
	}
}

func TestStartSchedulesJob(t *testing.T) {
	r := &countingRefresher{}
	s := New(time.Hour, r, zaptest.NewLogger(t))
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	if s.Jobs() != 1 {
		t.Fatalf("Jobs() = %d, want 1", s.Jobs())
	}
	if r.calls.Load() != 0 {
		t.Fatal("job must wait for its first interval")
	}
}

func TestRunToleratesErrors(t *testing.T) {
	for _, err := range []error{nil, cities.ErrNotAuthenticated, errors.New("store down")} {
		r := &countingRefresher{err: err}
		s := New(time.Hour, r, zaptest.NewLogger(t))
		s.run()
		if r.calls.Load() != 1 {
			t.Fatalf("run() with %v: %d calls, want 1", err, r.calls.Load())
		}
	}
}
