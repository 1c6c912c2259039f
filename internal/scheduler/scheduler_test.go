package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

type countingRefresher struct {
	n int32
}

func (c *countingRefresher) Refresh() {
	atomic.AddInt32(&c.n, 1)
}

func TestStart(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		wantJobs int
	}{
		{"disabled", 0, 0},
		{"below a minute", 30 * time.Second, 0},
		{"hourly", time.Hour, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&countingRefresher{}, tt.interval)
			if err := s.Start(); err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			defer s.Stop()

			if got := s.Jobs(); got != tt.wantJobs {
				t.Errorf("Jobs() = %d, want %d", got, tt.wantJobs)
			}
		})
	}
}

func TestStart_WaitsForFirstInterval(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, time.Hour)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer s.Stop()

	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&r.n); got != 0 {
		t.Errorf("Refresh() ran %d times right after Start, want 0", got)
	}
}

func TestRun(t *testing.T) {
	r := &countingRefresher{}
	s := New(r, time.Minute)

	s.run()
	s.run()

	if got := atomic.LoadInt32(&r.n); got != 2 {
		t.Errorf("Refresh() ran %d times, want 2", got)
	}
}
