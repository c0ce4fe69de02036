package customizer

import (
	"sync"
	"time"
)

// scheduledTask runs a function once after a delay. Scheduling again, or
// cancelling, stops whatever was pending so only the latest schedule can fire.
type scheduledTask struct {
	mu    sync.Mutex
	timer *time.Timer
}

func (t *scheduledTask) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, fn)
}

func (t *scheduledTask) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
