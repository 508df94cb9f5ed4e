package server

import (
	"sync"
	"time"
)

// awaker is the connection host's implementation of the expiration
// controller's wake-up contract: notify(at) must cause fire to run no
// sooner than at. It debounces repeated notify calls into a single
// pending timer, always keeping the earliest deadline seen.
//
// original_source/radish-server/src/main.rs's set_expire_awaker spawns a
// fresh tokio task per notification and loops sleeping in
// up-to-one-hour chunks, working around tokio's delay_until being
// clamped; a single time.AfterFunc has no such ceiling, so one timer,
// reset only when the new deadline is earlier than the pending one,
// covers the same contract without the per-call goroutine and sleep loop.
type awaker struct {
	fire func()

	mu      sync.Mutex
	timer   *time.Timer
	pending time.Time // zero means no timer currently pending
	stopped bool
}

func newAwaker(fire func()) *awaker {
	return &awaker{fire: fire}
}

// notify schedules fire to run at or after at, unless an earlier wake-up
// is already pending.
func (a *awaker) notify(at time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}
	if !a.pending.IsZero() && !at.Before(a.pending) {
		return
	}

	if a.timer != nil {
		a.timer.Stop()
	}
	a.pending = at

	delay := time.Until(at) + time.Millisecond
	if delay < 0 {
		delay = 0
	}
	a.timer = time.AfterFunc(delay, a.onTimer)
}

func (a *awaker) onTimer() {
	a.mu.Lock()
	a.pending = time.Time{}
	a.mu.Unlock()

	a.fire()
}

func (a *awaker) stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
	}
}
