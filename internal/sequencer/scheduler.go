package sequencer

import "time"

// CancelFunc stops a scheduled call. Calling it after the function has
// run is a no-op.
type CancelFunc func()

// Scheduler is the timer capability the sequencer runs on. Injecting it
// keeps playback deterministic under test; production uses TimerScheduler.
type Scheduler interface {
	After(d time.Duration, fn func()) CancelFunc
}

// TimerScheduler schedules on real wall-clock timers.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
