package session

import "time"

// TimerScheduler schedules tasks on the runtime timer.
type TimerScheduler struct{}

// Schedule runs task on its own goroutine after delay.
func (TimerScheduler) Schedule(delay time.Duration, task func()) Timer {
	return time.AfterFunc(delay, task)
}
