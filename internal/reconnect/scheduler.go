package reconnect

import "time"

type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Callbacks run on their own goroutine and must
// hand work back to the owning loop rather than touch the Policy directly.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type SystemScheduler struct{}

func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

const (
	DefaultBaseDelay = 500 * time.Millisecond
	DefaultMaxDelay  = 10 * time.Second
)

// Delay returns min(base * 2^attempt, max).
func Delay(attempt int, base, max time.Duration) time.Duration {
	d := base
	for i := 0; i < attempt && d < max; i++ {
		d *= 2
	}
	if d > max {
		d = max
	}
	return d
}
