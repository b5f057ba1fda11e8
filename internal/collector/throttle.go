package collector

import "time"

// Throttle enforces a minimum interval between successive provider
// calls. The pipeline is strictly sequential, so tracking the previous
// call time is enough; the clock and sleep functions are injectable so
// tests run without real delays.
type Throttle struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(time.Duration)
}

// NewThrottle creates a throttle with the given minimum inter-call interval.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Wait blocks until at least the configured interval has passed since
// the previous call, then records the current call.
func (t *Throttle) Wait() {
	if t.interval <= 0 {
		return
	}
	if !t.last.IsZero() {
		if remaining := t.interval - t.now().Sub(t.last); remaining > 0 {
			t.sleep(remaining)
		}
	}
	t.last = t.now()
}
