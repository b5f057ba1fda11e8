package collector

import (
	"testing"
	"time"
)

func TestThrottle_EnforcesInterval(t *testing.T) {
	now := time.Unix(1000, 0)
	var slept []time.Duration

	th := NewThrottle(2 * time.Second)
	th.now = func() time.Time { return now }
	th.sleep = func(d time.Duration) {
		slept = append(slept, d)
		now = now.Add(d)
	}

	th.Wait()
	if len(slept) != 0 {
		t.Fatalf("first call must not sleep, slept %v", slept)
	}

	now = now.Add(500 * time.Millisecond)
	th.Wait()
	if len(slept) != 1 || slept[0] != 1500*time.Millisecond {
		t.Fatalf("expected a single 1.5s sleep, got %v", slept)
	}

	now = now.Add(3 * time.Second)
	th.Wait()
	if len(slept) != 1 {
		t.Fatalf("no sleep expected after the interval already elapsed, got %v", slept)
	}
}

func TestThrottle_ZeroInterval(t *testing.T) {
	th := NewThrottle(0)
	th.sleep = func(time.Duration) { t.Fatal("zero interval must never sleep") }
	for i := 0; i < 3; i++ {
		th.Wait()
	}
}
