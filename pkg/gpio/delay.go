package gpio

import "time"

// Delay busy-waits for d. Sleeping is too coarse for pulses of a few
// hundred microseconds.
func Delay(d time.Duration) {
	for start := time.Now(); time.Since(start) < d; {
	}
}
