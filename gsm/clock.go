package gsm

import "time"

// elapsed reports whether now has reached or passed deadline, using a
// signed 32-bit comparison so that the free-running millisecond clock can
// wrap (roughly every 49.7 days) without causing a spurious "not yet".
func elapsed(now, deadline uint32) bool {
	return int32(now-deadline) >= 0
}

// deadlineAfter returns the deadline corresponding to d from now, truncated
// to whole milliseconds.
func deadlineAfter(now uint32, d time.Duration) uint32 {
	return now + uint32(d.Milliseconds())
}
