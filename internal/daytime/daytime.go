// Package daytime provides a wall-date-free time-of-day value.
//
// Simulated events are scheduled on a single 24-hour circle: adding a
// duration wraps past midnight, and a negative offset applied shortly after
// midnight lands in the late evening. Ordering is plain comparison of the
// offset from midnight, so an event pushed across midnight sorts at the other
// end of the day. That is intentional and the event list relies on it.
package daytime

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// Time is a time of day, stored as the offset from midnight in [0h, 24h).
type Time struct {
	d time.Duration
}

// Of builds a Time from hours, minutes and seconds.
func Of(hour, min, sec int) Time {
	return FromDuration(time.Duration(hour)*time.Hour +
		time.Duration(min)*time.Minute +
		time.Duration(sec)*time.Second)
}

// FromDuration normalizes an arbitrary offset onto the 24-hour circle.
func FromDuration(d time.Duration) Time {
	d %= day
	if d < 0 {
		d += day
	}
	return Time{d: d}
}

// FromClock extracts the time of day from a wall-clock instant, keeping
// sub-second precision.
func FromClock(t time.Time) Time {
	return Of(t.Hour(), t.Minute(), t.Second()).Add(time.Duration(t.Nanosecond()))
}

// Add returns the time shifted by delta, wrapping on the 24-hour circle.
// Delta may be negative.
func (t Time) Add(delta time.Duration) Time {
	return FromDuration(t.d + delta)
}

// Sub returns the signed offset between two times of day.
func (t Time) Sub(other Time) time.Duration {
	return t.d - other.d
}

// Before reports whether t is earlier in the day than other.
func (t Time) Before(other Time) bool {
	return t.d < other.d
}

// After reports whether t is later in the day than other.
func (t Time) After(other Time) bool {
	return t.d > other.d
}

// Equal reports whether both values denote the same time of day.
func (t Time) Equal(other Time) bool {
	return t.d == other.d
}

// Offset returns the raw offset from midnight.
func (t Time) Offset() time.Duration {
	return t.d
}

// At places the time of day on the given date.
func (t Time) At(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location()).Add(t.d)
}

// String formats as HH:MM:SS, with a .fff millisecond suffix when the value
// has a sub-second component.
func (t Time) String() string {
	d := t.d
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	if d == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, d/time.Millisecond)
}
