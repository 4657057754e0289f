package timeutil

import "time"

// Clock reports the current time. Components take a Clock so tests can pin it.
type Clock func() time.Time

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}

// Fixed returns a Clock that always reports t
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}
