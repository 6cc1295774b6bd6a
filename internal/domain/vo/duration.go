package vo

import (
	"errors"
	"fmt"
)

// Duration represents a lesson or chapter running time in whole seconds.
// It provides the minute/second rendering used by the structure summary.
type Duration struct {
	seconds int
}

var (
	ErrNegativeDuration = errors.New("duration cannot be negative")
)

// NewDuration creates a new Duration value object.
func NewDuration(seconds int) (Duration, error) {
	if seconds < 0 {
		return Duration{}, ErrNegativeDuration
	}
	return Duration{seconds: seconds}, nil
}

// MustDuration creates a new Duration, panicking if invalid.
func MustDuration(seconds int) Duration {
	d, err := NewDuration(seconds)
	if err != nil {
		panic(err)
	}
	return d
}

// ZeroDuration returns a zero Duration.
func ZeroDuration() Duration {
	return Duration{}
}

// Seconds returns the duration in seconds.
func (d Duration) Seconds() int {
	return d.seconds
}

// Minutes returns the whole-minute component.
func (d Duration) Minutes() int {
	return d.seconds / 60
}

// IsZero returns true if the duration is zero.
func (d Duration) IsZero() bool {
	return d.seconds == 0
}

// Add returns a new Duration with the given duration added.
func (d Duration) Add(other Duration) Duration {
	return Duration{seconds: d.seconds + other.seconds}
}

// Equals returns true if both durations are equal.
func (d Duration) Equals(other Duration) bool {
	return d.seconds == other.seconds
}

// String renders the duration as minutes and seconds, e.g. "12分05秒".
func (d Duration) String() string {
	return fmt.Sprintf("%d分%02d秒", d.seconds/60, d.seconds%60)
}
