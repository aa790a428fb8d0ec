package timeutil

import (
	"math"
	"time"
)

// ExponentialBackoffDelay returns the delay to wait after the given attempt
// (1-based): initialDuration * multiplier^(attempt-1), capped at maxDuration.
// A non-positive attempt yields zero.
func ExponentialBackoffDelay(attempt int, param BackoffParam) time.Duration {
	if attempt < 1 || param.InitialDuration() <= 0 {
		return 0
	}
	multiplier := param.Multiplier()
	if multiplier < 1 {
		multiplier = 1
	}
	delay := float64(param.InitialDuration()) * math.Pow(multiplier, float64(attempt-1))
	if limit := param.MaxDuration(); limit > 0 && delay > float64(limit) {
		return limit
	}
	if delay > math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(delay)
}

// MaxDuration returns the largest of durations, or zero when empty.
func MaxDuration(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	longest := durations[0]
	for _, d := range durations[1:] {
		if d > longest {
			longest = d
		}
	}
	return longest
}
