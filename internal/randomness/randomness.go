// Package randomness holds the small jitter helpers used to keep reported
// playback progress and answer pacing from looking perfectly mechanical.
package randomness

import (
	"math/rand/v2"
	"time"
)

// About returns base perturbed by uniform noise in [-maxNoise, +maxNoise],
// clamped to [min, max].
func About(base, maxNoise, min, max float64) float64 {
	v := base + (rand.Float64()-0.5)*2.0*maxNoise
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return v
}

// Choose draws k elements from options, with replacement.
func Choose[T any](options []T, k int) []T {
	picked := make([]T, 0, k)
	for i := 0; i < k; i++ {
		picked = append(picked, options[rand.IntN(len(options))])
	}
	return picked
}

// DurationBetween returns a random duration in [min, max].
func DurationBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int64N(int64(max-min)+1))
}
