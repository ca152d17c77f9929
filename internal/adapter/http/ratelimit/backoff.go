package ratelimit

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff grows a duration exponentially with the attempt number.
type Backoff struct {
	Min    time.Duration
	Max    time.Duration
	Factor float64
	Jitter bool
}

func NewBackoff(min, max time.Duration, factor float64) *Backoff {
	return &Backoff{
		Min:    min,
		Max:    max,
		Factor: factor,
		Jitter: true,
	}
}

// Duration returns Min*Factor^(attempt-1), capped at Max. With Jitter the
// result is scaled by a random factor in [0.5, 1).
func (b *Backoff) Duration(attempt int) time.Duration {
	if attempt <= 0 {
		return b.Min
	}

	duration := float64(b.Min) * math.Pow(b.Factor, float64(attempt-1))
	if duration > float64(b.Max) || math.IsInf(duration, 1) {
		duration = float64(b.Max)
	}

	if b.Jitter {
		duration = duration * (0.5 + rand.Float64()*0.5)
	}

	return time.Duration(duration)
}
