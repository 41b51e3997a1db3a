package resilience

import "time"

// Defaults for oracle calls: 3 attempts with 100ms doubling to a 400ms cap,
// breaker opens at 50% failures over a 10-call window and allows 2 half-open
// calls after 30s.
const (
	defaultRetryMaxAttempts    = 3
	defaultRetryInitialBackoff = 100 * time.Millisecond
	defaultRetryMaxBackoff     = 400 * time.Millisecond
	defaultRetryMultiplier     = 2.0

	defaultBreakerMinRequests      uint32 = 10
	defaultBreakerFailureRatio            = 0.5
	defaultBreakerOpenTimeout             = 30 * time.Second
	defaultBreakerHalfOpenMaxCalls uint32 = 2
)

type Config struct {
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	RetryMultiplier     float64

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

func DefaultConfig() Config {
	return Config{
		RetryMaxAttempts:    defaultRetryMaxAttempts,
		RetryInitialBackoff: defaultRetryInitialBackoff,
		RetryMaxBackoff:     defaultRetryMaxBackoff,
		RetryMultiplier:     defaultRetryMultiplier,

		BreakerEnabled:          true,
		BreakerMinRequests:      defaultBreakerMinRequests,
		BreakerFailureRatio:     defaultBreakerFailureRatio,
		BreakerOpenTimeout:      defaultBreakerOpenTimeout,
		BreakerHalfOpenMaxCalls: defaultBreakerHalfOpenMaxCalls,
	}
}

// normalize replaces out-of-range settings with the defaults so a partially
// filled Config cannot produce a zero-backoff hot loop or a breaker that
// never closes.
func (c Config) normalize() Config {
	out := c

	if out.RetryMaxAttempts <= 0 {
		out.RetryMaxAttempts = defaultRetryMaxAttempts
	}
	if out.RetryInitialBackoff <= 0 {
		out.RetryInitialBackoff = defaultRetryInitialBackoff
	}
	if out.RetryMaxBackoff <= 0 {
		out.RetryMaxBackoff = defaultRetryMaxBackoff
	}
	if out.RetryMaxBackoff < out.RetryInitialBackoff {
		out.RetryMaxBackoff = out.RetryInitialBackoff
	}
	if out.RetryMultiplier < 1.0 {
		out.RetryMultiplier = defaultRetryMultiplier
	}

	if out.BreakerMinRequests == 0 {
		out.BreakerMinRequests = defaultBreakerMinRequests
	}
	if out.BreakerFailureRatio <= 0 || out.BreakerFailureRatio > 1 {
		out.BreakerFailureRatio = defaultBreakerFailureRatio
	}
	if out.BreakerOpenTimeout <= 0 {
		out.BreakerOpenTimeout = defaultBreakerOpenTimeout
	}
	if out.BreakerHalfOpenMaxCalls == 0 {
		out.BreakerHalfOpenMaxCalls = defaultBreakerHalfOpenMaxCalls
	}

	return out
}
