package workflow

import "time"

// BackoffPolicy computes the delay before a failed task is reattempted.
type BackoffPolicy interface {
	// Delay returns the suspension before retry attempt retryCount.
	Delay(retryCount int) time.Duration
}

// BackoffFunc adapts a function to BackoffPolicy.
type BackoffFunc func(retryCount int) time.Duration

func (f BackoffFunc) Delay(retryCount int) time.Duration { return f(retryCount) }

// ExponentialBackoff waits 2^retryCount seconds, without jitter and without
// a cap. The sleep happens inside the failing task's own unit of work, so a
// parallel round still waits for it before settling.
type ExponentialBackoff struct{}

func (ExponentialBackoff) Delay(retryCount int) time.Duration {
	if retryCount < 0 {
		retryCount = 0
	}
	return time.Duration(1<<uint(retryCount)) * time.Second
}
