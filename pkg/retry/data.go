package retry

import (
	"github.com/rohmanhakim/csp-hasher/pkg/timeutil"
)

// RetryParam holds the parameters for retry logic.
// These parameters are passed from outside (e.g., the caller's config) and
// should not be known by the retry handler internally.
type RetryParam struct {
	MaxAttempts  int
	BackoffParam timeutil.BackoffParam
}

// NewRetryParam creates a new RetryParam with the given settings.
func NewRetryParam(
	maxAttempts int,
	backoffParam timeutil.BackoffParam,
) RetryParam {
	return RetryParam{
		MaxAttempts:  maxAttempts,
		BackoffParam: backoffParam,
	}
}
