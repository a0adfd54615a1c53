package ask

import "errors"

// Code is the workflow failure taxonomy.
type Code string

const (
	CodeBadRequest           Code = "BAD_REQUEST"
	CodeRateLimited          Code = "RATE_LIMITED"
	CodeSubscriptionRequired Code = "SUBSCRIPTION_REQUIRED"
	CodeServerError          Code = "SERVER_ERROR"
)

// Error is a structured workflow failure.
type Error struct {
	Code    Code
	Message string
	// RetryAfter advertises the backoff in seconds for rate limiting.
	RetryAfter int
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// AsError unwraps a workflow error from an error chain.
func AsError(err error) (*Error, bool) {
	var wfErr *Error
	if errors.As(err, &wfErr) {
		return wfErr, true
	}
	return nil, false
}
