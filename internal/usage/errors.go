package usage

import "errors"

// ErrLimitReached indicates the user exhausted their free analysis allowance.
var ErrLimitReached = errors.New("limit reached")
