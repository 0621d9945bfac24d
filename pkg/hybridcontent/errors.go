package hybridcontent

import "errors"

var (
	// ErrUsageLimitReached indicates a promotion has been redeemed its maximum number of times
	ErrUsageLimitReached = errors.New("promotion usage limit reached")

	// ErrInvalidRecord indicates a record is missing a required field
	ErrInvalidRecord = errors.New("invalid content record")
)
