package contracts

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkFailure wraps transport and provider errors
	ErrNetworkFailure = errors.New("network failure")

	// ErrUnavailable means a symbol has no usable price history and is dropped
	ErrUnavailable = errors.New("quote unavailable")

	// ErrNoData means not a single symbol could be fetched
	ErrNoData = errors.New("could not fetch data for any stocks")

	// ErrUnknownStrategy is returned for an unrecognised strategy name
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// ValidationError reports an out-of-range parameter or config value
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
