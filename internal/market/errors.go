package market

import (
	"errors"
	"fmt"
)

// Not-found conditions are expected provider answers ("valid request,
// no data"), distinct from transport failures.
var (
	ErrPriceNotFound = errors.New("price not found")
	ErrRateNotFound  = errors.New("conversion rate not found")
)

// InvalidRequestError marks malformed caller input (bad date format,
// bad currency params). Surfaced as a client error.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string { return e.Reason }

// InvalidRequest builds an InvalidRequestError with a formatted reason.
func InvalidRequest(format string, args ...any) error {
	return &InvalidRequestError{Reason: fmt.Sprintf(format, args...)}
}

// UnavailableError marks an upstream failure: transport error, malformed
// provider response, or an empty result set. Surfaced as a server error.
type UnavailableError struct {
	Provider string
	Err      error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: upstream unavailable", e.Provider)
	}
	return fmt.Sprintf("%s: upstream unavailable: %v", e.Provider, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Unavailable wraps err as an UnavailableError for the named provider.
func Unavailable(provider string, err error) error {
	return &UnavailableError{Provider: provider, Err: err}
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPriceNotFound) || errors.Is(err, ErrRateNotFound)
}

// IsInvalidRequest reports whether err stems from malformed input.
func IsInvalidRequest(err error) bool {
	var ire *InvalidRequestError
	return errors.As(err, &ire)
}

// IsUnavailable reports whether err stems from an upstream failure.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
