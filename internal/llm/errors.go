package llm

import "fmt"

// ErrorKind classifies provider failures. All kinds are recoverable by the caller.
type ErrorKind string

const (
	// KindUnavailable means no credential is configured.
	KindUnavailable ErrorKind = "unavailable"
	// KindTransport covers network failures, timeouts and unreadable responses.
	KindTransport ErrorKind = "transport"
	// KindStatus means the provider answered with a non-2xx status.
	KindStatus ErrorKind = "status"
)

// ProviderError is returned by every Client when a report could not be drafted.
type ProviderError struct {
	Provider   Provider
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Kind == KindStatus:
		return fmt.Sprintf("%s provider returned status %d: %v", e.Provider, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s provider %s: %v", e.Provider, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s provider %s", e.Provider, e.Kind)
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func transportError(p Provider, err error) *ProviderError {
	return &ProviderError{Provider: p, Kind: KindTransport, Err: err}
}

func statusError(p Provider, code int, err error) *ProviderError {
	return &ProviderError{Provider: p, Kind: KindStatus, StatusCode: code, Err: err}
}
