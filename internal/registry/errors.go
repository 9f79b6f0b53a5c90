// internal/registry/errors.go
package registry

import "fmt"

// NetworkError reports a transport-level failure: timeout, DNS, or a non-2xx
// response. These are transient and safe to retry on the next refresh.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("registry fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("registry fetch %s: %v", e.URL, e.Err)
}

// Unwrap exposes the transport error for errors.Is checks.
func (e *NetworkError) Unwrap() error { return e.Err }

// ScrapeError reports that a page was fetched but yielded zero extractable
// records, which almost always means the upstream layout changed. It is kept
// distinct from NetworkError because it must not be papered over by retries
// and must never overwrite previously cached data.
type ScrapeError struct {
	URL    string
	Reason string
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("registry scrape %s: %s", e.URL, e.Reason)
}
