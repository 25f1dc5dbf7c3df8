// Package fetch retrieves source documents, conditionally when the caller
// already holds a copy.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Fetcher performs conditional GET requests.
//
// Implementations must be thread-safe!
type Fetcher interface {
	// Fetch retrieves uri sending the given validation header fields.
	// Failures are returned as *FetchError.
	Fetch(ctx context.Context, uri string, validators http.Header) (*Response, error)
}

// Response is the outcome of a successful fetch.
type Response struct {
	// NotModified is set when the source confirmed the validators (HTTP 304).
	NotModified bool
	// Header of the final response, after rules have been applied.
	Header http.Header
	// ReceivedAt is the local time the response was received.
	ReceivedAt time.Time
	// Representation is nil when NotModified is set.
	Representation *Representation
}

// Representation is a retrieved document.
type Representation struct {
	// URI the document was retrieved from, after redirects.
	URI         string
	ContentType string
	Body        []byte
}

// FetchError is returned when a source cannot be retrieved.
type FetchError struct {
	URI string
	// StatusCode of the response, zero if there was none.
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URI, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URI, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsLocal reports whether uri is served from the local file system,
// i.e. is a file URI or a bare path.
func IsLocal(uri string) bool {
	u, err := url.Parse(uri)
	return err == nil && isLocalScheme(u.Scheme)
}

func isLocalScheme(scheme string) bool {
	return scheme == "file" || scheme == ""
}
