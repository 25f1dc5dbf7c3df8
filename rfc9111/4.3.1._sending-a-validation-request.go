package rfc9111

import (
	"net/http"
	"time"
)

// §  4.3.1. Sending a Validation Request
// §
// §  When generating a conditional request for validation, a cache either starts
// §  from a request it is attempting to satisfy or -- if it is initiating the
// §  request independently -- synthesizes a request using the stored response
// §
// §  When a cache generates a validation request, it
// §
// §  *  MUST send the relevant entity tag (using If-Match, If-None-Match, or
// §     If-Range) if the entity tag was provided in the stored response being
// §     validated.
// §
// §  *  SHOULD send the Last-Modified value (using If-Modified-Since) if the
// §     request is not for a subrange, a single stored response is being
// §     validated, and that response contains a Last-Modified value.
func ValidationHeaders(etag string, lastModified time.Time) http.Header {
	header := make(http.Header)
	if etag != "" {
		header.Set(FieldIfNoneMatch, etag)
	}
	if !lastModified.IsZero() {
		header.Set(FieldIfModifiedSince, ToHttpDate(lastModified))
	}
	return header
}
