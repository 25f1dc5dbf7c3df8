package rfc9111

import "net/http"

// §  4.3.4. Freshening Stored Responses upon Validation
// §
// §  When a cache receives a 304 (Not Modified) response, it needs to identify
// §  stored responses that are suitable for updating with the new information
// §  provided, and then do so.
// §
// §  The initial set of stored responses to update are those that could have
// §  been chosen for that request
// §
// §  Then, that initial set of stored responses is further filtered by the
// §  first match of:
// §
// §  *  If the 304 response contains a strong entity tag (Section 8.8.3 of
// §     [HTTP]), the stored responses with the same strong entity tag.
// §
// §  *  If the 304 response contains a Last-Modified value (Section 8.8.2 of
// §     [HTTP]), the stored responses with the same Last-Modified value.
// §
// §  *  If there is only a single stored response, that response.
//
// With a single stored response per graph only a mismatching strong entity tag
// rules the stored response out.
func Freshenable(storedETag string, notModified http.Header) bool {
	etag := notModified.Get(FieldETag)
	if etag == "" || isWeak(etag) || storedETag == "" {
		return true
	}
	return etag == storedETag
}

func isWeak(etag string) bool {
	return len(etag) > 2 && etag[:2] == "W/"
}
