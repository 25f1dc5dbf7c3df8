package rfc9111

import (
	"net/http"
	"time"
)

// §  5.3. Expires
// §
// §  The "Expires" response header field gives the date/time after which the
// §  response is considered stale.
// §
// §  A cache recipient MUST interpret invalid date formats, especially the value
// §  "0", as representing a time in the past (i.e., "already expired").
// §
// §  If a response includes a Cache-Control header field with the max-age
// §  directive (Section 5.2.2.1), a recipient MUST ignore the Expires header
// §  field.
//
// The boolean reports whether the Expires field applies at all.
func Expires(header http.Header) (time.Time, bool) {
	if _, ok := ParseCacheControl(header).MaxAge(); ok {
		return time.Time{}, false
	}
	value := header.Get(FieldExpires)
	if value == "" {
		return time.Time{}, false
	}
	expires, err := HttpDate(value)
	if err != nil {
		return pastTime, true
	}
	return expires, true
}

// pastTime is a non-zero instant every clock has passed.
var pastTime = time.Unix(0, 0).UTC()
