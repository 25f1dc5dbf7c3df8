package rfc9111

import (
	"net/http"
	"strings"
	"time"
)

// §  5.2. Cache-Control
// §
// §  The "Cache-Control" header field is used to list directives for caches along
// §  the request/response chain. Cache directives are unidirectional, in that the
// §  presence of a directive in a request does not imply that the same directive
// §  is present or copied in the response.
// §
// §    Cache-Control   = #cache-directive
// §
// §    cache-directive = token [ "=" ( token / quoted-string ) ]
// §
// §  Cache directives are identified by a token, to be compared case-
// §  insensitively, and have an optional argument that can use both token and
// §  quoted-string syntax.
type CacheControl struct {
	directives map[string]string
}

// ParseCacheControl reads every Cache-Control field line of the header.
func ParseCacheControl(header http.Header) CacheControl {
	cc := CacheControl{directives: make(map[string]string)}
	for _, line := range header.Values(FieldCacheControl) {
		for _, directive := range strings.Split(line, ",") {
			directive = strings.TrimSpace(directive)
			if directive == "" {
				continue
			}
			name, value, _ := strings.Cut(directive, "=")
			name = strings.ToLower(strings.TrimSpace(name))
			// §  a sender SHOULD NOT generate the quoted-string form
			// §  (recipients are expected to accept it anyway)
			value = strings.Trim(strings.TrimSpace(value), `"`)
			// first occurrence wins
			if _, ok := cc.directives[name]; !ok {
				cc.directives[name] = value
			}
		}
	}
	return cc
}

// Get returns the argument of a directive and whether the directive is present.
func (cc CacheControl) Get(directive string) (string, bool) {
	value, ok := cc.directives[strings.ToLower(directive)]
	return value, ok
}

func (cc CacheControl) HasDirective(directive string) bool {
	_, ok := cc.Get(directive)
	return ok
}

// §  5.2.2.1. max-age
// §
// §  Argument syntax:
// §
// §    delta-seconds (see Section 1.2.2)
// §
// §  The max-age response directive indicates that the response is to be
// §  considered stale after its age is greater than the specified number of
// §  seconds.
func (cc CacheControl) MaxAge() (time.Duration, bool) {
	value, ok := cc.Get("max-age")
	if !ok {
		return 0, false
	}
	maxAge, err := deltaSeconds(value)
	if err != nil {
		// §  If a cache receives an invalid max-age, it ought to treat
		// §  the response as stale.
		return 0, true
	}
	return maxAge, true
}

// §  5.2.2.4. no-cache
// §
// §  The no-cache response directive, in its unqualified form (without an
// §  argument), indicates that the response MUST NOT be used to satisfy any
// §  other request without forwarding it for validation and receiving a
// §  successful response
func (cc CacheControl) NoCache() bool {
	return cc.HasDirective("no-cache")
}

// §  5.2.2.5. no-store
// §
// §  The no-store response directive indicates that a cache MUST NOT store any
// §  part of either the immediate request or the response
func (cc CacheControl) NoStore() bool {
	return cc.HasDirective("no-store")
}

// §  5.2.2.7. private
// §
// §  The unqualified private response directive indicates that a shared cache
// §  MUST NOT store the response (i.e., the response is intended for a single
// §  user).
func (cc CacheControl) Private() bool {
	return cc.HasDirective("private")
}
