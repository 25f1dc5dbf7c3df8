// Package rfc9211 formats Cache-Status values (RFC 9211) describing how a load
// was served from the graph cache.
//
// The relevant parts of the standard are quoted with a `§` prefix.
package rfc9211

import (
	"fmt"
	"strings"
	"time"
)

// §  2. The Cache-Status HTTP Response Header Field
// §
// §     The Cache-Status HTTP response header field indicates caches'
// §     handling of the request corresponding to the response it occurs
// §     within.
// §
// §     Its value is a List (Section 3.1 of [STRUCTURED-FIELDS]):
// §
// §     Cache-Status   = sf-list
// §
// §     Each member of the list represents a cache that has handled the
// §     request.  The first member of the list represents the cache closest
// §     to the origin server, and the last member of the list represents the
// §     cache closest to the user (possibly including the user agent's cache
// §     itself, if it appends a value).
// §
// §     Caches determine when it is appropriate to add the Cache-Status
// §     header field to a response.  Some might add it to all responses,
// §     whereas others might only do so when specifically configured to, or
// §     when the request contains a header field that activates a debugging
// §     mode.
type CacheStatus struct {
	cache     string
	hit       bool
	fwdReason FwdReason
	fwdStatus int
	ttl       *time.Duration
	stored    bool
	detail    string
}

// FwdReason explains why a load was forwarded to the source.
type FwdReason string

// §  2.2. The fwd parameter
const (
	// The cache did not contain any responses that matched the
	// request URI.
	FwdUriMiss FwdReason = "uri-miss"

	// The cache was able to select a fresh response for the
	// request, but the request's semantics (e.g., Cache-Control request
	// directives) did not allow its use.
	FwdRequest FwdReason = "request"

	// The cache was able to select a response for the request, but
	// it was stale.
	FwdStale FwdReason = "stale"
)

// New returns an empty status for the named cache.
func New(cache string) *CacheStatus {
	return &CacheStatus{cache: cache}
}

// §  2.1. The hit parameter
// §
// §     "hit", when true, indicates that the request was satisfied by the
// §     cache; that is, it was not forwarded, and the response was obtained
// §     from the cache.
func (cs *CacheStatus) Hit() {
	cs.hit = true
	cs.fwdReason = ""
}

// §     "fwd" indicates that the request went forward towards the origin
// §     and why.
func (cs *CacheStatus) Forward(reason FwdReason) {
	cs.hit = false
	cs.fwdReason = reason
}

// §  2.3. The fwd-status parameter
// §
// §     "fwd-status" indicates what status code the next hop server returned
// §     in response to the forwarded request.
func (cs *CacheStatus) ForwardStatus(status int) {
	cs.fwdStatus = status
}

// §  2.4. The ttl parameter
// §
// §     "ttl" indicates the response's remaining freshness lifetime as
// §     calculated by the cache, as an integer number of seconds, measured
// §     when the response header section is sent by the cache.
func (cs *CacheStatus) TimeToLive(ttl time.Duration) {
	cs.ttl = &ttl
}

// §  2.5. The stored parameter
// §
// §     "stored" indicates whether the cache stored the response
func (cs *CacheStatus) Stored() {
	cs.stored = true
}

// §  2.8. The detail parameter
// §
// §     "detail" allows implementations to convey additional information
// §     not captured in other parameters
func (cs *CacheStatus) Detail(detail string) {
	cs.detail = detail
}

func (cs *CacheStatus) IsHit() bool {
	return cs.hit
}

func (cs *CacheStatus) FwdReason() FwdReason {
	return cs.fwdReason
}

func (cs *CacheStatus) IsStored() bool {
	return cs.stored
}

func (cs *CacheStatus) String() string {
	var b strings.Builder
	b.WriteString(cs.cache)
	if cs.hit {
		b.WriteString("; hit")
	} else if cs.fwdReason != "" {
		fmt.Fprintf(&b, "; fwd=%s", cs.fwdReason)
	}
	if cs.fwdStatus != 0 {
		fmt.Fprintf(&b, "; fwd-status=%d", cs.fwdStatus)
	}
	if cs.stored {
		b.WriteString("; stored")
	}
	if cs.ttl != nil {
		fmt.Fprintf(&b, "; ttl=%d", int64(cs.ttl.Truncate(time.Second).Seconds()))
	}
	if cs.detail != "" {
		fmt.Fprintf(&b, "; detail=%s", cs.detail)
	}
	return b.String()
}
