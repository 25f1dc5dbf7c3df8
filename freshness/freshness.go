// Package freshness decides whether a graph record can be served as is and
// updates records from the responses of their sources.
package freshness

import (
	"net/http"
	"time"

	"github.com/always-cache/graphcache/dataset"
	"github.com/always-cache/graphcache/rfc9111"
)

// IsExpired reports whether the record has to be validated against its source.
// A record that was never retrieved, or is not cachable, is always expired.
func IsExpired(g *dataset.Graph, now time.Time) bool {
	if !g.Retrieved() || !g.Cachable {
		return true
	}
	if !g.Expires.IsZero() && !now.Before(g.Expires) {
		return true
	}
	if g.MaxAge != nil && !now.Before(g.RetrievedAt.Add(*g.MaxAge)) {
		return true
	}
	return false
}

// TimeToLive returns the remaining freshness of the record, negative when stale.
// Records without freshness information have a TTL of zero.
func TimeToLive(g *dataset.Graph, now time.Time) time.Duration {
	if !g.Retrieved() || !g.Cachable {
		return 0
	}
	var (
		ttl   time.Duration
		found bool
	)
	if g.MaxAge != nil {
		ttl, found = g.RetrievedAt.Add(*g.MaxAge).Sub(now), true
	}
	if !g.Expires.IsZero() {
		if untilExpires := g.Expires.Sub(now); !found || untilExpires < ttl {
			ttl, found = untilExpires, true
		}
	}
	return ttl
}

// ValidationHeaders returns the conditional request header fields for the record.
func ValidationHeaders(g *dataset.Graph) http.Header {
	return rfc9111.ValidationHeaders(g.ETag, g.LastModified)
}

// Refresh replaces the cache fields of the record with the ones of a freshly
// retrieved representation received at the given time.
// With override set the record is cachable regardless of Cache-Control.
func Refresh(g *dataset.Graph, header http.Header, received time.Time, override bool) {
	g.RetrievedAt = retrievedAt(header, received)
	g.LastModified = lastModified(header)
	g.ETag = header.Get(rfc9111.FieldETag)
	g.MaxAge = nil
	if maxAge, ok := rfc9111.ParseCacheControl(header).MaxAge(); ok {
		g.MaxAge = &maxAge
	}
	g.Expires = time.Time{}
	if expires, ok := rfc9111.Expires(header); ok {
		g.Expires = expires
	}
	g.Cachable = override || rfc9111.Cachable(header)
}

// Freshen updates the record with the fields a 304 (Not Modified) response carries.
// It returns false, leaving the record untouched, if the response does not
// validate the stored representation.
func Freshen(g *dataset.Graph, header http.Header, received time.Time, override bool) bool {
	if !rfc9111.Freshenable(g.ETag, header) {
		return false
	}
	g.RetrievedAt = retrievedAt(header, received)
	if modified := lastModified(header); !modified.IsZero() {
		g.LastModified = modified
	}
	if etag := header.Get(rfc9111.FieldETag); etag != "" {
		g.ETag = etag
	}
	if len(header.Values(rfc9111.FieldCacheControl)) > 0 {
		cc := rfc9111.ParseCacheControl(header)
		g.MaxAge = nil
		if maxAge, ok := cc.MaxAge(); ok {
			g.MaxAge = &maxAge
			g.Expires = time.Time{}
		}
		g.Cachable = override || rfc9111.Cachable(header)
	} else if override {
		g.Cachable = true
	}
	if expires, ok := rfc9111.Expires(header); ok {
		g.Expires = expires
	}
	return true
}

// §  6.6.1. Date (RFC 9110)
// §
// §     A recipient with a clock that receives a response message without a
// §     Date header field MUST record the time it was received and append a
// §     corresponding Date header field to the message's header section if
// §     it is cached or forwarded downstream.
func retrievedAt(header http.Header, received time.Time) time.Time {
	if value := header.Get(rfc9111.FieldDate); value != "" {
		if date, err := rfc9111.HttpDate(value); err == nil {
			return date
		}
	}
	return received.UTC()
}

func lastModified(header http.Header) time.Time {
	value := header.Get(rfc9111.FieldLastModified)
	if value == "" {
		return time.Time{}
	}
	modified, err := rfc9111.HttpDate(value)
	if err != nil {
		return time.Time{}
	}
	return modified
}
