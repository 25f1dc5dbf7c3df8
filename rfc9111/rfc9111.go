// Package rfc9111 implements the parts of HTTP Caching (RFC 9111) needed to
// keep loaded graphs in sync with their sources: reading freshness information
// from response header fields and building validation requests.
//
// The relevant parts of the standard are quoted with a `§` prefix next to the code implementing them.
package rfc9111

// §  Internet Engineering Task Force (IETF)                  R. Fielding, Ed.
// §  Request for Comments: 9111                                         Adobe
// §  STD: 98                                               M. Nottingham, Ed.
// §  Obsoletes: 7234                                                   Fastly
// §  Category: Standards Track                                J. Reschke, Ed.
// §  ISSN: 2070-1721                                               greenbytes
// §                                                                 June 2022
// §
// §                                HTTP Caching
// §
// §  Abstract
// §
// §     The Hypertext Transfer Protocol (HTTP) is a stateless application-
// §     level protocol for distributed, collaborative, hypertext information
// §     systems.  This document defines HTTP caches and the associated header
// §     fields that control cache behavior or indicate cacheable response
// §     messages.

// Header field names used by the package.
const (
	FieldCacheControl    = "Cache-Control"
	FieldDate            = "Date"
	FieldETag            = "ETag"
	FieldExpires         = "Expires"
	FieldLastModified    = "Last-Modified"
	FieldIfNoneMatch     = "If-None-Match"
	FieldIfModifiedSince = "If-Modified-Since"
)
