package rfc9111

import "net/http"

// §  3. Storing Responses in Caches
// §
// §  A cache MUST NOT store a response to a request unless:
// §
// §  *  the request method is understood by the cache;
// §
// §  *  the response status code is final (see Section 15 of [HTTP]);
// §
// §  *  the no-store cache directive is not present in the response (see
// §     Section 5.2.2.5);
// §
// §  *  if the cache is shared: the private response directive is either
// §     not present or allows a shared cache to store a modified response;
//
// Loaded graphs are shared by every reader of the store, and a representation
// that must be revalidated on every use is treated as not reusable.
func Cachable(header http.Header) bool {
	cc := ParseCacheControl(header)
	return !cc.NoStore() && !cc.NoCache() && !cc.Private()
}
