package rfc9111

import (
	"net/http"
	"testing"
	"time"
)

func cacheControl(values ...string) http.Header {
	header := make(http.Header)
	for _, v := range values {
		header.Add(FieldCacheControl, v)
	}
	return header
}

func TestMaxAge(t *testing.T) {
	cc := ParseCacheControl(cacheControl("max-age=60"))
	val, ok := cc.Get("max-age")
	if !ok {
		t.Fatal("Could not get directive")
	}
	if val != "60" {
		t.Fatalf("Value is %s", val)
	}
	if maxAge, _ := cc.MaxAge(); maxAge != time.Minute {
		t.Fatalf("Max age is %v", maxAge)
	}
}

func TestReal(t *testing.T) {
	cc := ParseCacheControl(cacheControl("public,max-age=3600, s-maxage=7200", "must-revalidate"))
	if maxAge, ok := cc.MaxAge(); !ok || maxAge != time.Hour {
		t.Fatalf("Max age is %v", maxAge)
	}
	if !cc.HasDirective("PUBLIC") {
		t.Fatal("Directives should match case-insensitively")
	}
	if !cc.HasDirective("must-revalidate") {
		t.Fatal("Directives of every field line should be read")
	}
}

func TestQuotedMaxAge(t *testing.T) {
	cc := ParseCacheControl(cacheControl(`max-age="10"`))
	if maxAge, _ := cc.MaxAge(); maxAge != 10*time.Second {
		t.Fatalf("Max age is %v", maxAge)
	}
}

func TestInvalidMaxAgeIsStale(t *testing.T) {
	maxAge, ok := ParseCacheControl(cacheControl("max-age=soon")).MaxAge()
	if !ok || maxAge != 0 {
		t.Fatalf("Max age is %v (%v)", maxAge, ok)
	}
}

func TestCachable(t *testing.T) {
	for _, value := range []string{"no-store", "no-cache", "private", "max-age=10, private"} {
		if Cachable(cacheControl(value)) {
			t.Fatalf("%s should not be cachable", value)
		}
	}
	if !Cachable(cacheControl("public, max-age=10")) {
		t.Fatal("Public response should be cachable")
	}
	if !Cachable(make(http.Header)) {
		t.Fatal("Response without Cache-Control should be cachable")
	}
}

func TestExpires(t *testing.T) {
	header := make(http.Header)
	header.Set(FieldExpires, "Thu, 01 Dec 1994 16:00:00 GMT")
	expires, ok := Expires(header)
	if !ok || !expires.Equal(time.Date(1994, 12, 1, 16, 0, 0, 0, time.UTC)) {
		t.Fatalf("Expires is %v", expires)
	}

	header.Set(FieldCacheControl, "max-age=10")
	if _, ok := Expires(header); ok {
		t.Fatal("Expires should be ignored when max-age is present")
	}
}

func TestExpiresInvalid(t *testing.T) {
	header := make(http.Header)
	header.Set(FieldExpires, "0")
	expires, ok := Expires(header)
	if !ok || expires.IsZero() || !expires.Before(time.Now()) {
		t.Fatalf("Invalid Expires should be in the past, is %v", expires)
	}
}

func TestValidationHeaders(t *testing.T) {
	lastModified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	header := ValidationHeaders(`"abc"`, lastModified)
	if header.Get(FieldIfNoneMatch) != `"abc"` {
		t.Fatalf("If-None-Match is %s", header.Get(FieldIfNoneMatch))
	}
	if header.Get(FieldIfModifiedSince) != "Tue, 02 Jan 2024 03:04:05 GMT" {
		t.Fatalf("If-Modified-Since is %s", header.Get(FieldIfModifiedSince))
	}
	if len(ValidationHeaders("", time.Time{})) != 0 {
		t.Fatal("No validators should produce no headers")
	}
}

func TestFreshenable(t *testing.T) {
	header := make(http.Header)
	if !Freshenable(`"abc"`, header) {
		t.Fatal("304 without validators should freshen the single stored response")
	}
	header.Set(FieldETag, `"abc"`)
	if !Freshenable(`"abc"`, header) {
		t.Fatal("Matching entity tag should freshen")
	}
	header.Set(FieldETag, `"xyz"`)
	if Freshenable(`"abc"`, header) {
		t.Fatal("Different strong entity tag should not freshen")
	}
	header.Set(FieldETag, `W/"xyz"`)
	if !Freshenable(`"abc"`, header) {
		t.Fatal("Weak entity tag should not rule out the stored response")
	}
}
