// Package parse turns source documents into statements.
package parse

import (
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/knakk/rdf"
)

// Format is a supported serialization.
type Format struct {
	Name        string
	ContentType string
	// Additional content types served for the format.
	Aliases    []string
	Extensions []string

	rdf rdf.Format
}

var (
	Turtle = Format{
		Name:        "turtle",
		ContentType: "text/turtle",
		Aliases:     []string{"application/x-turtle"},
		Extensions:  []string{".ttl"},
		rdf:         rdf.Turtle,
	}
	NTriples = Format{
		Name:        "ntriples",
		ContentType: "application/n-triples",
		Aliases:     []string{"text/plain"},
		Extensions:  []string{".nt"},
		rdf:         rdf.NTriples,
	}
	RDFXML = Format{
		Name:        "rdfxml",
		ContentType: "application/rdf+xml",
		Aliases:     []string{"application/xml", "text/xml"},
		Extensions:  []string{".rdf", ".owl", ".xml"},
		rdf:         rdf.RDFXML,
	}
)

// Formats lists the supported formats in order of preference.
var Formats = []Format{Turtle, NTriples, RDFXML}

// UnsupportedFormatError is returned when no parser exists for a document.
type UnsupportedFormatError struct {
	ContentType string
	Path        string
}

func (e *UnsupportedFormatError) Error() string {
	if e.ContentType != "" && e.Path != "" {
		return fmt.Sprintf("unsupported content type %q for %s", e.ContentType, e.Path)
	}
	if e.ContentType != "" {
		return fmt.Sprintf("unsupported content type %q", e.ContentType)
	}
	return fmt.Sprintf("unsupported file extension of %q", e.Path)
}

// ForContentType returns the format serving a Content-Type header value.
func ForContentType(contentType string) (Format, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	for _, f := range Formats {
		if f.ContentType == mediaType {
			return f, nil
		}
		for _, alias := range f.Aliases {
			if alias == mediaType {
				return f, nil
			}
		}
	}
	return Format{}, &UnsupportedFormatError{ContentType: contentType}
}

// ForPath returns the format matching the extension of a path or URI.
func ForPath(p string) (Format, error) {
	// drop query and fragment of URIs
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	ext := strings.ToLower(path.Ext(p))
	for _, f := range Formats {
		for _, e := range f.Extensions {
			if e == ext {
				return f, nil
			}
		}
	}
	return Format{}, &UnsupportedFormatError{Path: p}
}

// Detect picks the format from the content type, falling back to the
// extension of uri when the content type is missing, unknown or generic.
func Detect(contentType, uri string) (Format, error) {
	f, err := ForContentType(contentType)
	if err == nil && !generic(contentType) {
		return f, nil
	}
	if byPath, pathErr := ForPath(uri); pathErr == nil {
		return byPath, nil
	}
	if err == nil {
		return f, nil
	}
	return Format{}, &UnsupportedFormatError{ContentType: contentType, Path: uri}
}

// generic content types are served for documents of any format
func generic(contentType string) bool {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "text/plain", "application/xml", "text/xml":
		return true
	}
	return false
}
