// Package vocab holds the vocabulary terms used to persist dataset and graph
// cache metadata as statements.
package vocab

import "github.com/always-cache/graphcache/graph"

// Namespaces.
const (
	RDF   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	SD    = "http://www.w3.org/ns/sparql-service-description#"
	DCT   = "http://purl.org/dc/terms/"
	HTTPH = "http://www.w3.org/2011/http-headers#"
	// Terms without a standard home (max-age, cachable, local access time).
	GC = "https://always-cache.dev/ns/graphcache#"
)

// MetadataGraph is the context dataset metadata is stored in
// unless another one is configured.
const MetadataGraph = GC + "metadata"

// Classes.
var (
	Type       = graph.IRI(RDF + "type")
	Dataset    = graph.IRI(SD + "Dataset")
	Graph      = graph.IRI(SD + "Graph")
	NamedGraph = graph.IRI(SD + "NamedGraph")
)

// Dataset predicates.
var (
	Title        = graph.IRI(DCT + "title")
	Description  = graph.IRI(DCT + "description")
	DefaultGraph = graph.IRI(SD + "defaultGraph")
	NamedGraphOf = graph.IRI(SD + "namedGraph")
)

// Graph record predicates.
var (
	// Source is the document the graph was loaded from.
	Source = graph.IRI(DCT + "source")
	// Name is the context IRI of a named graph.
	Name = graph.IRI(SD + "name")
	// Date is the HTTP Date of the retrieved representation.
	Date = graph.IRI(DCT + "date")
	// Modified is the HTTP Last-Modified validator.
	Modified = graph.IRI(DCT + "modified")
	ETag     = graph.IRI(HTTPH + "etag")
	Expires  = graph.IRI(HTTPH + "expires")
	// MaxAge is in seconds.
	MaxAge       = graph.IRI(GC + "maxAge")
	Cachable     = graph.IRI(GC + "cachable")
	ResponseTime = graph.IRI(GC + "responseTime")
)
