// Package dataset keeps track of which sources have been loaded into a store
// and the HTTP cache metadata recorded for each of them.
package dataset

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Dataset describes the loaded content of one store.
type Dataset struct {
	ID          string
	Title       string
	Description string
	// Records whose statements are merged into the untagged default graph.
	DefaultGraphs []*Graph
	// Records whose statements are kept under their own context.
	NamedGraphs []*Graph
}

// Graph is the cache metadata record of one loaded source.
// Source and Name are fixed at creation; everything else is refreshed on every load.
type Graph struct {
	ID     string
	Source string
	// Context IRI for named graphs, empty for default-graph records.
	Name string

	// HTTP Date of the retrieved representation. Zero if never retrieved.
	RetrievedAt  time.Time
	LastModified time.Time
	ETag         string
	MaxAge       *time.Duration
	Expires      time.Time
	Cachable     bool
	// Last time the loader accessed or validated this record.
	ResponseTime time.Time
}

// Named reports whether the record belongs to a named graph.
func (g *Graph) Named() bool {
	return g.Name != ""
}

// Retrieved reports whether a representation has ever been loaded for the record.
func (g *Graph) Retrieved() bool {
	return !g.RetrievedAt.IsZero()
}

func (g *Graph) String() string {
	if g.Named() {
		return fmt.Sprintf("%s <%s>", g.Source, g.Name)
	}
	return g.Source
}

func newID() string {
	return "urn:uuid:" + uuid.NewString()
}
