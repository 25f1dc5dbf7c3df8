// Package graphcache loads RDF sources into a statement store the way an HTTP
// cache would: a source is only fetched again once its recorded freshness has
// run out, and then conditionally, so unchanged documents are neither
// downloaded nor re-inserted.
package graphcache

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/always-cache/graphcache/dataset"
	"github.com/always-cache/graphcache/fetch"
	"github.com/always-cache/graphcache/graph"
)

// CacheName identifies the loader in Cache-Status values.
const CacheName = "graphcache"

type Config struct {
	// Store the parsed statements are written to.
	Store graph.Store
	// Registry of the dataset the loaded graphs are recorded in.
	// Loads without a registry of their own fail if nil.
	Registry *dataset.Registry
	// Fetcher for sources. An HTTPFetcher with default settings is used if nil.
	Fetcher fetch.Fetcher
	// Logger to use. The global zerolog logger is used if nil.
	Logger *zerolog.Logger
	// Metrics to record loads in. Nothing is recorded if nil.
	Metrics *Metrics
	// EagerDelete clears a graph before its freshness is checked, even if
	// it then turns out fresh or fails to load.
	EagerDelete bool
	// Concurrency limits the number of parallel loads of LoadAll. Defaults to 4.
	Concurrency int
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Loader loads sources into a store.
// It is safe for concurrent use; loads of the same graph are serialized.
type Loader struct {
	store       graph.Store
	registry    *dataset.Registry
	fetcher     fetch.Fetcher
	log         zerolog.Logger
	metrics     *Metrics
	eagerDelete bool
	concurrency int
	now         func() time.Time
	locks       *keyLock
}

// New creates a loader from the config.
func New(config Config) *Loader {
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}
	l := &Loader{
		store:       config.Store,
		registry:    config.Registry,
		fetcher:     config.Fetcher,
		log:         logger,
		metrics:     config.Metrics,
		eagerDelete: config.EagerDelete,
		concurrency: config.Concurrency,
		now:         config.Clock,
		locks:       newKeyLock(),
	}
	if l.fetcher == nil {
		l.fetcher = fetch.NewHTTPFetcher(fetch.Config{Logger: &logger})
	}
	if l.concurrency <= 0 {
		l.concurrency = 4
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// Registry returns the default registry of the loader, nil if there is none.
func (l *Loader) Registry() *dataset.Registry {
	return l.registry
}

// Store returns the statement store the loader writes to.
func (l *Loader) Store() graph.Store {
	return l.store
}
