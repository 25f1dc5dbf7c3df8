package dataset

import (
	"context"
	"sync"

	"github.com/always-cache/graphcache/graph"
)

// Options configure how a dataset is opened.
type Options struct {
	// IRI of the dataset. A fresh anonymous one is minted if empty and the store has none.
	ID          string
	Title       string
	Description string
	// Context the metadata statements are kept in. Defaults to vocab.MetadataGraph.
	Graph string
}

// Registry maps (source, context) pairs to graph records of a single dataset.
// Records handed out are copies; changes are applied with Save.
type Registry struct {
	mutex   sync.RWMutex
	records RecordStore
	dataset *Dataset
}

// Open returns the registry of the one dataset associated with a store,
// establishing the dataset if the store has none yet.
func Open(ctx context.Context, store graph.Store, opts Options) (*Registry, error) {
	return OpenRecords(ctx, NewFactStore(store, opts.Graph), opts)
}

// OpenRecords is like Open but with a custom persistence collaborator.
func OpenRecords(ctx context.Context, records RecordStore, opts Options) (*Registry, error) {
	datasets, err := records.Datasets(ctx)
	if err != nil {
		return nil, &StorageError{Op: "read datasets", Err: err}
	}

	var d *Dataset
	switch len(datasets) {
	case 0:
		d = &Dataset{ID: opts.ID, Title: opts.Title, Description: opts.Description}
		if d.ID == "" {
			d.ID = newID()
		}
		if err := records.SaveDataset(ctx, d); err != nil {
			return nil, &StorageError{Op: "create dataset", Err: err}
		}
	case 1:
		d = datasets[0]
		if opts.ID != "" && opts.ID != d.ID {
			return nil, configurationErrorf("store already holds dataset %s, cannot open %s", d.ID, opts.ID)
		}
		if (opts.Title != "" && opts.Title != d.Title) || (opts.Description != "" && opts.Description != d.Description) {
			if opts.Title != "" {
				d.Title = opts.Title
			}
			if opts.Description != "" {
				d.Description = opts.Description
			}
			if err := records.SaveDataset(ctx, d); err != nil {
				return nil, &StorageError{Op: "update dataset", Err: err}
			}
		}
	default:
		return nil, configurationErrorf("store holds %d datasets, at most one is supported", len(datasets))
	}

	return &Registry{records: records, dataset: d}, nil
}

// ID returns the dataset IRI.
func (r *Registry) ID() string {
	return r.dataset.ID
}

// Find returns a copy of the record for the pair, or false if there is none.
// An empty context looks among the default-graph records.
func (r *Registry) Find(source, context string) (*Graph, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	if g := r.find(source, context); g != nil {
		clone := *g
		return &clone, true
	}
	return nil, false
}

func (r *Registry) find(source, context string) *Graph {
	records := r.dataset.DefaultGraphs
	if context != "" {
		records = r.dataset.NamedGraphs
	}
	for _, g := range records {
		if g.Source == source && g.Name == context {
			return g
		}
	}
	return nil
}

// NewRecord creates, links and persists a record for the pair.
// Only one default-graph source is allowed per dataset.
func (r *Registry) NewRecord(ctx context.Context, source, context string) (*Graph, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.newRecord(ctx, source, context)
}

func (r *Registry) newRecord(ctx context.Context, source, context string) (*Graph, error) {
	if context == "" {
		var abandoned []*Graph
		for _, existing := range r.dataset.DefaultGraphs {
			if existing.Source == source {
				continue
			}
			// a source that never loaded holds no statements of the default graph
			if !existing.Retrieved() {
				abandoned = append(abandoned, existing)
				continue
			}
			return nil, configurationErrorf("default graph is already loaded from %s, cannot also load %s into it", existing.Source, source)
		}
		for _, g := range abandoned {
			if err := r.remove(ctx, g); err != nil {
				return nil, err
			}
		}
	}
	g := &Graph{ID: newID(), Source: source, Name: context}
	if err := r.records.Create(ctx, r.dataset, g); err != nil {
		return nil, &StorageError{Op: "create record", Err: err}
	}
	if g.Named() {
		r.dataset.NamedGraphs = append(r.dataset.NamedGraphs, g)
	} else {
		r.dataset.DefaultGraphs = append(r.dataset.DefaultGraphs, g)
	}
	clone := *g
	return &clone, nil
}

// FindOrCreate returns the record for the pair, creating it on first sight.
// The boolean reports whether the record was created.
func (r *Registry) FindOrCreate(ctx context.Context, source, context string) (*Graph, bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if g := r.find(source, context); g != nil {
		clone := *g
		return &clone, false, nil
	}
	g, err := r.newRecord(ctx, source, context)
	return g, err == nil, err
}

// Save persists the record and makes it the registry's current version.
func (r *Registry) Save(ctx context.Context, g *Graph) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	current := r.find(g.Source, g.Name)
	if current == nil || current.ID != g.ID {
		return configurationErrorf("record %s is not part of dataset %s", g, r.dataset.ID)
	}
	if err := r.records.Save(ctx, g); err != nil {
		return &StorageError{Op: "save record", Err: err}
	}
	*current = *g
	return nil
}

// Remove unlinks the record from the dataset and deletes its metadata.
// Removing a record that is not part of the dataset is a no-op.
func (r *Registry) Remove(ctx context.Context, g *Graph) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	current := r.find(g.Source, g.Name)
	if current == nil || current.ID != g.ID {
		return nil
	}
	return r.remove(ctx, current)
}

func (r *Registry) remove(ctx context.Context, g *Graph) error {
	if err := r.records.Remove(ctx, r.dataset, g); err != nil {
		return &StorageError{Op: "remove record", Err: err}
	}
	if g.Named() {
		r.dataset.NamedGraphs = without(r.dataset.NamedGraphs, g)
	} else {
		r.dataset.DefaultGraphs = without(r.dataset.DefaultGraphs, g)
	}
	return nil
}

func without(records []*Graph, g *Graph) []*Graph {
	kept := records[:0:0]
	for _, record := range records {
		if record != g {
			kept = append(kept, record)
		}
	}
	return kept
}

// Snapshot returns a deep copy of the dataset.
func (r *Registry) Snapshot() Dataset {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	d := *r.dataset
	d.DefaultGraphs = cloneRecords(r.dataset.DefaultGraphs)
	d.NamedGraphs = cloneRecords(r.dataset.NamedGraphs)
	return d
}

func cloneRecords(records []*Graph) []*Graph {
	clones := make([]*Graph, len(records))
	for i, g := range records {
		clone := *g
		clones[i] = &clone
	}
	return clones
}
