package dataset

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/always-cache/graphcache/graph"
	"github.com/always-cache/graphcache/vocab"
)

// RecordStore persists datasets and their graph records.
//
// Implementations must be thread-safe!
type RecordStore interface {
	// Datasets returns every dataset found in the store.
	Datasets(ctx context.Context) ([]*Dataset, error)
	// SaveDataset writes the dataset description (not its records).
	SaveDataset(ctx context.Context, d *Dataset) error
	// Create writes a new record and links it to the dataset.
	Create(ctx context.Context, d *Dataset, g *Graph) error
	// Save overwrites the fields of an existing record.
	Save(ctx context.Context, g *Graph) error
	// Remove deletes a record and its link to the dataset.
	Remove(ctx context.Context, d *Dataset, g *Graph) error
}

// FactStore is a RecordStore keeping datasets as statements inside one graph of a statement store.
type FactStore struct {
	store   graph.Store
	context string
}

// NewFactStore returns a FactStore writing to the given context of store.
// An empty context means vocab.MetadataGraph.
func NewFactStore(store graph.Store, context string) *FactStore {
	if context == "" {
		context = vocab.MetadataGraph
	}
	return &FactStore{store: store, context: context}
}

func (f *FactStore) graphRef() graph.GraphRef {
	return graph.NamedGraph(f.context)
}

func (f *FactStore) Datasets(ctx context.Context) ([]*Dataset, error) {
	nodes, err := f.store.Match(ctx, graph.Pattern{
		Predicate: vocab.Type,
		Object:    vocab.Dataset,
		Graph:     f.graphRef(),
	})
	if err != nil {
		return nil, err
	}
	datasets := make([]*Dataset, 0, len(nodes))
	for _, node := range nodes {
		d, err := f.readDataset(ctx, node.Subject)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, d)
	}
	return datasets, nil
}

func (f *FactStore) readDataset(ctx context.Context, subject graph.Term) (*Dataset, error) {
	facts, err := f.store.Match(ctx, graph.Pattern{Subject: subject, Graph: f.graphRef()})
	if err != nil {
		return nil, err
	}
	d := &Dataset{ID: subject.Value()}
	for _, fact := range facts {
		switch fact.Predicate {
		case vocab.Title:
			d.Title = fact.Object.Value()
		case vocab.Description:
			d.Description = fact.Object.Value()
		case vocab.DefaultGraph, vocab.NamedGraphOf:
			g, err := f.readGraph(ctx, fact.Object)
			if err != nil {
				return nil, fmt.Errorf("read graph %s: %w", fact.Object, err)
			}
			if fact.Predicate == vocab.DefaultGraph {
				d.DefaultGraphs = append(d.DefaultGraphs, g)
			} else {
				d.NamedGraphs = append(d.NamedGraphs, g)
			}
		}
	}
	// statement order is not preserved by every store
	sortRecords(d.DefaultGraphs)
	sortRecords(d.NamedGraphs)
	return d, nil
}

func sortRecords(records []*Graph) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Source != records[j].Source {
			return records[i].Source < records[j].Source
		}
		return records[i].Name < records[j].Name
	})
}

func (f *FactStore) readGraph(ctx context.Context, subject graph.Term) (*Graph, error) {
	facts, err := f.store.Match(ctx, graph.Pattern{Subject: subject, Graph: f.graphRef()})
	if err != nil {
		return nil, err
	}
	return graphFromFacts(subject.Value(), facts)
}

func (f *FactStore) SaveDataset(ctx context.Context, d *Dataset) error {
	subject := graph.IRI(d.ID)
	for _, predicate := range []graph.Term{vocab.Title, vocab.Description} {
		if _, err := f.store.Delete(ctx, graph.Pattern{Subject: subject, Predicate: predicate, Graph: f.graphRef()}); err != nil {
			return err
		}
	}
	facts := []graph.Statement{f.fact(subject, vocab.Type, vocab.Dataset)}
	if d.Title != "" {
		facts = append(facts, f.fact(subject, vocab.Title, graph.String(d.Title)))
	}
	if d.Description != "" {
		facts = append(facts, f.fact(subject, vocab.Description, graph.String(d.Description)))
	}
	return f.store.Insert(ctx, facts...)
}

func (f *FactStore) Create(ctx context.Context, d *Dataset, g *Graph) error {
	link := vocab.DefaultGraph
	if g.Named() {
		link = vocab.NamedGraphOf
	}
	facts := append(f.graphFacts(g), f.fact(graph.IRI(d.ID), link, graph.IRI(g.ID)))
	return f.store.Insert(ctx, facts...)
}

func (f *FactStore) Save(ctx context.Context, g *Graph) error {
	if _, err := f.store.Delete(ctx, graph.Pattern{Subject: graph.IRI(g.ID), Graph: f.graphRef()}); err != nil {
		return err
	}
	return f.store.Insert(ctx, f.graphFacts(g)...)
}

func (f *FactStore) Remove(ctx context.Context, d *Dataset, g *Graph) error {
	if _, err := f.store.Delete(ctx, graph.Pattern{Subject: graph.IRI(d.ID), Object: graph.IRI(g.ID), Graph: f.graphRef()}); err != nil {
		return err
	}
	_, err := f.store.Delete(ctx, graph.Pattern{Subject: graph.IRI(g.ID), Graph: f.graphRef()})
	return err
}

func (f *FactStore) fact(s, p, o graph.Term) graph.Statement {
	return graph.Statement{Subject: s, Predicate: p, Object: o, Context: f.context}
}

// graphFacts maps record fields to statements. Absent fields produce no statement.
func (f *FactStore) graphFacts(g *Graph) []graph.Statement {
	subject := graph.IRI(g.ID)
	class := vocab.Graph
	if g.Named() {
		class = vocab.NamedGraph
	}
	facts := []graph.Statement{
		f.fact(subject, vocab.Type, class),
		f.fact(subject, vocab.Source, graph.IRI(g.Source)),
		f.fact(subject, vocab.Cachable, graph.Boolean(g.Cachable)),
	}
	add := func(p, o graph.Term) {
		facts = append(facts, f.fact(subject, p, o))
	}
	if g.Named() {
		add(vocab.Name, graph.IRI(g.Name))
	}
	if !g.RetrievedAt.IsZero() {
		add(vocab.Date, graph.DateTime(g.RetrievedAt))
	}
	if !g.LastModified.IsZero() {
		add(vocab.Modified, graph.DateTime(g.LastModified))
	}
	if g.ETag != "" {
		add(vocab.ETag, graph.String(g.ETag))
	}
	if g.MaxAge != nil {
		add(vocab.MaxAge, graph.Integer(int64(g.MaxAge.Seconds())))
	}
	if !g.Expires.IsZero() {
		add(vocab.Expires, graph.DateTime(g.Expires))
	}
	if !g.ResponseTime.IsZero() {
		add(vocab.ResponseTime, graph.DateTime(g.ResponseTime))
	}
	return facts
}

// graphFromFacts is the inverse of graphFacts.
func graphFromFacts(id string, facts []graph.Statement) (*Graph, error) {
	g := &Graph{ID: id}
	var err error
	for _, fact := range facts {
		switch fact.Predicate {
		case vocab.Source:
			g.Source = fact.Object.Value()
		case vocab.Name:
			g.Name = fact.Object.Value()
		case vocab.Date:
			g.RetrievedAt, err = fact.Object.Time()
		case vocab.Modified:
			g.LastModified, err = fact.Object.Time()
		case vocab.ETag:
			g.ETag = fact.Object.Value()
		case vocab.MaxAge:
			var seconds int64
			if seconds, err = fact.Object.Int(); err == nil {
				maxAge := time.Duration(seconds) * time.Second
				g.MaxAge = &maxAge
			}
		case vocab.Expires:
			g.Expires, err = fact.Object.Time()
		case vocab.Cachable:
			g.Cachable, err = fact.Object.Bool()
		case vocab.ResponseTime:
			g.ResponseTime, err = fact.Object.Time()
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fact.Predicate, err)
		}
	}
	if g.Source == "" {
		return nil, fmt.Errorf("record %s has no source", id)
	}
	return g, nil
}
