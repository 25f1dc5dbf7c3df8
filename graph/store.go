// Package graph holds the statement model and the statement store contract
// the loader writes parsed documents into.
package graph

import (
	"context"
	"fmt"
)

// Statement is a single triple, optionally tagged with the named graph (context) it belongs to.
type Statement struct {
	Subject   Term
	Predicate Term
	Object    Term
	// IRI of the named graph. Empty for the default graph.
	Context string
}

func (s Statement) String() string {
	if s.Context == "" {
		return fmt.Sprintf("%s %s %s .", s.Subject, s.Predicate, s.Object)
	}
	return fmt.Sprintf("%s %s %s <%s> .", s.Subject, s.Predicate, s.Object, s.Context)
}

// GraphRef selects which part of a store a pattern applies to.
// The zero value selects the default (untagged) graph.
type GraphRef struct {
	IRI string
	Any bool
}

var (
	DefaultGraph = GraphRef{}
	AnyGraph     = GraphRef{Any: true}
)

// NamedGraph selects the graph with the given context IRI.
// An empty IRI selects the default graph.
func NamedGraph(iri string) GraphRef {
	return GraphRef{IRI: iri}
}

func (g GraphRef) Matches(context string) bool {
	return g.Any || g.IRI == context
}

func (g GraphRef) String() string {
	switch {
	case g.Any:
		return "*"
	case g.IRI == "":
		return "default"
	}
	return g.IRI
}

// Pattern matches statements. Empty terms are wildcards.
// `Pattern{Graph: DefaultGraph}` matches every statement lacking a context.
type Pattern struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     GraphRef
}

func (p Pattern) Matches(s Statement) bool {
	return (p.Subject == "" || p.Subject == s.Subject) &&
		(p.Predicate == "" || p.Predicate == s.Predicate) &&
		(p.Object == "" || p.Object == s.Object) &&
		p.Graph.Matches(s.Context)
}

// Store is a mutable statement collection.
//
// Implementations must be thread-safe!
type Store interface {
	// Insert adds statements. Inserting a statement that is already present is a no-op.
	Insert(ctx context.Context, statements ...Statement) error
	// Delete removes all statements matching the pattern and returns how many were removed.
	Delete(ctx context.Context, p Pattern) (int, error)
	// Match returns all statements matching the pattern.
	Match(ctx context.Context, p Pattern) ([]Statement, error)
}

// Replacer is implemented by stores that can swap the contents of a graph atomically.
type Replacer interface {
	Replace(ctx context.Context, g GraphRef, statements []Statement) error
}

// Replace swaps the contents of graph g for the given statements,
// atomically if the store supports it and as delete-then-insert otherwise.
func Replace(ctx context.Context, s Store, g GraphRef, statements []Statement) error {
	if g.Any {
		return fmt.Errorf("cannot replace all graphs at once")
	}
	if r, ok := s.(Replacer); ok {
		return r.Replace(ctx, g, statements)
	}
	if _, err := s.Delete(ctx, Pattern{Graph: g}); err != nil {
		return err
	}
	return s.Insert(ctx, statements...)
}

// Counter is implemented by stores that can count statements without returning them.
type Counter interface {
	Count(ctx context.Context, p Pattern) (int, error)
}

// Count returns the number of statements matching the pattern.
func Count(ctx context.Context, s Store, p Pattern) (int, error) {
	if c, ok := s.(Counter); ok {
		return c.Count(ctx, p)
	}
	matches, err := s.Match(ctx, p)
	return len(matches), err
}
