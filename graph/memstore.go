package graph

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store, keyed by context.
// Statement order within a graph is insertion order.
type MemStore struct {
	mutex  *sync.RWMutex
	graphs map[string][]Statement
	index  map[Statement]struct{}
}

func NewMemStore() MemStore {
	return MemStore{
		mutex:  &sync.RWMutex{},
		graphs: make(map[string][]Statement),
		index:  make(map[Statement]struct{}),
	}
}

func (m MemStore) Insert(ctx context.Context, statements ...Statement) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.insert(statements)
	return nil
}

func (m MemStore) insert(statements []Statement) {
	for _, s := range statements {
		if _, ok := m.index[s]; ok {
			continue
		}
		m.index[s] = struct{}{}
		m.graphs[s.Context] = append(m.graphs[s.Context], s)
	}
}

func (m MemStore) Delete(ctx context.Context, p Pattern) (int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.delete(p), nil
}

func (m MemStore) delete(p Pattern) int {
	deleted := 0
	for name, statements := range m.graphs {
		if !p.Graph.Matches(name) {
			continue
		}
		kept := statements[:0]
		for _, s := range statements {
			if p.Matches(s) {
				delete(m.index, s)
				deleted++
			} else {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(m.graphs, name)
		} else {
			m.graphs[name] = kept
		}
	}
	return deleted
}

func (m MemStore) Match(ctx context.Context, p Pattern) ([]Statement, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	matches := make([]Statement, 0)
	for name, statements := range m.graphs {
		if !p.Graph.Matches(name) {
			continue
		}
		for _, s := range statements {
			if p.Matches(s) {
				matches = append(matches, s)
			}
		}
	}
	return matches, nil
}

// Replace swaps the graph contents under a single lock,
// so readers never observe a half-replaced graph.
func (m MemStore) Replace(ctx context.Context, g GraphRef, statements []Statement) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.delete(Pattern{Graph: g})
	m.insert(statements)
	return nil
}

// Len returns the number of statements in the store.
func (m MemStore) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.index)
}

func (m MemStore) Count(ctx context.Context, p Pattern) (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	count := 0
	for name, statements := range m.graphs {
		if !p.Graph.Matches(name) {
			continue
		}
		for _, s := range statements {
			if p.Matches(s) {
				count++
			}
		}
	}
	return count, nil
}
