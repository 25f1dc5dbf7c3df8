package dataset

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/always-cache/graphcache/graph"
	"github.com/always-cache/graphcache/vocab"
)

func TestOpenCreatesDataset(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()

	r, err := Open(ctx, store, Options{Title: "Example"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(r.ID(), "urn:uuid:"))

	reopened, err := Open(ctx, store, Options{})
	require.NoError(t, err)
	assert.Equal(t, r.ID(), reopened.ID())
	assert.Equal(t, "Example", reopened.Snapshot().Title)
}

func TestOpenUpdatesDescription(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	_, err := Open(ctx, store, Options{ID: "http://example.org/ds", Title: "Old"})
	require.NoError(t, err)

	_, err = Open(ctx, store, Options{Title: "New", Description: "Described"})
	require.NoError(t, err)
	r, err := Open(ctx, store, Options{})
	require.NoError(t, err)
	d := r.Snapshot()
	assert.Equal(t, "New", d.Title)
	assert.Equal(t, "Described", d.Description)

	titles, err := store.Match(ctx, graph.Pattern{Predicate: vocab.Title, Graph: graph.AnyGraph})
	require.NoError(t, err)
	assert.Len(t, titles, 1)
}

func TestOpenRejectsOtherDataset(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	_, err := Open(ctx, store, Options{ID: "http://example.org/one"})
	require.NoError(t, err)

	_, err = Open(ctx, store, Options{ID: "http://example.org/two"})
	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
}

func TestOpenRejectsTwoDatasets(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	facts := NewFactStore(store, "")
	require.NoError(t, facts.SaveDataset(ctx, &Dataset{ID: "http://example.org/one"}))
	require.NoError(t, facts.SaveDataset(ctx, &Dataset{ID: "http://example.org/two"}))

	_, err := Open(ctx, store, Options{})
	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
}

func TestFindOrCreate(t *testing.T) {
	ctx := context.Background()
	r, err := Open(ctx, graph.NewMemStore(), Options{})
	require.NoError(t, err)

	g, created, err := r.FindOrCreate(ctx, "http://example.org/a.ttl", "http://example.org/g")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, g.Named())

	again, created, err := r.FindOrCreate(ctx, "http://example.org/a.ttl", "http://example.org/g")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, g.ID, again.ID)

	_, ok := r.Find("http://example.org/a.ttl", "")
	assert.False(t, ok, "named graph record must not be found as default graph")
	_, ok = r.Find("http://example.org/a.ttl", "http://example.org/other")
	assert.False(t, ok)

	d := r.Snapshot()
	assert.Len(t, d.NamedGraphs, 1)
	assert.Empty(t, d.DefaultGraphs)
}

func TestOneDefaultGraphSource(t *testing.T) {
	ctx := context.Background()
	r, err := Open(ctx, graph.NewMemStore(), Options{})
	require.NoError(t, err)

	a, err := r.NewRecord(ctx, "http://example.org/a.ttl", "")
	require.NoError(t, err)
	a.RetrievedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Save(ctx, a))
	_, err = r.NewRecord(ctx, "http://example.org/b.ttl", "")
	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)

	_, err = r.NewRecord(ctx, "http://example.org/b.ttl", "http://example.org/g")
	require.NoError(t, err, "named graphs are not limited")
}

func TestUnretrievedDefaultSourceIsReplaced(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	r, err := Open(ctx, store, Options{})
	require.NoError(t, err)

	typo, err := r.NewRecord(ctx, "http://example.org/typo.ttl", "")
	require.NoError(t, err)
	_, err = r.NewRecord(ctx, "http://example.org/b.ttl", "")
	require.NoError(t, err)

	d := r.Snapshot()
	require.Len(t, d.DefaultGraphs, 1)
	assert.Equal(t, "http://example.org/b.ttl", d.DefaultGraphs[0].Source)
	facts, err := store.Match(ctx, graph.Pattern{Subject: graph.IRI(typo.ID), Graph: graph.AnyGraph})
	require.NoError(t, err)
	assert.Empty(t, facts)

	reopened, err := Open(ctx, store, Options{})
	require.NoError(t, err)
	assert.Len(t, reopened.Snapshot().DefaultGraphs, 1)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	r, err := Open(ctx, store, Options{})
	require.NoError(t, err)
	g, err := r.NewRecord(ctx, "http://example.org/a.ttl", "http://example.org/g")
	require.NoError(t, err)

	require.NoError(t, r.Remove(ctx, g))
	_, found := r.Find("http://example.org/a.ttl", "http://example.org/g")
	assert.False(t, found)
	links, err := store.Match(ctx, graph.Pattern{Object: graph.IRI(g.ID), Graph: graph.AnyGraph})
	require.NoError(t, err)
	assert.Empty(t, links)

	require.NoError(t, r.Remove(ctx, g), "removing twice is a no-op")
}

func TestSavePersists(t *testing.T) {
	ctx := context.Background()
	store := graph.NewMemStore()
	r, err := Open(ctx, store, Options{})
	require.NoError(t, err)

	g, _, err := r.FindOrCreate(ctx, "http://example.org/a.ttl", "")
	require.NoError(t, err)
	maxAge := 10 * time.Minute
	g.RetrievedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g.LastModified = time.Date(2024, 4, 30, 8, 0, 0, 0, time.UTC)
	g.ETag = `"abc"`
	g.MaxAge = &maxAge
	g.Expires = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	g.Cachable = true
	g.ResponseTime = time.Date(2024, 5, 1, 12, 0, 1, 0, time.UTC)

	unsaved, _ := r.Find(g.Source, "")
	assert.Empty(t, unsaved.ETag, "records handed out are copies")

	require.NoError(t, r.Save(ctx, g))

	reopened, err := Open(ctx, store, Options{})
	require.NoError(t, err)
	loaded, ok := reopened.Find(g.Source, "")
	require.True(t, ok)
	assert.Equal(t, g.ID, loaded.ID)
	assert.Equal(t, g.ETag, loaded.ETag)
	assert.True(t, g.RetrievedAt.Equal(loaded.RetrievedAt))
	assert.True(t, g.LastModified.Equal(loaded.LastModified))
	assert.True(t, g.Expires.Equal(loaded.Expires))
	assert.True(t, g.ResponseTime.Equal(loaded.ResponseTime))
	require.NotNil(t, loaded.MaxAge)
	assert.Equal(t, maxAge, *loaded.MaxAge)
	assert.True(t, loaded.Cachable)
}

func TestSaveForeignRecord(t *testing.T) {
	ctx := context.Background()
	r, err := Open(ctx, graph.NewMemStore(), Options{})
	require.NoError(t, err)

	err = r.Save(ctx, &Graph{ID: "urn:uuid:foreign", Source: "http://example.org/a.ttl"})
	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
}

type failingRecords struct {
	*FactStore
}

func (failingRecords) Create(context.Context, *Dataset, *Graph) error {
	return errors.New("disk full")
}

func TestNewRecordStorageError(t *testing.T) {
	ctx := context.Background()
	records := failingRecords{NewFactStore(graph.NewMemStore(), "")}
	r, err := OpenRecords(ctx, records, Options{})
	require.NoError(t, err)

	_, err = r.NewRecord(ctx, "http://example.org/a.ttl", "")
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Empty(t, r.Snapshot().DefaultGraphs, "failed record must not be linked")
}
