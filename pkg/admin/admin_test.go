package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/always-cache/graphcache"
	"github.com/always-cache/graphcache/dataset"
	"github.com/always-cache/graphcache/graph"
)

const doc = `<http://example.org/a> <http://example.org/p> "one" .
<http://example.org/a> <http://example.org/p> "two" .
`

func newServer(t *testing.T, fileSources ...string) (*Server, *httptest.Server) {
	t.Helper()
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.ttl" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/turtle")
		w.Header().Set("Cache-Control", "max-age=3600")
		w.Write([]byte(doc))
	}))
	t.Cleanup(origin.Close)

	store := graph.NewMemStore()
	registry, err := dataset.Open(context.Background(), store, dataset.Options{ID: "http://example.org/dataset", Title: "Test"})
	require.NoError(t, err)
	reg := prometheus.NewRegistry()
	loader := graphcache.New(graphcache.Config{
		Store:    store,
		Registry: registry,
		Metrics:  graphcache.NewMetrics(reg),
	})
	return New(Options{Loader: loader, Gatherer: reg, FileSources: fileSources}), origin
}

func post(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/load", strings.NewReader(body)))
	return rec
}

func TestLoadAndInspect(t *testing.T) {
	s, origin := newServer(t)

	rec := post(t, s, `{"source": "`+origin.URL+`/data.ttl", "context": "http://example.org/g"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var loaded loadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&loaded))
	assert.Equal(t, 2, loaded.Inserted)
	assert.Contains(t, loaded.Status, "fwd=uri-miss")
	assert.Equal(t, 2, loaded.Record.Statements)

	rec = post(t, s, `{"source": "`+origin.URL+`/data.ttl", "context": "http://example.org/g"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&loaded))
	assert.Contains(t, loaded.Status, "hit")

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dataset", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var d datasetView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&d))
	assert.Equal(t, "http://example.org/dataset", d.ID)
	assert.Equal(t, "Test", d.Title)
	assert.Empty(t, d.DefaultGraphs)
	require.Len(t, d.NamedGraphs, 1)
	g := d.NamedGraphs[0]
	assert.Equal(t, "http://example.org/g", g.Name)
	assert.False(t, g.Expired)
	assert.Greater(t, g.TTL, int64(3500))
	require.NotNil(t, g.MaxAge)
	assert.Equal(t, int64(3600), *g.MaxAge)
}

func TestLoadErrors(t *testing.T) {
	s, origin := newServer(t)

	rec := post(t, s, `{"source": "`+origin.URL+`/missing.ttl"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = post(t, s, `{"source": "`+origin.URL+`/data.ttl"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = post(t, s, `{"source": "`+origin.URL+`/other.ttl"}`)
	assert.Equal(t, http.StatusConflict, rec.Code, "second default graph source")

	rec = post(t, s, `{"context": "http://example.org/g"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, s, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLocalFilesMustBeConfigured(t *testing.T) {
	dir := t.TempDir()
	listed := filepath.Join(dir, "listed.nt")
	unlisted := filepath.Join(dir, "unlisted.nt")
	for _, path := range []string{listed, unlisted} {
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	}
	s, _ := newServer(t, listed)

	for _, source := range []string{unlisted, "file://" + filepath.ToSlash(unlisted), "/etc/passwd"} {
		rec := post(t, s, `{"source": "`+source+`", "context": "http://example.org/g"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code, source)
	}

	rec := post(t, s, `{"source": "`+listed+`", "context": "http://example.org/g"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var loaded loadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&loaded))
	assert.Equal(t, 2, loaded.Inserted)
}

func TestMetricsEndpoint(t *testing.T) {
	s, origin := newServer(t)
	require.Equal(t, http.StatusOK, post(t, s, `{"source": "`+origin.URL+`/data.ttl"}`).Code)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `graphcache_loads_total{status="uri-miss"} 1`)
}
