// Package admin serves the HTTP API to inspect and load the graphs of a loader.
package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/always-cache/graphcache"
	"github.com/always-cache/graphcache/dataset"
	"github.com/always-cache/graphcache/fetch"
	"github.com/always-cache/graphcache/graph"
)

type Options struct {
	Loader *graphcache.Loader
	// Gatherer served on /metrics. The endpoint is left out if nil.
	Gatherer prometheus.Gatherer
	// Logger to use. The global zerolog logger is used if nil.
	Logger *zerolog.Logger
	// FileSources are the local files POST /load may read.
	// Any other file URI or path is refused.
	FileSources []string
}

type Server struct {
	Router      *chi.Mux
	loader      *graphcache.Loader
	log         zerolog.Logger
	fileSources map[string]bool
}

func New(opts Options) *Server {
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	r := chi.NewRouter()
	s := &Server{Router: r, loader: opts.Loader, log: logger, fileSources: map[string]bool{}}
	for _, source := range opts.FileSources {
		s.fileSources[source] = true
	}

	r.Use(chimw.RequestID)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/dataset", s.getDataset)
	r.Post("/load", s.postLoad)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("requestId", chimw.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Dur("duration", time.Since(started)).
			Msg("Served admin request")
	})
}

type datasetView struct {
	ID            string      `json:"id"`
	Title         string      `json:"title,omitempty"`
	Description   string      `json:"description,omitempty"`
	DefaultGraphs []graphView `json:"defaultGraphs"`
	NamedGraphs   []graphView `json:"namedGraphs"`
}

type graphView struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Name         string     `json:"name,omitempty"`
	RetrievedAt  *time.Time `json:"retrievedAt,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
	ETag         string     `json:"etag,omitempty"`
	MaxAge       *int64     `json:"maxAge,omitempty"`
	Expires      *time.Time `json:"expires,omitempty"`
	Cachable     bool       `json:"cachable"`
	ResponseTime *time.Time `json:"responseTime,omitempty"`
	Expired      bool       `json:"expired"`
	// TTL in seconds, negative when stale
	TTL        int64 `json:"ttl"`
	Statements int   `json:"statements"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (s *Server) graphView(r *http.Request, g *dataset.Graph) graphView {
	view := graphView{
		ID:           g.ID,
		Source:       g.Source,
		Name:         g.Name,
		RetrievedAt:  optionalTime(g.RetrievedAt),
		LastModified: optionalTime(g.LastModified),
		ETag:         g.ETag,
		Expires:      optionalTime(g.Expires),
		Cachable:     g.Cachable,
		ResponseTime: optionalTime(g.ResponseTime),
		Expired:      s.loader.IsExpired(g),
		TTL:          int64(s.loader.TimeToLive(g).Seconds()),
	}
	if g.MaxAge != nil {
		seconds := int64(g.MaxAge.Seconds())
		view.MaxAge = &seconds
	}
	count, err := graph.Count(r.Context(), s.loader.Store(), graph.Pattern{Graph: graph.NamedGraph(g.Name)})
	if err != nil {
		s.log.Warn().Err(err).Str("graph", g.String()).Msg("Could not count statements")
	}
	view.Statements = count
	return view
}

func (s *Server) getDataset(w http.ResponseWriter, r *http.Request) {
	registry := s.loader.Registry()
	if registry == nil {
		s.writeError(w, &dataset.ConfigurationError{Reason: "loader has no dataset"})
		return
	}
	d := registry.Snapshot()
	view := datasetView{
		ID:            d.ID,
		Title:         d.Title,
		Description:   d.Description,
		DefaultGraphs: make([]graphView, 0, len(d.DefaultGraphs)),
		NamedGraphs:   make([]graphView, 0, len(d.NamedGraphs)),
	}
	for _, g := range d.DefaultGraphs {
		view.DefaultGraphs = append(view.DefaultGraphs, s.graphView(r, g))
	}
	for _, g := range d.NamedGraphs {
		view.NamedGraphs = append(view.NamedGraphs, s.graphView(r, g))
	}
	s.writeJSON(w, http.StatusOK, view)
}

type loadRequest struct {
	Source              string `json:"source"`
	Context             string `json:"context"`
	RespectCacheControl bool   `json:"respectCacheControl"`
	Force               bool   `json:"force"`
}

type loadResponse struct {
	Status   string    `json:"status"`
	Inserted int       `json:"inserted"`
	Record   graphView `json:"record"`
}

func (s *Server) postLoad(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.Source == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "source is required"})
		return
	}
	if fetch.IsLocal(req.Source) && !s.fileSources[req.Source] {
		s.log.Warn().Str("source", req.Source).Msg("Refused to load unlisted local file")
		s.writeJSON(w, http.StatusForbidden, errorResponse{Error: "local file is not a configured source"})
		return
	}
	res, err := s.loader.Load(r.Context(), req.Source, graphcache.LoadOptions{
		Context:             req.Context,
		RespectCacheControl: req.RespectCacheControl,
		Force:               req.Force,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, loadResponse{
		Status:   res.Status.String(),
		Inserted: res.Inserted,
		Record:   s.graphView(r, res.Record),
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		loadErr    *graphcache.LoadError
		storageErr *dataset.StorageError
		configErr  *dataset.ConfigurationError
	)
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &loadErr):
		status = http.StatusBadGateway
	case errors.As(err, &configErr):
		status = http.StatusConflict
	case errors.As(err, &storageErr):
		status = http.StatusInternalServerError
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Could not write response")
	}
}
