package graphcache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/always-cache/graphcache/dataset"
	"github.com/always-cache/graphcache/freshness"
	"github.com/always-cache/graphcache/graph"
	"github.com/always-cache/graphcache/parse"
	graphkey "github.com/always-cache/graphcache/pkg/graph-key"
	"github.com/always-cache/graphcache/rfc9211"
)

type LoadOptions struct {
	// Context is the named graph to load into. Empty loads into the default graph.
	Context string
	// RespectCacheControl keeps no-store, no-cache and private responses
	// uncachable. By default they are cached regardless.
	// Either way a graph past its max-age or Expires is revalidated.
	RespectCacheControl bool
	// Force fetches the source unconditionally, even if it is fresh.
	Force bool
	// Registry to record the load in instead of the loader's registry.
	Registry *dataset.Registry
}

// Result describes a completed load.
type Result struct {
	// Record as persisted after the load.
	Record *dataset.Graph
	// Status tells how the load was served.
	Status *rfc9211.CacheStatus
	// Inserted is the number of statements the graph was replaced with,
	// zero unless Status.IsStored().
	Inserted int
}

// LoadError is returned when a source cannot be fetched or parsed.
type LoadError struct {
	Source  string
	Context string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("load %s into %s: %v", e.Source, e.Context, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

var errNotValidated = errors.New("not modified response does not match the stored representation")

// Load makes the graph of source reflect the current representation of the
// source, fetching it only if the recorded copy is no longer fresh.
//
// Fetch and parse failures are returned as *LoadError, failing writes as
// *dataset.StorageError and unusable setups as *dataset.ConfigurationError.
func (l *Loader) Load(ctx context.Context, source string, opts LoadOptions) (Result, error) {
	registry := opts.Registry
	if registry == nil {
		registry = l.registry
	}
	if registry == nil {
		return Result{}, &dataset.ConfigurationError{Reason: "no dataset registry to record the load in"}
	}
	if source == "" {
		return Result{}, &dataset.ConfigurationError{Reason: "empty source"}
	}

	unlock := l.locks.lock(graphkey.NewGraphKeyer(registry.ID()).Key(source, opts.Context))
	defer unlock()

	logger := l.log.With().
		Str("source", source).
		Str("context", opts.Context).
		Logger()
	started := l.now()

	res, err := l.load(ctx, registry, source, opts, &logger)
	l.metrics.observe(res, err, l.now().Sub(started))
	if err != nil {
		logger.Error().Err(err).Msg("Could not load source")
		return res, err
	}
	logger.Debug().
		Str("status", res.Status.String()).
		Int("inserted", res.Inserted).
		Msg("Loaded source")
	return res, nil
}

func (l *Loader) load(ctx context.Context, registry *dataset.Registry, source string, opts LoadOptions, logger *zerolog.Logger) (res Result, err error) {
	record, created, err := registry.FindOrCreate(ctx, source, opts.Context)
	if err != nil {
		return Result{}, err
	}
	if created {
		logger.Trace().Str("record", record.ID).Msg("Created record")
		// a source that fails its first load leaves no record behind
		defer func() {
			if err == nil {
				return
			}
			if removeErr := registry.Remove(ctx, record); removeErr != nil {
				logger.Warn().Err(removeErr).Msg("Could not remove record of failed load")
			}
		}()
	}
	target := graph.NamedGraph(opts.Context)
	override := !opts.RespectCacheControl
	status := rfc9211.New(CacheName)
	res = Result{Record: record, Status: status}

	if l.eagerDelete {
		deleted, err := l.store.Delete(ctx, graph.Pattern{Graph: target})
		if err != nil {
			return res, &dataset.StorageError{Op: "delete statements", Err: err}
		}
		logger.Trace().Int("deleted", deleted).Msg("Cleared graph before freshness check")
	}

	now := l.now()
	var validators http.Header
	switch {
	case opts.Force:
		logger.Trace().Msg("Reload forced")
		status.Forward(rfc9211.FwdRequest)
	case !record.Retrieved():
		logger.Trace().Msg("Source never retrieved")
		status.Forward(rfc9211.FwdUriMiss)
	case freshness.IsExpired(record, now):
		validators = freshness.ValidationHeaders(record)
		logger.Trace().Msgf("Record expired, validating with %v", validators)
		status.Forward(rfc9211.FwdStale)
	default:
		logger.Trace().Msg("Record fresh, skipping fetch")
		status.Hit()
	}

	if !status.IsHit() {
		inserted, err := l.fetch(ctx, source, opts.Context, record, validators, override, status, logger)
		if err != nil {
			return res, err
		}
		res.Inserted = inserted
	}

	record.ResponseTime = now
	if err := registry.Save(ctx, record); err != nil {
		return res, err
	}
	status.TimeToLive(freshness.TimeToLive(record, now))
	return res, nil
}

// fetch retrieves the source and applies the response to the graph and the record.
func (l *Loader) fetch(ctx context.Context, source, graphIRI string, record *dataset.Graph, validators http.Header, override bool, status *rfc9211.CacheStatus, logger *zerolog.Logger) (int, error) {
	loadError := func(err error) error {
		return &LoadError{Source: source, Context: graphIRI, Err: err}
	}

	response, err := l.fetcher.Fetch(ctx, source, validators)
	if err != nil {
		return 0, loadError(err)
	}

	if response.NotModified {
		status.ForwardStatus(http.StatusNotModified)
		if len(validators) > 0 && freshness.Freshen(record, response.Header, response.ReceivedAt, override) {
			logger.Trace().Msg("Source not modified")
			status.Detail("validated")
			return 0, nil
		}
		// the stored representation cannot be freshened, retry unconditionally
		logger.Trace().Msg("Not modified response does not validate the record, fetching again")
		response, err = l.fetcher.Fetch(ctx, source, nil)
		if err != nil {
			return 0, loadError(err)
		}
		if response.NotModified {
			return 0, loadError(errNotValidated)
		}
	}

	rep := response.Representation
	status.ForwardStatus(http.StatusOK)
	format, err := parse.Detect(rep.ContentType, rep.URI)
	if err != nil {
		return 0, loadError(err)
	}
	// the whole document is parsed before the graph is touched
	statements, err := parse.ReadAll(bytes.NewReader(rep.Body), format, rep.URI, graphIRI)
	if err != nil {
		return 0, loadError(err)
	}
	logger.Trace().
		Str("format", format.Name).
		Int("statements", len(statements)).
		Msg("Parsed source")

	if err := graph.Replace(ctx, l.store, graph.NamedGraph(graphIRI), statements); err != nil {
		return 0, &dataset.StorageError{Op: "replace statements", Err: err}
	}
	freshness.Refresh(record, response.Header, response.ReceivedAt, override)
	status.Stored()
	return len(statements), nil
}

// TimeToLive is the remaining freshness of the record at the loader's current time.
func (l *Loader) TimeToLive(g *dataset.Graph) time.Duration {
	return freshness.TimeToLive(g, l.now())
}

// IsExpired reports whether the next load of the record will contact its source.
func (l *Loader) IsExpired(g *dataset.Graph) bool {
	return freshness.IsExpired(g, l.now())
}
