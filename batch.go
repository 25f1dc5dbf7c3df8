package graphcache

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Source is a document to keep loaded.
type Source struct {
	URI                 string `yaml:"uri" json:"uri"`
	Context             string `yaml:"context" json:"context,omitempty"`
	RespectCacheControl bool   `yaml:"respectCacheControl" json:"respectCacheControl,omitempty"`
}

// SourceResult is the outcome of loading one source of a batch.
type SourceResult struct {
	Source Source
	Result Result
	Err    error
}

// LoadAll loads the sources in parallel. A failing source does not stop the others;
// results are returned in the order of sources.
func (l *Loader) LoadAll(ctx context.Context, sources []Source) []SourceResult {
	results := make([]SourceResult, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			res, err := l.Load(ctx, source.URI, LoadOptions{
				Context:             source.Context,
				RespectCacheControl: source.RespectCacheControl,
			})
			results[i] = SourceResult{Source: source, Result: res, Err: err}
			return nil
		})
	}
	g.Wait()
	return results
}

// Watch loads the sources every interval until ctx is done.
// Sources that are still fresh cost nothing, so the interval only bounds
// how late a change is noticed.
func (l *Loader) Watch(ctx context.Context, sources []Source, interval time.Duration) error {
	l.log.Info().Msgf("Starting refresh loop with interval %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		failed := 0
		for _, result := range l.LoadAll(ctx, sources) {
			if result.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			l.log.Warn().Int("failed", failed).Int("sources", len(sources)).Msg("Refresh incomplete")
		} else {
			l.log.Trace().Int("sources", len(sources)).Msg("Refresh complete")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
