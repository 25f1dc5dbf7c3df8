package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/always-cache/graphcache"
	"github.com/always-cache/graphcache/dataset"
	"github.com/always-cache/graphcache/fetch"
	"github.com/always-cache/graphcache/pkg/admin"
	"github.com/always-cache/graphcache/sqlite"
)

var (
	// CLI flags
	configFilenameFlag string
	dbFilenameFlag     string
	portFlag           int
	refreshFlag        time.Duration
	verbosityTraceFlag bool
	logFilenameFlag    string

	// this is set by goreleaser
	version string
)

func init() {
	flag.StringVar(&configFilenameFlag, "config", "sources.yaml", "Config file listing the sources to load")
	flag.StringVar(&dbFilenameFlag, "db", "cache.db", "Statement DB file name (use 'memory' for in-memory db)")
	flag.IntVar(&portFlag, "port", 0, "Port to serve the admin API on (0 to disable)")
	flag.DurationVar(&refreshFlag, "refresh", 0, "Interval to reload expired sources at (0 to load once)")
	flag.BoolVar(&verbosityTraceFlag, "vv", false, "Verbosity: trace logging")
	flag.StringVar(&logFilenameFlag, "log-file", "", "Log file to use (in addition to stdout)")

	if version == "" {
		version = "DEV"
	}
}

func main() {
	flag.Parse()

	// set log level
	logLevel := zerolog.DebugLevel
	if verbosityTraceFlag {
		logLevel = zerolog.TraceLevel
	}

	// set up log output to stdout
	// also output to logfile if specified
	logOutputs := make([]io.Writer, 0)
	logOutputs = append(logOutputs, zerolog.ConsoleWriter{Out: os.Stdout})
	if logFilenameFlag != "" {
		if logFileOutput, err := os.OpenFile(logFilenameFlag, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644); err != nil {
			log.Fatal().Err(err).Msg("Cannot open log file")
		} else {
			logOutputs = append(logOutputs, logFileOutput)
		}
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	log.Logger = log.Level(logLevel).Output(multiWriter).
		With().Str("version", version).Logger()

	config, err := getConfig(configFilenameFlag)
	if err != nil {
		log.Fatal().Err(err).Str("config", configFilenameFlag).Msg("Could not read config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.Open(dbFilenameFlag)
	if err != nil {
		log.Fatal().Err(err).Str("db", dbFilenameFlag).Msg("Could not open statement db")
	}
	defer store.Close()

	registry, err := dataset.Open(ctx, store, dataset.Options{
		ID:          config.Dataset.ID,
		Title:       config.Dataset.Title,
		Description: config.Dataset.Description,
		Graph:       config.Dataset.Graph,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open dataset")
	}
	log.Info().Str("dataset", registry.ID()).Msgf("Loading %d sources into %s", len(config.Sources), dbFilenameFlag)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	userAgent := config.Fetch.UserAgent
	if userAgent == "" {
		userAgent = "graphcache/" + version
	}
	loader := graphcache.New(graphcache.Config{
		Store:    store,
		Registry: registry,
		Fetcher: fetch.NewHTTPFetcher(fetch.Config{
			Timeout:   config.Fetch.Timeout,
			MaxSize:   config.Fetch.MaxSize,
			UserAgent: userAgent,
			Rules:     config.Rules,
		}),
		Metrics:     graphcache.NewMetrics(reg),
		EagerDelete: config.EagerDelete,
		Concurrency: config.Concurrency,
	})

	if portFlag != 0 {
		var fileSources []string
		for _, source := range config.Sources {
			if fetch.IsLocal(source.URI) {
				fileSources = append(fileSources, source.URI)
			}
		}
		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", portFlag),
			Handler: admin.New(admin.Options{Loader: loader, Gatherer: reg, FileSources: fileSources}),
		}
		go func() {
			log.Info().Msgf("Serving admin API on port %d", portFlag)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("Admin API stopped")
			}
		}()
		defer server.Shutdown(context.Background())
	}

	switch {
	case refreshFlag > 0:
		if err := loader.Watch(ctx, config.Sources, refreshFlag); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("Refresh loop stopped")
		}
	default:
		failed := 0
		for _, result := range loader.LoadAll(ctx, config.Sources) {
			if result.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			log.Error().Int("failed", failed).Msg("Not all sources could be loaded")
		}
		if portFlag != 0 {
			<-ctx.Done()
		} else if failed > 0 {
			store.Close()
			os.Exit(1)
		}
	}
}
