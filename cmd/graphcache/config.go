package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/always-cache/graphcache"
	"github.com/always-cache/graphcache/fetch"
)

type Config struct {
	Dataset     ConfigDataset       `yaml:"dataset"`
	Sources     []graphcache.Source `yaml:"sources"`
	Rules       fetch.Rules         `yaml:"rules"`
	Fetch       ConfigFetch         `yaml:"fetch"`
	EagerDelete bool                `yaml:"eagerDelete"`
	Concurrency int                 `yaml:"concurrency"`
}

type ConfigDataset struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	// Graph the dataset description is stored in
	Graph string `yaml:"graph"`
}

type ConfigFetch struct {
	Timeout   time.Duration `yaml:"timeout"`
	MaxSize   int64         `yaml:"maxSize"`
	UserAgent string        `yaml:"userAgent"`
}

func getConfig(filename string) (Config, error) {
	var config Config
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(configBytes, &config); err != nil {
		return config, err
	}
	return config, config.validate()
}

func (c Config) validate() error {
	defaultSource := ""
	for i, source := range c.Sources {
		if source.URI == "" {
			return fmt.Errorf("source %d has no uri", i+1)
		}
		if source.Context != "" {
			continue
		}
		if defaultSource != "" && defaultSource != source.URI {
			return fmt.Errorf("only one source can be loaded into the default graph, got %s and %s", defaultSource, source.URI)
		}
		defaultSource = source.URI
	}
	return nil
}
