package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sourcesYAML = `
dataset:
  id: http://example.org/dataset
  title: Example
sources:
  - uri: http://example.org/ontology.ttl
  - uri: http://example.org/people.ttl
    context: http://example.org/people
    respectCacheControl: true
rules:
  - prefix: http://example.org/
    default: max-age=3600
fetch:
  timeout: 10s
eagerDelete: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestGetConfig(t *testing.T) {
	config, err := getConfig(writeConfig(t, sourcesYAML))
	if err != nil {
		t.Fatal(err)
	}
	if config.Dataset.ID != "http://example.org/dataset" || config.Dataset.Title != "Example" {
		t.Fatalf("Dataset is %+v", config.Dataset)
	}
	if len(config.Sources) != 2 {
		t.Fatalf("Sources are %+v", config.Sources)
	}
	if people := config.Sources[1]; people.Context != "http://example.org/people" || !people.RespectCacheControl {
		t.Fatalf("Source is %+v", people)
	}
	if len(config.Rules) != 1 || config.Rules[0].Default != "max-age=3600" {
		t.Fatalf("Rules are %+v", config.Rules)
	}
	if config.Fetch.Timeout != 10*time.Second {
		t.Fatalf("Timeout is %v", config.Fetch.Timeout)
	}
	if !config.EagerDelete {
		t.Fatal("Eager delete not read")
	}
}

func TestConfigTwoDefaultSources(t *testing.T) {
	_, err := getConfig(writeConfig(t, `
sources:
  - uri: http://example.org/a.ttl
  - uri: http://example.org/b.ttl
`))
	if err == nil {
		t.Fatal("Two default graph sources should be rejected")
	}
}

func TestConfigMissingURI(t *testing.T) {
	if _, err := getConfig(writeConfig(t, "sources:\n  - context: http://example.org/g\n")); err == nil {
		t.Fatal("Source without uri should be rejected")
	}
}
