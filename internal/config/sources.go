// Package config loads the feed source list the worker polls.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ainews-feed/internal/domain/entity"
)

// sourcesFile is the YAML document shape:
//
//	sources:
//	  - name: hacker-news
//	    endpoint: https://news.ycombinator.com/rss
//	    default_category: others
type sourcesFile struct {
	Sources []entity.SourceConfig `yaml:"sources"`
}

// LoadSources reads and validates the source list at path. Duplicate source
// names are rejected; every entry must pass entity.SourceConfig validation.
// An empty list is an error, since a worker with nothing to poll is almost
// certainly misconfigured.
func LoadSources(path string) ([]entity.SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file %s: %w", path, err)
	}
	return ParseSources(data)
}

// ParseSources parses and validates a YAML source list document.
func ParseSources(data []byte) ([]entity.SourceConfig, error) {
	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sources file: %w", err)
	}

	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("sources file: no sources defined")
	}

	seen := make(map[string]bool, len(file.Sources))
	for i := range file.Sources {
		src := &file.Sources[i]
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("source %d (%s): %w", i, src.Name, err)
		}
		if seen[src.Name] {
			return nil, fmt.Errorf("source %d: duplicate name %q", i, src.Name)
		}
		seen[src.Name] = true
	}

	return file.Sources, nil
}
