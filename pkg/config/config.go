// Package config loads the optional sds.yaml file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bisegni/sds/pkg/journal"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "sds.yaml"

// Config represents the optional sds.yaml configuration.
type Config struct {
	GroupBy       string     `yaml:"group_by,omitempty"`
	NameField     string     `yaml:"name_field,omitempty"`
	IndexTitles   bool       `yaml:"index_titles,omitempty"`
	Events        string     `yaml:"events,omitempty"`
	LegacyReplace bool       `yaml:"legacy_replace,omitempty"`
	View          ViewConfig `yaml:"view"`
}

// ViewConfig contains terminal view settings.
type ViewConfig struct {
	Height    int    `yaml:"height,omitempty"`
	EmptyText string `yaml:"empty_text,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	GroupBy       string
	NameField     string
	IndexTitles   bool
	Events        journal.Format
	LegacyReplace bool
	// ViewHeight of 0 uses the whole terminal.
	ViewHeight    int
	ViewEmptyText string
}

// LoadOptional reads path, or DefaultFile when path is empty. A missing
// default file yields an empty config; a missing explicit file is an error.
func LoadOptional(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Resolve loads the config (if present) and resolves defaults.
func Resolve(path string) (*Resolved, error) {
	cfg, err := LoadOptional(path)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve()
}

func (cfg *Config) Resolve() (*Resolved, error) {
	nameField := strings.TrimSpace(cfg.NameField)
	if nameField == "" {
		nameField = "name"
	}

	events, err := journal.ParseFormat(strings.TrimSpace(cfg.Events))
	if err != nil {
		return nil, err
	}

	if cfg.View.Height < 0 {
		return nil, fmt.Errorf("view.height must not be negative, got %d", cfg.View.Height)
	}

	emptyText := cfg.View.EmptyText
	if emptyText == "" {
		emptyText = "no data"
	}

	return &Resolved{
		GroupBy:       strings.TrimSpace(cfg.GroupBy),
		NameField:     nameField,
		IndexTitles:   cfg.IndexTitles,
		Events:        events,
		LegacyReplace: cfg.LegacyReplace,
		ViewHeight:    cfg.View.Height,
		ViewEmptyText: emptyText,
	}, nil
}
