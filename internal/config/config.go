// Package config loads the server's YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-userdesk/pkg/schema"
)

// Schema selects where the field schema comes from. An empty source uses the
// built-in user fields.
type Schema struct {
	// Source is a path to an OpenAPI document.
	Source string `yaml:"source"`
	// Operation is the operationId whose request body defines the fields.
	Operation string `yaml:"operation"`
}

// Theme selects the page theme variant.
type Theme struct {
	Variant string `yaml:"variant"`
}

// Config is the full server configuration.
type Config struct {
	Addr    string              `yaml:"addr"`
	Latency string              `yaml:"latency"`
	Theme   Theme               `yaml:"theme"`
	Schema  Schema              `yaml:"schema"`
	Seed    []map[string]string `yaml:"seed"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Addr:    ":8484",
		Latency: "300ms",
	}
}

// Load reads a YAML config file, layering it over the defaults. A missing
// file is not an error; the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Addr == "" {
		cfg.Addr = Default().Addr
	}
	if cfg.Latency == "" {
		cfg.Latency = Default().Latency
	}
	return cfg, nil
}

// ParseLatency converts the configured latency into a duration.
func (c Config) ParseLatency() (time.Duration, error) {
	if c.Latency == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Latency)
	if err != nil {
		return 0, fmt.Errorf("config: invalid latency %q: %w", c.Latency, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: latency %q must not be negative", c.Latency)
	}
	return d, nil
}

// SeedDrafts converts the seed entries into drafts for the store.
func (c Config) SeedDrafts() []schema.Draft {
	if len(c.Seed) == 0 {
		return nil
	}
	out := make([]schema.Draft, 0, len(c.Seed))
	for _, entry := range c.Seed {
		draft := make(schema.Draft, len(entry))
		for key, value := range entry {
			draft[key] = value
		}
		out = append(out, draft)
	}
	return out
}
