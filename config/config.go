// Package config loads the optional tinderbox.yaml describing where
// the harness finds its inputs. A missing file is fine (defaults
// apply); a malformed one is an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the well-known config location, relative to the
// directory the tests run in.
const DefaultPath = "tinderbox.yaml"

type Config struct {
	// Schema is the location of the subgraph's GraphQL schema.
	Schema string `yaml:"schema"`
	// IpfsFiles maps content hashes to local file paths, pre-registering
	// ipfs mocks before any handler runs.
	IpfsFiles map[string]string `yaml:"ipfsFiles,omitempty"`
}

func Default() Config {
	return Config{Schema: "schema.graphql"}
}

// Load reads the config at path, falling back to defaults when the
// file does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Schema == "" {
		cfg.Schema = Default().Schema
	}
	return cfg, nil
}
