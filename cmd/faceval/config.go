package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/arcgo/pkg/errors"
)

// Config holds the evaluation settings read from a YAML file. Command-line
// flags override individual fields.
type Config struct {
	// Folds is the number of cross-validation folds.
	Folds int `yaml:"folds"`

	// Method is the scoring method the scores were computed with:
	// "cosine" (higher = same) or "euclidean" (lower = same).
	Method string `yaml:"method"`

	// Shuffle randomizes the fold assignment; Seed fixes the permutation.
	Shuffle bool `yaml:"shuffle"`
	Seed    int  `yaml:"seed"`
}

// DefaultConfig returns the canonical benchmark settings: 10 contiguous
// folds over cosine scores.
func DefaultConfig() Config {
	return Config{
		Folds:  10,
		Method: "cosine",
		Seed:   42,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "faceval: read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "faceval: parse config %s", path)
	}
	return cfg, nil
}
