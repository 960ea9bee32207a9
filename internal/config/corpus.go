package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvCorpusRoot        = "OPBMAP_CORPUS_ROOT"
	EnvCorpusConcurrency = "OPBMAP_CORPUS_CONCURRENCY"
)

// CorpusConfig holds corpus scanning parameters.
type CorpusConfig struct {
	Root        string `toml:"root"`
	Concurrency int    `toml:"concurrency"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *CorpusConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *CorpusConfig) Merge(overlay *CorpusConfig) {
	if overlay.Root != "" {
		c.Root = overlay.Root
	}
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
}

func (c *CorpusConfig) loadDefaults() {
	if c.Root == "" {
		c.Root = "corpus"
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
}

func (c *CorpusConfig) loadEnv() {
	if v := os.Getenv(EnvCorpusRoot); v != "" {
		c.Root = v
	}
	if v := os.Getenv(EnvCorpusConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
}

func (c *CorpusConfig) validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("invalid concurrency: %d", c.Concurrency)
	}
	return nil
}
