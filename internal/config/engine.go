package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvEngineWorkers       = "OPBMAP_ENGINE_WORKERS"
	EnvEngineQueueSize     = "OPBMAP_ENGINE_QUEUE_SIZE"
	EnvEngineOntologyTable = "OPBMAP_ENGINE_ONTOLOGY_TABLE"
)

// EngineConfig holds annotation engine parameters.
type EngineConfig struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
	// OntologyTable is the path to a TOML mapping table. Empty selects
	// the built-in table.
	OntologyTable string `toml:"ontology_table"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.QueueSize != 0 {
		c.QueueSize = overlay.QueueSize
	}
	if overlay.OntologyTable != "" {
		c.OntologyTable = overlay.OntologyTable
	}
}

func (c *EngineConfig) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.QueueSize == 0 {
		c.QueueSize = 256
	}
}

func (c *EngineConfig) loadEnv() {
	if v := os.Getenv(EnvEngineWorkers); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			c.Workers = workers
		}
	}
	if v := os.Getenv(EnvEngineQueueSize); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			c.QueueSize = size
		}
	}
	if v := os.Getenv(EnvEngineOntologyTable); v != "" {
		c.OntologyTable = v
	}
}

func (c *EngineConfig) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers: %d", c.Workers)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("invalid queue_size: %d", c.QueueSize)
	}
	if c.OntologyTable != "" {
		if _, err := os.Stat(c.OntologyTable); err != nil {
			return fmt.Errorf("ontology table %s: %w", c.OntologyTable, err)
		}
	}
	return nil
}
