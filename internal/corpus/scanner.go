// Package corpus scans a directory tree of CellML files, registering each
// file as a model and extracting its variable declarations for annotation.
package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/physiome-tools/opbmap/internal/models"
	"github.com/physiome-tools/opbmap/internal/variables"
	"github.com/physiome-tools/opbmap/pkg/formatting"
)

// Config controls corpus scanning.
type Config struct {
	// Root is the directory walked for .cellml files.
	Root string `toml:"root"`
	// Concurrency bounds how many files are processed at once.
	Concurrency int `toml:"concurrency"`
}

const defaultConcurrency = 4

// ScanResult summarizes one corpus scan.
type ScanResult struct {
	Files     int `json:"files"`
	Models    int `json:"models"`
	Variables int `json:"variables"`
	Failed    int `json:"failed"`
}

// Scanner walks a corpus root and registers its models and variables.
type Scanner struct {
	cfg       Config
	models    models.System
	variables variables.System
	logger    *slog.Logger
}

// NewScanner creates a Scanner over the configured root.
func NewScanner(cfg Config, modelSys models.System, variableSys variables.System, logger *slog.Logger) *Scanner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}

	return &Scanner{
		cfg:       cfg,
		models:    modelSys,
		variables: variableSys,
		logger:    logger.With("system", "corpus"),
	}
}

// Scan walks the corpus root and processes every .cellml file. Decode
// failures are counted and logged without aborting the scan; the first
// storage error cancels remaining work.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	if _, err := os.Stat(s.cfg.Root); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRoot, s.cfg.Root)
	}

	paths, err := s.collect()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, s.cfg.Root)
	}

	result := &ScanResult{Files: len(paths)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for _, path := range paths {
		g.Go(func() error {
			count, err := s.process(ctx, path)
			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				if !errors.Is(err, ErrDecode) {
					return err
				}
				s.logger.Warn("skipping malformed file", "path", path, "error", err)
				result.Failed++
				return nil
			}

			result.Models++
			result.Variables += count
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("corpus scan complete",
		"files", result.Files,
		"models", result.Models,
		"variables", result.Variables,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *Scanner) collect() ([]string, error) {
	var paths []string

	err := filepath.WalkDir(s.cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".cellml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus root: %w", err)
	}

	return paths, nil
}

// process registers one file's model row with archived content, replaces
// its variables, and marks it scanned. Returns the variable count.
func (s *Scanner) process(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}

	rel, err := filepath.Rel(s.cfg.Root, path)
	if err != nil {
		rel = path
	}

	name := doc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	model, err := s.models.Register(ctx, models.RegisterCommand{
		Path:   filepath.ToSlash(rel),
		Name:   name,
		Format: "cellml",
	}, bytes.NewReader(raw))
	if err != nil {
		return 0, fmt.Errorf("register %s: %w", rel, err)
	}

	cmds := make([]variables.CreateCommand, 0, doc.VariableCount())
	for _, component := range doc.Components {
		for _, v := range component.Variables {
			cmds = append(cmds, variables.CreateCommand{
				Name:           v.Name,
				Component:      component.Name,
				UnitExpression: v.Units,
			})
		}
	}

	if _, err := s.variables.ReplaceForModel(ctx, model.ID, cmds); err != nil {
		return 0, fmt.Errorf("store variables for %s: %w", rel, err)
	}

	if _, err := s.models.MarkScanned(ctx, model.ID, len(cmds)); err != nil {
		return 0, fmt.Errorf("mark scanned %s: %w", rel, err)
	}

	s.logger.Debug("model scanned",
		"path", rel,
		"variables", len(cmds),
		"size", formatting.FormatBytes(int64(len(raw)), 1),
	)
	return len(cmds), nil
}
