// Package engine drives the unit annotation pipeline over variable
// records: normalize the raw expression, classify its dimension vector,
// and resolve an ontology term. A single record's pipeline is pure and
// stateless apart from read-only access to the ontology table, so batches
// fan out across a bounded worker pool with no ordering requirement
// between records.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/physiome-tools/opbmap/internal/engine/category"
	"github.com/physiome-tools/opbmap/internal/engine/ontology"
	"github.com/physiome-tools/opbmap/internal/engine/units"
	"github.com/physiome-tools/opbmap/pkg/worker"
)

// Config holds engine concurrency parameters. A nil Metrics registerer
// disables pool instrumentation.
type Config struct {
	Workers   int
	QueueSize int
	Metrics   prometheus.Registerer
}

type task struct {
	record VariableRecord
	out    *MappingResult
	done   *sync.WaitGroup
}

// Annotator runs the mapping pipeline. The ontology table is loaded once
// at construction and treated as immutable for the lifetime of the
// annotator. A single worker pool serves every batch; callers must Close
// the annotator when finished with it.
type Annotator struct {
	table  *ontology.Table
	logger *slog.Logger
	pool   *worker.Pool[task]
}

// New creates an Annotator over the given ontology table and starts its
// worker pool.
func New(cfg Config, table *ontology.Table, logger *slog.Logger) (*Annotator, error) {
	if table == nil || table.Size() == 0 {
		return nil, fmt.Errorf("ontology table is empty")
	}

	a := &Annotator{
		table:  table,
		logger: logger.With("system", "engine"),
	}

	var opts []worker.Option[task]
	if cfg.Metrics != nil {
		opts = append(opts, worker.WithMetrics[task](cfg.Metrics, "opbmap_engine"))
	}

	a.pool = worker.NewPool(cfg.Workers, cfg.QueueSize, func(_ context.Context, t task) error {
		*t.out = a.Annotate(t.record)
		t.done.Done()
		return nil
	}, opts...)

	if err := a.pool.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("start annotation pool: %w", err)
	}

	return a, nil
}

// Close stops the worker pool, waiting up to timeout for in-flight tasks.
func (a *Annotator) Close(timeout time.Duration) error {
	return a.pool.Stop(timeout)
}

// Annotate maps one variable record. It never fails: a parse error is
// recorded as an unmapped result with the parse_error reason, preserving
// the invariant that every record yields exactly one result.
func (a *Annotator) Annotate(rec VariableRecord) MappingResult {
	result := MappingResult{
		VariableID: rec.ID,
		Status:     StatusUnmapped,
		Category:   category.Unclassified,
		UnitSymbol: rec.UnitExpression,
	}

	u, err := units.Normalize(rec.UnitExpression)
	if err != nil {
		result.Reason = ontology.ReasonParseError
		return result
	}

	hints := hintTokens(rec)

	result.Unit = &u
	result.UnitSymbol = u.Render()
	result.Category = category.Classify(u, hints)

	term, reason := a.table.Resolve(result.Category, u, hints)
	if term != nil {
		result.Status = StatusMapped
		result.Term = term
		return result
	}

	result.Reason = reason
	return result
}

// AnnotateBatch maps a slice of records concurrently and returns exactly
// one result per input, in input order. Each task writes to a disjoint
// index, so collection needs no locking; ordering of downstream reports is
// a deterministic sort over the collected results, never arrival order.
func (a *Annotator) AnnotateBatch(ctx context.Context, records []VariableRecord) ([]MappingResult, error) {
	results := make([]MappingResult, len(records))

	var done sync.WaitGroup
	for i := range records {
		done.Add(1)
		t := task{record: records[i], out: &results[i], done: &done}

		if err := a.pool.SubmitWait(ctx, t); err != nil {
			done.Done()
			return nil, fmt.Errorf("submit record %s: %w", records[i].ID, err)
		}
	}
	done.Wait()

	mapped := 0
	for _, r := range results {
		if r.Mapped() {
			mapped++
		}
	}
	a.logger.Info("batch annotated",
		"records", len(records),
		"mapped", mapped,
		"unmapped", len(records)-mapped,
	)

	return results, nil
}

// hintTokens assembles the disambiguation hints for a record: its explicit
// context hints plus the variable name itself.
func hintTokens(rec VariableRecord) []string {
	hints := make([]string, 0, len(rec.Hints)+1)
	if rec.Name != "" {
		hints = append(hints, rec.Name)
	}
	hints = append(hints, rec.Hints...)
	return hints
}
