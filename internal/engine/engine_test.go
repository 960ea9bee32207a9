package engine_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiome-tools/opbmap/internal/engine"
	"github.com/physiome-tools/opbmap/internal/engine/category"
	"github.com/physiome-tools/opbmap/internal/engine/ontology"
)

func newAnnotator(t *testing.T) *engine.Annotator {
	t.Helper()

	a, err := engine.New(engine.Config{Workers: 4, QueueSize: 16},
		ontology.Default(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(5 * time.Second) })
	return a
}

func record(name, expr string, hints ...string) engine.VariableRecord {
	return engine.VariableRecord{
		ID:             uuid.New(),
		Name:           name,
		UnitExpression: expr,
		Hints:          hints,
	}
}

func TestNewRequiresTable(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := engine.New(engine.Config{Workers: 1, QueueSize: 1}, nil, logger)
	assert.Error(t, err)
}

func TestAnnotateMapped(t *testing.T) {
	a := newAnnotator(t)

	rec := record("V_membrane", "mV")
	result := a.Annotate(rec)

	assert.Equal(t, rec.ID, result.VariableID)
	assert.Equal(t, engine.StatusMapped, result.Status)
	assert.True(t, result.Mapped())
	assert.Equal(t, category.Effort, result.Category)
	require.NotNil(t, result.Term)
	assert.Equal(t, "OPB_01058", result.Term.ID)
	require.NotNil(t, result.Unit)
	assert.Equal(t, "L2 M1 T-2 Q-1", result.Unit.Vector.Signature())
}

// The variable name participates as a hint without being declared one.
func TestAnnotateNameAsHint(t *testing.T) {
	a := newAnnotator(t)

	result := a.Annotate(record("Ca_i", "mM"))

	require.NotNil(t, result.Term)
	assert.Equal(t, "OPB_00340", result.Term.ID)
}

// Dimensionless variables (strain, gating fractions) resolve through the
// quantity bucket instead of dead-ending as unclassified.
func TestAnnotateDimensionless(t *testing.T) {
	a := newAnnotator(t)

	result := a.Annotate(record("lambda_f", "dimensionless"))

	assert.Equal(t, engine.StatusMapped, result.Status)
	assert.Equal(t, category.Quantity, result.Category)
	require.NotNil(t, result.Term)
	assert.Equal(t, "OPB_01376", result.Term.ID)
	assert.Equal(t, "Tensile distortion", result.Term.Label)
	require.NotNil(t, result.Unit)
	assert.True(t, result.Unit.Vector.IsZero())
}

func TestAnnotateParseError(t *testing.T) {
	a := newAnnotator(t)

	rec := record("mystery", "xyz_bogus")
	result := a.Annotate(rec)

	assert.Equal(t, engine.StatusUnmapped, result.Status)
	assert.Equal(t, ontology.ReasonParseError, result.Reason)
	assert.Equal(t, category.Unclassified, result.Category)
	assert.Nil(t, result.Unit)
	assert.Nil(t, result.Term)
	// The raw spelling survives for the unmapped-units report.
	assert.Equal(t, "xyz_bogus", result.UnitSymbol)
}

func TestAnnotateUnmappedReasons(t *testing.T) {
	a := newAnnotator(t)

	tests := []struct {
		name string
		rec  engine.VariableRecord
		want ontology.Reason
	}{
		{"unclassified", record("k_rate", "Hz"), ontology.ReasonUnclassified},
		{"no match", record("capacitance", "F"), ontology.ReasonNoMatch},
		{"ambiguous", record("x", "mV"), ontology.ReasonAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := a.Annotate(tt.rec)
			assert.Equal(t, engine.StatusUnmapped, result.Status)
			assert.Equal(t, tt.want, result.Reason)
			assert.Nil(t, result.Term)
		})
	}
}

// Annotation is deterministic: the same record always yields the same
// result regardless of what ran before it.
func TestAnnotateDeterministic(t *testing.T) {
	a := newAnnotator(t)
	rec := record("J_pump", "fmol_per_s", "membrane")

	first := a.Annotate(rec)
	for range 10 {
		assert.Equal(t, first, a.Annotate(rec))
	}
}

// Every record in a batch yields exactly one result at its own index,
// parse failures included.
func TestAnnotateBatch(t *testing.T) {
	a := newAnnotator(t)

	records := []engine.VariableRecord{
		record("V_m", "mV", "membrane"),
		record("Ca_i", "mM"),
		record("broken", "xyz_bogus"),
		record("time", "s"),
		record("omega", "rad_per_s"),
	}

	results, err := a.AnnotateBatch(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, results, len(records))

	for i, r := range results {
		assert.Equal(t, records[i].ID, r.VariableID, "result %d out of order", i)
	}

	assert.True(t, results[0].Mapped())
	assert.True(t, results[1].Mapped())
	assert.Equal(t, ontology.ReasonParseError, results[2].Reason)
	assert.True(t, results[3].Mapped())
	assert.True(t, results[4].Mapped())
}

func TestAnnotateBatchLarge(t *testing.T) {
	a := newAnnotator(t)

	const n = 2000
	records := make([]engine.VariableRecord, n)
	for i := range records {
		switch i % 3 {
		case 0:
			records[i] = record("len", "um")
		case 1:
			records[i] = record("bad", "not_a_unit")
		default:
			records[i] = record("t", "ms")
		}
	}

	results, err := a.AnnotateBatch(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, results, n)

	seen := make(map[uuid.UUID]int, n)
	for _, r := range results {
		seen[r.VariableID]++
	}
	for _, rec := range records {
		assert.Equal(t, 1, seen[rec.ID])
	}
}

// A batch run and a sequential run over the same records agree exactly.
func TestAnnotateBatchMatchesSequential(t *testing.T) {
	a := newAnnotator(t)

	records := []engine.VariableRecord{
		record("V_m", "mV", "membrane"),
		record("Ca_i", "mM"),
		record("P_lv", "Pa", "blood_pressure"),
		record("broken", "???"),
	}

	batch, err := a.AnnotateBatch(context.Background(), records)
	require.NoError(t, err)

	for i, rec := range records {
		assert.Equal(t, a.Annotate(rec), batch[i])
	}
}

func TestAnnotateBatchCancelled(t *testing.T) {
	a := newAnnotator(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := make([]engine.VariableRecord, 100)
	for i := range records {
		records[i] = record("x", "mV")
	}

	_, err := a.AnnotateBatch(ctx, records)
	// A cancelled context may interrupt submission; it must never
	// produce a short result slice.
	if err == nil {
		t.Skip("batch completed before cancellation was observed")
	}
	assert.Error(t, err)
}

func TestAnnotateBatchEmpty(t *testing.T) {
	a := newAnnotator(t)

	results, err := a.AnnotateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
