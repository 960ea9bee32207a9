package reports

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/physiome-tools/opbmap/internal/engine"
	"github.com/physiome-tools/opbmap/internal/engine/category"
)

// topN bounds every frequency ranking in the report.
const topN = 10

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a report repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "reports"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

// categoryOrder fixes the breakdown ordering so reports are stable
// across runs regardless of row counts.
var categoryOrder = []category.Category{
	category.Quantity,
	category.FlowRate,
	category.Effort,
	category.Thermodynamic,
	category.Unclassified,
}

func (r *repo) Summary(ctx context.Context) (*Summary, error) {
	s := &Summary{
		GeneratedAt:   time.Now().UTC(),
		EngineVersion: engine.Version,
	}

	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM models",
	).Scan(&s.TotalModels); err != nil {
		return nil, fmt.Errorf("count models: %w", err)
	}

	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE status = 'mapped')
		FROM annotations`,
	).Scan(&s.TotalVariables, &s.Mapped); err != nil {
		return nil, fmt.Errorf("count annotations: %w", err)
	}
	s.Unmapped = s.TotalVariables - s.Mapped

	categories, err := r.categoryBreakdown(ctx, s.TotalVariables)
	if err != nil {
		return nil, err
	}
	s.Categories = categories

	if s.TopMappedUnits, err = r.topUnits(ctx, "mapped"); err != nil {
		return nil, err
	}

	if s.TopUnmappedUnits, err = r.topUnits(ctx, "unmapped"); err != nil {
		return nil, err
	}

	if s.TopTerms, err = r.topTerms(ctx); err != nil {
		return nil, err
	}

	r.logger.Info("summary generated",
		"models", s.TotalModels,
		"variables", s.TotalVariables,
		"mapped", s.Mapped,
	)
	return s, nil
}

func (r *repo) categoryBreakdown(ctx context.Context, total int) ([]CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COUNT(*)
		FROM annotations
		GROUP BY category`,
	)
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var cat string
		var count int
		if err := rows.Scan(&cat, &count); err != nil {
			return nil, err
		}
		counts[cat] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	breakdown := make([]CategoryCount, 0, len(categoryOrder))
	for _, cat := range categoryOrder {
		count := counts[string(cat)]
		breakdown = append(breakdown, CategoryCount{
			Category: string(cat),
			Label:    cat.Label(),
			Count:    count,
			Percent:  percent(count, total),
		})
	}

	return breakdown, nil
}

// Ties rank alphabetically so repeated reports over the same corpus
// produce identical output.
func (r *repo) topUnits(ctx context.Context, status string) ([]UnitCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT unit_symbol, COUNT(*)
		FROM annotations
		WHERE status = $1
		GROUP BY unit_symbol
		ORDER BY COUNT(*) DESC, unit_symbol ASC
		LIMIT $2`,
		status, topN,
	)
	if err != nil {
		return nil, fmt.Errorf("top %s units: %w", status, err)
	}
	defer rows.Close()

	units := make([]UnitCount, 0, topN)
	for rows.Next() {
		var u UnitCount
		if err := rows.Scan(&u.Unit, &u.Count); err != nil {
			return nil, err
		}
		units = append(units, u)
	}

	return units, rows.Err()
}

func (r *repo) topTerms(ctx context.Context) ([]TermCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT term_id, term_label, COUNT(*)
		FROM annotations
		WHERE term_id IS NOT NULL
		GROUP BY term_id, term_label
		ORDER BY COUNT(*) DESC, term_id ASC
		LIMIT $1`,
		topN,
	)
	if err != nil {
		return nil, fmt.Errorf("top terms: %w", err)
	}
	defer rows.Close()

	terms := make([]TermCount, 0, topN)
	for rows.Next() {
		var t TermCount
		if err := rows.Scan(&t.TermID, &t.TermLabel, &t.Count); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}

	return terms, rows.Err()
}
