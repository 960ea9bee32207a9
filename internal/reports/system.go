package reports

import "context"

// System defines the public contract for report generation.
type System interface {
	Handler() *Handler
	// Summary aggregates every stored annotation into a corpus report.
	Summary(ctx context.Context) (*Summary, error)
}
