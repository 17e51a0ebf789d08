package storage

import (
	"context"

	"wanglandau/internal/model"
)

// Store defines persistence operations for run history: summaries,
// per-refinement diagnostics and DoS snapshots.
type Store interface {
	Init(ctx context.Context) error
	SaveRunSummary(ctx context.Context, summary model.RunSummary) error
	GetRunSummary(ctx context.Context, id string) (model.RunSummary, bool, error)
	ListRunSummaries(ctx context.Context) ([]model.RunSummary, error)
	SaveRefinements(ctx context.Context, runID string, diagnostics []model.RefinementDiagnostics) error
	GetRefinements(ctx context.Context, runID string) ([]model.RefinementDiagnostics, bool, error)
	SaveDoS(ctx context.Context, snapshot model.DoSSnapshot) error
	GetDoS(ctx context.Context, runID string) (model.DoSSnapshot, bool, error)
}
