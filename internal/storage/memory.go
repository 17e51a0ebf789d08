package storage

import (
	"context"
	"sort"
	"sync"

	"wanglandau/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	summaries   map[string]model.RunSummary
	refinements map[string][]model.RefinementDiagnostics
	snapshots   map[string]model.DoSSnapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.summaries = make(map[string]model.RunSummary)
	s.refinements = make(map[string][]model.RefinementDiagnostics)
	s.snapshots = make(map[string]model.DoSSnapshot)
	return nil
}

func (s *MemoryStore) SaveRunSummary(_ context.Context, summary model.RunSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.summaries[summary.ID] = summary
	return nil
}

func (s *MemoryStore) GetRunSummary(_ context.Context, id string) (model.RunSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.summaries[id]
	return summary, ok, nil
}

func (s *MemoryStore) ListRunSummaries(_ context.Context) ([]model.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]model.RunSummary, 0, len(s.summaries))
	for _, summary := range s.summaries {
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].ID < summaries[j].ID
	})
	return summaries, nil
}

func (s *MemoryStore) SaveRefinements(_ context.Context, runID string, diagnostics []model.RefinementDiagnostics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]model.RefinementDiagnostics, len(diagnostics))
	copy(copied, diagnostics)
	s.refinements[runID] = copied
	return nil
}

func (s *MemoryStore) GetRefinements(_ context.Context, runID string) ([]model.RefinementDiagnostics, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diagnostics, ok := s.refinements[runID]
	if !ok {
		return nil, false, nil
	}
	copied := make([]model.RefinementDiagnostics, len(diagnostics))
	copy(copied, diagnostics)
	return copied, true, nil
}

func (s *MemoryStore) SaveDoS(_ context.Context, snapshot model.DoSSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot.Edges = append([]float64(nil), snapshot.Edges...)
	snapshot.LogDoS = append([]float64(nil), snapshot.LogDoS...)
	s.snapshots[snapshot.RunID] = snapshot
	return nil
}

func (s *MemoryStore) GetDoS(_ context.Context, runID string) (model.DoSSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.snapshots[runID]
	if !ok {
		return model.DoSSnapshot{}, false, nil
	}
	snapshot.Edges = append([]float64(nil), snapshot.Edges...)
	snapshot.LogDoS = append([]float64(nil), snapshot.LogDoS...)
	return snapshot, true, nil
}
