package api

import (
	"context"
	"sync"

	"github.com/abhisek/bayesdx/internal/store"
)

// memRepo keeps appended usage events in memory.
type memRepo struct {
	mu     sync.Mutex
	events []store.AnalysisEventData
}

func (m *memRepo) AppendAnalysis(_ context.Context, data store.AnalysisEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, data)
	return nil
}

func (m *memRepo) QueryAnalyses(context.Context, store.QueryOpts) ([]store.AnalysisEventRecord, error) {
	return nil, nil
}

func (m *memRepo) GetAnalysis(context.Context, int64) (*store.AnalysisEventRecord, error) {
	return nil, store.ErrNotFound
}

func (m *memRepo) Prune(context.Context, int) (int64, error) { return 0, nil }
