package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int       // max results (0 = unlimited)
	After     int64     // sequence > After
	Before    int64     // sequence < Before
	From      time.Time // timestamp >= From
	To        time.Time // timestamp <= To
	Operation string    // exact match when non-empty
}

// AnalysisEventData captures a single engine invocation.
type AnalysisEventData struct {
	RequestID     string
	Operation     string
	Source        string // "api" or "cli"
	Success       bool
	ErrorMessage  string
	LatencyMicros int64
	Input         string // JSON
	Output        string // JSON, empty on failure
	// FinalProbability is the headline probability of the result, when
	// the operation produces one.
	FinalProbability *float64
}

// AnalysisEventRecord is a persisted analysis event.
type AnalysisEventRecord struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	AnalysisEventData
}

// EventRepo provides append and query access to usage events.
type EventRepo interface {
	// AppendAnalysis records an engine invocation.
	AppendAnalysis(ctx context.Context, data AnalysisEventData) error

	// QueryAnalyses returns events newest first.
	QueryAnalyses(ctx context.Context, opts QueryOpts) ([]AnalysisEventRecord, error)

	// GetAnalysis returns a single event by row ID.
	GetAnalysis(ctx context.Context, id int64) (*AnalysisEventRecord, error)

	// Prune deletes all but the keep most recent events and returns the
	// number deleted.
	Prune(ctx context.Context, keep int) (int64, error)
}
