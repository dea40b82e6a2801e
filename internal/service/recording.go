package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/bayesdx/internal/bayes"
	"github.com/abhisek/bayesdx/internal/store"
)

// RecordingEngine is a decorator that records every call in the usage log.
type RecordingEngine struct {
	inner  Engine
	repo   store.EventRepo
	logger *zap.Logger
}

// WithRecording wraps an Engine with usage logging. A nil repo disables
// recording.
func WithRecording(e Engine, repo store.EventRepo, logger *zap.Logger) Engine {
	if repo == nil {
		return e
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordingEngine{inner: e, repo: repo, logger: logger}
}

func (r *RecordingEngine) LikelihoodRatio(ctx context.Context, in LRInput) (bayes.LR, error) {
	return record(ctx, r, OpLikelihoodRatio, in, func() (bayes.LR, error) {
		return r.inner.LikelihoodRatio(ctx, in)
	}, nil)
}

func (r *RecordingEngine) Posterior(ctx context.Context, in PosteriorInput) (float64, error) {
	return record(ctx, r, OpPosterior, in, func() (float64, error) {
		return r.inner.Posterior(ctx, in)
	}, func(p float64) *float64 { return &p })
}

func (r *RecordingEngine) Sequential(ctx context.Context, in SequentialInput) (bayes.SequentialAnalysis, error) {
	return record(ctx, r, OpSequential, in, func() (bayes.SequentialAnalysis, error) {
		return r.inner.Sequential(ctx, in)
	}, func(a bayes.SequentialAnalysis) *float64 { return &a.FinalProbability })
}

func (r *RecordingEngine) Performance(ctx context.Context, in PerformanceInput) (bayes.TestPerformance, error) {
	return record(ctx, r, OpPerformance, in, func() (bayes.TestPerformance, error) {
		return r.inner.Performance(ctx, in)
	}, func(p bayes.TestPerformance) *float64 { return &p.PPV })
}

func (r *RecordingEngine) Recommend(ctx context.Context, in RecommendInput) (bayes.Recommendation, error) {
	return record(ctx, r, OpRecommend, in, func() (bayes.Recommendation, error) {
		return r.inner.Recommend(ctx, in)
	}, nil)
}

func record[T any](
	ctx context.Context,
	r *RecordingEngine,
	op Operation,
	in any,
	call func() (T, error),
	headline func(T) *float64,
) (T, error) {
	start := time.Now()
	out, err := call()
	latency := time.Since(start)

	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	data := store.AnalysisEventData{
		RequestID:     requestID,
		Operation:     string(op),
		Source:        SourceFrom(ctx),
		Success:       err == nil,
		LatencyMicros: latency.Microseconds(),
		Input:         marshalOrEmpty(in),
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	} else {
		data.Output = marshalOrEmpty(out)
		if headline != nil {
			data.FinalProbability = headline(out)
		}
	}

	// Log the event but don't fail the call if logging fails.
	if logErr := r.repo.AppendAnalysis(ctx, data); logErr != nil {
		r.logger.Warn("failed to record usage event",
			zap.String("operation", string(op)),
			zap.String("request_id", requestID),
			zap.Error(logErr),
		)
	}
	return out, err
}

func marshalOrEmpty(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
