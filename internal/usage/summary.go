// Package usage aggregates the usage log into summary statistics.
package usage

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/abhisek/bayesdx/internal/store"
)

// OperationSummary aggregates events of a single operation.
type OperationSummary struct {
	Operation     string  `json:"operation"`
	Count         int     `json:"count"`
	Failures      int     `json:"failures"`
	SuccessRate   float64 `json:"success_rate"`
	LatencyMeanUs float64 `json:"latency_mean_us"`
	LatencyP50Us  float64 `json:"latency_p50_us"`
	LatencyP95Us  float64 `json:"latency_p95_us"`
	// MeanHeadline is the mean headline probability (posterior, final
	// probability or PPV) over successful calls that produced one.
	MeanHeadline float64 `json:"mean_headline"`
}

// Summary aggregates a set of usage events.
type Summary struct {
	Total      int                `json:"total"`
	Operations []OperationSummary `json:"operations"`
	// MeanAbsShift is the mean |final - initial| over successful
	// sequential analyses.
	MeanAbsShift float64 `json:"mean_abs_shift"`
	// MedianSteps is the median number of observations per sequential analysis.
	MedianSteps float64 `json:"median_steps"`
}

type sequentialEnvelope struct {
	InitialProbability *float64          `json:"initial_probability"`
	Observations       []json.RawMessage `json:"observations"`
}

// Summarize computes per-operation statistics, sorted by operation name.
func Summarize(records []store.AnalysisEventRecord) Summary {
	type acc struct {
		count, failures int
		latencies       []float64
		headlines       []float64
	}
	byOp := make(map[string]*acc)
	var shifts, steps []float64

	for _, r := range records {
		a := byOp[r.Operation]
		if a == nil {
			a = &acc{}
			byOp[r.Operation] = a
		}
		a.count++
		a.latencies = append(a.latencies, float64(r.LatencyMicros))
		if !r.Success {
			a.failures++
			continue
		}
		if r.FinalProbability != nil {
			a.headlines = append(a.headlines, *r.FinalProbability)
		}
		if r.Operation == "sequential" && r.FinalProbability != nil {
			var env sequentialEnvelope
			if err := json.Unmarshal([]byte(r.Input), &env); err == nil && env.InitialProbability != nil {
				shifts = append(shifts, math.Abs(*r.FinalProbability-*env.InitialProbability))
				steps = append(steps, float64(len(env.Observations)))
			}
		}
	}

	s := Summary{Total: len(records)}
	for op, a := range byOp {
		s.Operations = append(s.Operations, OperationSummary{
			Operation:     op,
			Count:         a.count,
			Failures:      a.failures,
			SuccessRate:   float64(a.count-a.failures) / float64(a.count),
			LatencyMeanUs: orZero(stats.Mean(a.latencies)),
			LatencyP50Us:  orZero(stats.Median(a.latencies)),
			LatencyP95Us:  orZero(stats.Percentile(a.latencies, 95)),
			MeanHeadline:  orZero(stats.Mean(a.headlines)),
		})
	}
	sort.Slice(s.Operations, func(i, j int) bool {
		return s.Operations[i].Operation < s.Operations[j].Operation
	})
	s.MeanAbsShift = orZero(stats.Mean(shifts))
	s.MedianSteps = orZero(stats.Median(steps))
	return s
}

// orZero maps the empty-input error of the stats package to 0.
func orZero(v float64, err error) float64 {
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}
