package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// ErrNotFound is returned when a requested event does not exist.
var ErrNotFound = errors.New("not found")

// eventRepo implements EventRepo on the ent SQL driver and the global
// sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *eventRepo) AppendAnalysis(ctx context.Context, data AnalysisEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var final sql.NullFloat64
	if data.FinalProbability != nil {
		final = sql.NullFloat64{Float64: *data.FinalProbability, Valid: true}
	}

	query, args := builder().
		Insert(tableAnalysisEvents).
		Columns(analysisColumns[1:]...).
		Values(
			seqNum,
			time.Now().UTC().UnixNano(),
			data.RequestID,
			data.Operation,
			data.Source,
			data.Success,
			data.ErrorMessage,
			data.LatencyMicros,
			data.Input,
			data.Output,
			final,
		).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save analysis event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAnalyses(ctx context.Context, opts QueryOpts) ([]AnalysisEventRecord, error) {
	sel := builder().
		Select(analysisColumns...).
		From(entsql.Table(tableAnalysisEvents)).
		OrderBy(entsql.Desc(colSequence))
	if opts.After > 0 {
		sel.Where(entsql.GT(colSequence, opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT(colSequence, opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE(colTimestampNs, opts.From.UTC().UnixNano()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE(colTimestampNs, opts.To.UTC().UnixNano()))
	}
	if opts.Operation != "" {
		sel.Where(entsql.EQ(colOperation, opts.Operation))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	out, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query analysis events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) GetAnalysis(ctx context.Context, id int64) (*AnalysisEventRecord, error) {
	sel := builder().
		Select(analysisColumns...).
		From(entsql.Table(tableAnalysisEvents)).
		Where(entsql.EQ(colID, id))

	out, err := r.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("get analysis event %d: %w", id, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("analysis event %d: %w", id, ErrNotFound)
	}
	return &out[0], nil
}

func (r *eventRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	newest := builder().
		Select(colSequence).
		From(entsql.Table(tableAnalysisEvents)).
		OrderBy(entsql.Desc(colSequence)).
		Limit(keep)
	query, args := builder().
		Delete(tableAnalysisEvents).
		Where(entsql.NotIn(colSequence, newest)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("prune analysis events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune analysis events: %w", err)
	}
	return n, nil
}

func (r *eventRepo) query(ctx context.Context, sel *entsql.Selector) ([]AnalysisEventRecord, error) {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AnalysisEventRecord
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis events: %w", err)
	}
	return out, nil
}

func scanAnalysis(rows *entsql.Rows) (*AnalysisEventRecord, error) {
	var (
		rec   AnalysisEventRecord
		tsNs  int64
		final sql.NullFloat64
	)
	err := rows.Scan(
		&rec.ID,
		&rec.Sequence,
		&tsNs,
		&rec.RequestID,
		&rec.Operation,
		&rec.Source,
		&rec.Success,
		&rec.ErrorMessage,
		&rec.LatencyMicros,
		&rec.Input,
		&rec.Output,
		&final,
	)
	if err != nil {
		return nil, fmt.Errorf("scan analysis event: %w", err)
	}
	rec.Timestamp = time.Unix(0, tsNs).UTC()
	if final.Valid {
		v := final.Float64
		rec.FinalProbability = &v
	}
	return &rec, nil
}
