package store

import (
	"context"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Column names of the analysis_events table.
const (
	tableAnalysisEvents = "analysis_events"

	colID               = "id"
	colSequence         = "sequence"
	colTimestampNs      = "timestamp_ns"
	colRequestID        = "request_id"
	colOperation        = "operation"
	colSource           = "source"
	colSuccess          = "success"
	colErrorMessage     = "error_message"
	colLatencyUs        = "latency_us"
	colInput            = "input"
	colOutput           = "output"
	colFinalProbability = "final_probability"
)

// analysisColumns is the select order expected by scanAnalysis.
var analysisColumns = []string{
	colID, colSequence, colTimestampNs, colRequestID, colOperation, colSource, colSuccess,
	colErrorMessage, colLatencyUs, colInput, colOutput, colFinalProbability,
}

var (
	// analysisEventsColumns holds the columns for the "analysis_events" table.
	analysisEventsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt64, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestampNs, Type: field.TypeInt64},
		{Name: colRequestID, Type: field.TypeString},
		{Name: colOperation, Type: field.TypeString},
		{Name: colSource, Type: field.TypeString},
		{Name: colSuccess, Type: field.TypeBool},
		{Name: colErrorMessage, Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: colLatencyUs, Type: field.TypeInt64},
		{Name: colInput, Type: field.TypeString, Size: 2147483647},
		{Name: colOutput, Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: colFinalProbability, Type: field.TypeFloat64, Nullable: true},
	}
	// analysisEventsTable holds the schema information for the "analysis_events" table.
	analysisEventsTable = &schema.Table{
		Name:       tableAnalysisEvents,
		Columns:    analysisEventsColumns,
		PrimaryKey: []*schema.Column{analysisEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "analysisevent_operation",
				Unique:  false,
				Columns: []*schema.Column{analysisEventsColumns[4]},
			},
			{
				Name:    "analysisevent_timestamp_ns",
				Unique:  false,
				Columns: []*schema.Column{analysisEventsColumns[2]},
			},
		},
	}
	// tables holds every table managed by migrate.
	tables = []*schema.Table{
		analysisEventsTable,
	}
)

// migrate creates missing tables, columns and indexes. It never drops.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}

// builder returns a SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}
