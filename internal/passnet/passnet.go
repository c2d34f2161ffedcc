// Package passnet wires the normalizer, classifier and aggregator into one
// pure function from a raw event table to a pass network edge table.
package passnet

import (
	"errors"

	"github.com/pable/go-pass-network/internal/aggregator"
	"github.com/pable/go-pass-network/internal/classifier"
	"github.com/pable/go-pass-network/internal/model"
	"github.com/pable/go-pass-network/internal/normalize"
	"github.com/pable/go-pass-network/internal/schema"
)

// Options are the explicit inputs of a build besides the table itself.
type Options struct {
	Schema schema.Schema
	Team   string
}

// DefaultOptions uses the StatsBomb column names and no team filter.
func DefaultOptions() Options {
	return Options{Schema: schema.Default()}
}

// Result is the output of one build.
type Result struct {
	Events  []model.Event
	Edges   []model.Edge
	Summary model.Summary

	MissingColumns       []schema.Field
	OutcomeColumnMissing bool
	TeamColumnMissing    bool
}

// Build runs the full pipeline over t. The table is only read. A
// *schema.SchemaError or *model.EmptyInputError is returned unwrapped; the
// Result is still returned alongside an EmptyInputError so callers can
// report the counts.
func Build(t *model.Table, opts Options) (*Result, error) {
	if opts.Schema.Columns == nil {
		opts.Schema = schema.Default()
	}

	events, st, err := normalize.Normalize(t, opts.Schema, normalize.Options{Team: opts.Team})
	res := &Result{
		MissingColumns:       st.Missing,
		OutcomeColumnMissing: st.OutcomeColumnMissing,
		TeamColumnMissing:    st.TeamColumnMissing,
	}
	res.Summary.RowsRead = st.RowsRead
	res.Summary.RowsDropped = st.RowsDropped
	res.Summary.RowsFiltered = st.RowsFiltered
	res.Summary.Events = st.Events
	if err != nil {
		var se *schema.SchemaError
		if errors.As(err, &se) {
			return nil, err
		}
		return res, err
	}

	res.Events = classifier.ClassifyAll(events)

	edges, sum, err := aggregator.Aggregate(res.Events)
	sum.RowsRead, sum.RowsDropped, sum.RowsFiltered = st.RowsRead, st.RowsDropped, st.RowsFiltered
	res.Summary = sum
	res.Edges = edges
	return res, err
}
